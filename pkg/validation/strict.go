package validation

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-dashgen/internal/spl"
)

// Strict-mode thresholds. The size limit mirrors the point where Splunk
// Dashboard Studio starts to degrade on load.
const (
	maxPipelineStages = 5
	maxDocumentBytes  = 100 * 1024
)

// Rule is one strict-mode check: a pure function over the parsed document.
// Rules emit warnings and suggestions only; the rule set is ordered and
// each rule is independently testable.
type Rule func(*Document) []Issue

// StrictRules returns the default strict-mode rule set in evaluation order.
func StrictRules() []Rule {
	return []Rule{
		RuleQueryComplexity,
		RuleDocumentSize,
		RuleUnboundedWildcards,
		RuleDeprecatedCommands,
		RuleStudioConventions,
	}
}

// RuleQueryComplexity flags queries whose pipeline depth suggests they
// should be broken up or pushed into a saved search.
func RuleQueryComplexity(doc *Document) []Issue {
	var issues []Issue
	for _, query := range doc.Queries {
		stages := spl.Stages(query.Text)
		if stages <= maxPipelineStages {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Category: CategoryPerformance,
			Message:  fmt.Sprintf("query has %d pipeline stages (limit %d); consider simplifying", stages, maxPipelineStages),
			Location: queryLocation(query),
		})
	}
	return issues
}

// RuleDocumentSize flags documents large enough to slow dashboard loads.
func RuleDocumentSize(doc *Document) []Issue {
	if len(doc.Raw) <= maxDocumentBytes {
		return nil
	}
	return []Issue{{
		Severity: SeverityWarning,
		Category: CategoryPerformance,
		Message:  fmt.Sprintf("document is %d bytes (limit %d); large dashboards load slowly", len(doc.Raw), maxDocumentBytes),
	}}
}

// RuleUnboundedWildcards flags wildcard filters that lack an explicit time
// bound, which scan far more data than intended.
func RuleUnboundedWildcards(doc *Document) []Issue {
	var issues []Issue
	for _, query := range doc.Queries {
		if !spl.HasWildcardFilter(query.Text) || spl.HasTimeBound(query.Text) {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Category: CategorySecurity,
			Message:  "wildcard filter without an explicit time bound; add earliest/latest",
			Location: queryLocation(query),
		})
	}
	return issues
}

// RuleDeprecatedCommands suggests stats-based replacements for the
// denylisted commands.
func RuleDeprecatedCommands(doc *Document) []Issue {
	var issues []Issue
	for _, query := range doc.Queries {
		for _, command := range spl.DeprecatedCommands(query.Text) {
			issues = append(issues, Issue{
				Severity: SeveritySuggestion,
				Category: CategoryBestPractice,
				Message:  fmt.Sprintf("%q is discouraged; a stats aggregation usually performs better", command),
				Location: queryLocation(query),
			})
		}
	}
	return issues
}

var (
	knownVersions = map[string]bool{"1.0": true, "1.1": true, "1.2": true}

	knownDataSourceTypes = map[string]bool{
		"ds.search":      true,
		"ds.chain":       true,
		"ds.savedSearch": true,
	}

	knownVisualizationTypes = map[string]bool{
		"splunk.singlevalue": true,
		"splunk.line":        true,
		"splunk.column":      true,
		"splunk.pie":         true,
		"splunk.table":       true,
		"splunk.scatter":     true,
		"splunk.bubble":      true,
		"splunk.area":        true,
	}
)

// RuleStudioConventions checks Dashboard Studio conventions: a known
// document version, typed data sources, and standard visualization types.
func RuleStudioConventions(doc *Document) []Issue {
	var issues []Issue

	if version, ok := doc.Parsed["version"].(string); ok && !knownVersions[version] {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Category: CategoryBestPractice,
			Message:  fmt.Sprintf("unknown dashboard version %q", version),
			Location: "version",
		})
	}

	issues = append(issues, typedSectionIssues(doc.Parsed, "dataSources", knownDataSourceTypes, "data source")...)
	issues = append(issues, typedSectionIssues(doc.Parsed, "visualizations", knownVisualizationTypes, "visualization")...)
	return issues
}

func typedSectionIssues(parsed map[string]any, section string, known map[string]bool, label string) []Issue {
	entries, ok := parsed[section].(map[string]any)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []Issue
	for _, name := range names {
		config, ok := entries[name].(map[string]any)
		if !ok {
			continue
		}
		kind, ok := config["type"].(string)
		if !ok || kind == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Category: CategoryStructure,
				Message:  fmt.Sprintf("%s %q is missing a type field", label, name),
				Location: section + "." + name,
			})
			continue
		}
		if !known[kind] {
			issues = append(issues, Issue{
				Severity: SeveritySuggestion,
				Category: CategoryBestPractice,
				Message:  fmt.Sprintf("%s %q uses non-standard type %q", label, name, kind),
				Location: section + "." + name + ".type",
			})
		}
	}
	return issues
}

func queryLocation(query spl.Query) string {
	return "dataSources." + query.Source + ".options.query"
}
