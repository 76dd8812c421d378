// Package spl holds the query-text heuristics behind strict-mode
// validation: pure helpers over SPL search strings extracted from a parsed
// dashboard. Rules in pkg/validation compose these; nothing here touches
// severity or report assembly.
package spl

import (
	"regexp"
	"sort"
	"strings"
)

// Query is one search string pulled out of a dashboard document, tagged
// with the data source that owns it for issue locations.
type Query struct {
	Source string
	Text   string
}

// FromDashboard collects the query strings of every data source in a
// parsed dashboard, sorted by data source name for deterministic reports.
func FromDashboard(doc map[string]any) []Query {
	sources, ok := doc["dataSources"].(map[string]any)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	var queries []Query
	for _, name := range names {
		config, ok := sources[name].(map[string]any)
		if !ok {
			continue
		}
		options, ok := config["options"].(map[string]any)
		if !ok {
			continue
		}
		if text, ok := options["query"].(string); ok && strings.TrimSpace(text) != "" {
			queries = append(queries, Query{Source: name, Text: text})
		}
	}
	return queries
}

// Stages counts the pipeline stages of a query: one more than the number
// of top-level pipe separators. Pipes inside quoted strings do not split.
func Stages(query string) int {
	if strings.TrimSpace(query) == "" {
		return 0
	}
	return len(splitStages(query))
}

var wildcardFilter = regexp.MustCompile(`(^|[\s=(])\*([\s)|]|$)`)

// HasWildcardFilter reports whether the query's search filter contains an
// unbounded wildcard term.
func HasWildcardFilter(query string) bool {
	return wildcardFilter.MatchString(query)
}

// HasTimeBound reports whether the query carries an explicit time window.
func HasTimeBound(query string) bool {
	lower := strings.ToLower(query)
	return strings.Contains(lower, "earliest=") || strings.Contains(lower, "latest=")
}

// deprecatedCommands is the fixed denylist of discouraged constructs; both
// have a stats-based equivalent that scales better.
var deprecatedCommands = []string{"join", "transaction"}

// DeprecatedCommands returns the discouraged commands a query invokes, in
// denylist order, each reported once.
func DeprecatedCommands(query string) []string {
	seen := make(map[string]bool)
	for _, stage := range splitStages(query) {
		fields := strings.Fields(stage)
		if len(fields) == 0 {
			continue
		}
		command := strings.ToLower(fields[0])
		for _, deprecated := range deprecatedCommands {
			if command == deprecated {
				seen[command] = true
			}
		}
	}

	var out []string
	for _, deprecated := range deprecatedCommands {
		if seen[deprecated] {
			out = append(out, deprecated)
		}
	}
	return out
}

func splitStages(query string) []string {
	var (
		stages []string
		start  int
		quote  byte
	)
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '|':
			stages = append(stages, strings.TrimSpace(query[start:i]))
			start = i + 1
		}
	}
	stages = append(stages, strings.TrimSpace(query[start:]))
	return stages
}
