package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-dashgen/pkg/validation"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
)

func severityStyle(severity validation.Severity) lipgloss.Style {
	switch severity {
	case validation.SeverityError:
		return errorStyle
	case validation.SeverityWarning:
		return warnStyle
	default:
		return hintStyle
	}
}

func printReport(out io.Writer, report validation.Report) {
	for _, issue := range report.Issues {
		label := severityStyle(issue.Severity).Render(string(issue.Severity))
		if issue.Location != "" {
			fmt.Fprintf(out, "  %s [%s] %s (%s)\n", label, issue.Category, issue.Message, issue.Location)
			continue
		}
		fmt.Fprintf(out, "  %s [%s] %s\n", label, issue.Category, issue.Message)
	}
}

func printReportSummary(out io.Writer, report validation.Report) {
	if report.Passed() && len(report.Issues) == 0 {
		fmt.Fprintln(out, successStyle.Render("validation passed"))
		return
	}
	if report.Passed() {
		fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf(
			"validation passed with %d warning(s), %d suggestion(s)",
			report.Count(validation.SeverityWarning),
			report.Count(validation.SeveritySuggestion))))
		return
	}
	fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf(
		"validation failed with %d error(s)", report.Count(validation.SeverityError))))
}
