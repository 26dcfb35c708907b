// Package report renders daily-check results for humans: a markdown/HTML
// summary and an Excel workbook.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"factorgate/domain/decay"
)

// Markdown renders a daily-check result as a markdown document
func Markdown(result *decay.DailyCheckResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Daily Factor Health Check\n\n")
	fmt.Fprintf(&b, "Run `%s` started %s, completed in %s.\n\n",
		result.RunID.String(),
		result.StartedAt.Time().Format("2006-01-02 15:04:05 MST"),
		result.Duration.Round(1e6))

	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Factors checked | %d |\n", result.FactorsChecked)
	fmt.Fprintf(&b, "| Alerts raised | %d |\n", len(result.Alerts))
	fmt.Fprintf(&b, "| Decaying factors | %d |\n", len(result.DecayingFactors))
	fmt.Fprintf(&b, "| Crowded factors | %d |\n", len(result.CrowdedFactors))
	fmt.Fprintf(&b, "| Correlated pairs | %d |\n\n", len(result.CorrelatedPairs))

	if len(result.Alerts) > 0 {
		fmt.Fprintf(&b, "## Alerts\n\n")
		fmt.Fprintf(&b, "| Factor | Type | Severity | Value | Threshold | Recommendation |\n")
		fmt.Fprintf(&b, "|---|---|---|---|---|---|\n")
		for _, a := range result.Alerts {
			fmt.Fprintf(&b, "| %s | %s | %s | %.4f | %.4f | %s |\n",
				a.FactorID.String(), a.Type, a.Severity,
				a.CurrentValue, a.Threshold, a.Recommendation)
		}
		b.WriteString("\n")
	}

	if len(result.CorrelatedPairs) > 0 {
		fmt.Fprintf(&b, "## Correlated Pairs\n\n")
		for _, p := range result.CorrelatedPairs {
			fmt.Fprintf(&b, "- `%s` / `%s`: %.3f\n",
				p.FactorA.String(), p.FactorB.String(), p.Correlation)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// HTML renders the markdown summary as a standalone HTML fragment
func HTML(result *decay.DailyCheckResult) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(Markdown(result)))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}
