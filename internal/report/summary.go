// Package report renders run outcomes for people and for monitoring.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/spachava753/compatmatrix/internal/models"
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
)

// Outcome renders the OK/FAIL marker of r, colored when the terminal allows.
func Outcome(r models.CheckResult) string {
	if r.OK {
		return okColor.Sprint(r.Outcome())
	}
	return failColor.Sprint(r.Outcome())
}

// PrintCheck writes a one-line summary of a single check.
func PrintCheck(w io.Writer, r models.CheckResult) {
	fmt.Fprintf(w, "%s # %s (%.1fs)\n", r.Tuple, Outcome(r), r.DurationSec)
	if r.Error != nil {
		fmt.Fprintf(w, "  %s: %s\n", r.Error.Type, r.Error.Message)
	}
}

// PrintSummary writes a table with one row per attempted check and the run
// totals in the footer.
func PrintSummary(w io.Writer, result *models.MatrixResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Compatibility matrix (run %s)", result.RunID)
	t.AppendHeader(table.Row{"#", "Tuple", "Result", "Duration", "Error"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Tuple", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Error", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
	})

	for i, r := range result.Results {
		var msg string
		if r.Error != nil {
			msg = string(r.Error.Type)
		}
		t.AppendRow(table.Row{
			i + 1,
			r.Tuple.String(),
			Outcome(r),
			fmt.Sprintf("%.1fs", r.DurationSec),
			msg,
		})
	}

	footer := fmt.Sprintf("%d passed, %d failed", result.PassedChecks, result.FailedChecks)
	if result.SkippedChecks > 0 {
		footer += fmt.Sprintf(", %d skipped", result.SkippedChecks)
	}
	t.AppendFooter(table.Row{"", footer, "", fmt.Sprintf("%.1fs", result.TotalDurationSec), ""})
	t.SetStyle(table.StyleLight)
	t.Render()
}
