package cli

import "fmt"

// RunSummary holds the counters printed at the end of a non-interactive
// import run.
type RunSummary struct {
	AccountsSeen    int
	Categorized     int
	Uncategorized   int
	DurationSeconds float64
}

// FormatRunSummary renders a RunSummary in a bordered box, styled the same
// way as the rest of this package's output.
func FormatRunSummary(s RunSummary) string {
	content := fmt.Sprintf(
		"%s\n%s\n%s\n%s",
		InfoStyle.Render(fmt.Sprintf("Accounts:      %d", s.AccountsSeen)),
		SuccessStyle.Render(fmt.Sprintf("Categorized:   %d", s.Categorized)),
		WarningStyle.Render(fmt.Sprintf("Uncategorized: %d", s.Uncategorized)),
		SubtleStyle.Render(fmt.Sprintf("Duration:      %.1fs", s.DurationSeconds)),
	)
	return RenderBox("Import complete", content)
}
