package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/ledger-tools/ledgerimport/internal/progress"
)

// pollInterval is how often the rendered bar polls the progress snapshot.
const pollInterval = 100 * time.Millisecond

// RenderProgress polls state and renders it to w as a percentage bar until
// ctx is done or state reaches progress.Done. It blocks, so call it from its
// own goroutine alongside the import run it is tracking.
func RenderProgress(ctx context.Context, w io.Writer, state *progress.State) {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		snap := state.Snapshot()
		bar.Describe(fmt.Sprintf("[cyan][bold]%s[reset]", snap.Step))
		_ = bar.Set(snap.Percent())

		if snap.Step == progress.Done {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
