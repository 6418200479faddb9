package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	"xdccget/pkg/types"
	"xdccget/pkg/utils"

	"github.com/schollz/progressbar/v3"
)

// ProgressUI renders transfer progress reported by the server as a console
// progress bar with throughput information.
type ProgressUI struct {
	bar        *progressbar.ProgressBar
	filename   string
	totalBytes int64
}

// NewProgressUI creates a new progress UI
func NewProgressUI() *ProgressUI {
	return &ProgressUI{}
}

// Watch consumes progress updates until the channel is closed or the context
// is cancelled. It is meant to run in its own goroutine alongside the
// session read loop.
func (p *ProgressUI) Watch(ctx context.Context, updates <-chan types.ProgressUpdate) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				p.finish()
				return
			}
			p.update(update)
		}
	}
}

// initBar initializes the progress bar on the first update, once the total
// size and filename are known.
func (p *ProgressUI) initBar(update types.ProgressUpdate) {
	p.filename = update.Filename
	p.totalBytes = update.BytesTotal

	total := update.BytesTotal
	if total <= 0 {
		total = -1 // indeterminate until the server reports a total
	}

	p.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", update.Filename)),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(false),
	)
}

// update applies one progress update to the bar.
func (p *ProgressUI) update(update types.ProgressUpdate) {
	if p.bar == nil {
		p.initBar(update)
	}

	if p.totalBytes <= 0 && update.BytesTotal > 0 {
		p.totalBytes = update.BytesTotal
		p.bar.ChangeMax64(update.BytesTotal)
	}

	_ = p.bar.Set64(update.BytesReceived)

	rateStr := fmt.Sprintf("%s/s", utils.FormatFileSize(int64(update.Rate)))
	p.bar.Describe(fmt.Sprintf("Downloading %s (%d%% - %s)", p.filename, update.Percent, rateStr))
}

// finish clears the bar so the final summary prints on its own line.
func (p *ProgressUI) finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	fmt.Fprintln(os.Stderr)
}
