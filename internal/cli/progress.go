package cli

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// stageDescriptions label the research pipeline stages on the progress bar.
var stageDescriptions = map[string]string{
	"suppliers": "Looking up suppliers...",
	"rating":    "Rating products...",
	"saving":    "Saving results...",
}

// StageProgress draws one progress bar per pipeline stage. Its Update method
// matches the pipeline's progress callback.
type StageProgress struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
	stage  string
	mu     sync.Mutex
}

// NewStageProgress creates a progress reporter writing to w.
func NewStageProgress(w io.Writer) *StageProgress {
	return &StageProgress{writer: w}
}

// Update moves the bar of stage to done out of total, starting a new bar
// when the stage changes.
func (p *StageProgress) Update(stage string, done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if stage != p.stage || p.bar == nil {
		p.finishLocked()
		p.stage = stage
		p.bar = p.newBar(stage, total)
	}
	if err := p.bar.Set(done); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Finish completes the current bar.
func (p *StageProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finishLocked()
}

func (p *StageProgress) finishLocked() {
	if p.bar == nil || p.bar.IsFinished() {
		return
	}
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
}

func (p *StageProgress) newBar(stage string, total int) *progressbar.ProgressBar {
	desc, ok := stageDescriptions[stage]
	if !ok {
		desc = stage
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+desc+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
