package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar wraps the progressbar library with our custom styling
type ProgressBar struct {
	bar   *progressbar.ProgressBar
	phase string
	total int
}

// Phase represents a stage of a verification run
type Phase string

const (
	PhaseLoading    Phase = "Loading"
	PhaseChecking   Phase = "Checking"
	PhaseGenerating Phase = "Generating"
)

// NewProgressBar creates a new progress bar for a specific phase
func NewProgressBar(phase Phase, total int) *ProgressBar {
	return NewProgressBarWithOutput(phase, total, os.Stdout)
}

// NewProgressBarWithOutput creates a new progress bar with custom output
func NewProgressBarWithOutput(phase Phase, total int, output io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(output),
		progressbar.OptionSetDescription(fmt.Sprintf("[%s]", phase)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(true),
	)

	return &ProgressBar{
		bar:   bar,
		phase: string(phase),
		total: total,
	}
}

// Increment increments the progress bar by 1
func (pb *ProgressBar) Increment() error {
	return pb.bar.Add(1)
}

// SetTotal updates the total count of the progress bar
func (pb *ProgressBar) SetTotal(total int) {
	pb.total = total
	pb.bar.ChangeMax(total)
}

// Finish completes the progress bar
func (pb *ProgressBar) Finish() error {
	return pb.bar.Finish()
}

// Describe shows the current step next to the phase name
func (pb *ProgressBar) Describe(step string) {
	pb.bar.Describe(fmt.Sprintf("[%s] %s", pb.phase, step))
}

// Current returns the number of completed steps
func (pb *ProgressBar) Current() int {
	return int(pb.bar.State().CurrentNum)
}

// Tracker moves through the phases of one run, one bar per phase
type Tracker struct {
	phases  []Phase
	current int
	bars    []*ProgressBar
	output  io.Writer
}

// NewTracker creates a tracker writing to stdout
func NewTracker(phases []Phase) *Tracker {
	return NewTrackerWithOutput(phases, os.Stdout)
}

// NewTrackerWithOutput creates a tracker with custom output.
// Pass io.Discard to silence the bars.
func NewTrackerWithOutput(phases []Phase, output io.Writer) *Tracker {
	return &Tracker{
		phases:  phases,
		current: -1,
		bars:    make([]*ProgressBar, 0, len(phases)),
		output:  output,
	}
}

// NextPhase finishes the current bar and starts the next phase.
// It returns nil once every phase has been started.
func (t *Tracker) NextPhase(total int) *ProgressBar {
	if t.current >= 0 && t.current < len(t.bars) {
		t.bars[t.current].Finish()
	}

	t.current++
	if t.current >= len(t.phases) {
		return nil
	}

	bar := NewProgressBarWithOutput(t.phases[t.current], total, t.output)
	t.bars = append(t.bars, bar)
	return bar
}

// Finish completes the active phase
func (t *Tracker) Finish() {
	if t.current >= 0 && t.current < len(t.bars) {
		t.bars[t.current].Finish()
	}
}
