package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar wraps the progressbar library with our custom styling
type ProgressBar struct {
	bar    *progressbar.ProgressBar
	phase  string
	total  int
	output io.Writer
}

// Phase represents a stage in the repair pipeline
type Phase string

const (
	PhaseRepairing Phase = "Repairing"
	PhaseAuditing  Phase = "Auditing"
	PhaseReporting Phase = "Reporting"
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
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetPredictTime(true),
	)

	return &ProgressBar{
		bar:    bar,
		phase:  string(phase),
		total:  total,
		output: output,
	}
}

// Add increments the progress bar by n
func (pb *ProgressBar) Add(n int) error {
	return pb.bar.Add(n)
}

// Increment increments the progress bar by 1
func (pb *ProgressBar) Increment() error {
	return pb.bar.Add(1)
}

// Finish completes the progress bar
func (pb *ProgressBar) Finish() error {
	return pb.bar.Finish()
}

// Describe updates the description of the progress bar
func (pb *ProgressBar) Describe(description string) {
	pb.bar.Describe(fmt.Sprintf("[%s] %s", pb.phase, description))
}

// Clear clears the progress bar from the terminal
func (pb *ProgressBar) Clear() error {
	return pb.bar.Clear()
}
