// Package progress renders pipeline status on the terminal.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/ziadkadry99/edugen/internal/pipeline"
)

// Reporter provides progress feedback during lesson generation.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// NewReporter returns a TerminalReporter if running in an interactive terminal,
// or a CIReporter if the CI environment variable is set.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{Out: os.Stderr}
	}
	return &TerminalReporter{}
}

// Observe feeds pipeline status into r. The reporter is finished when the
// run reaches a terminal step.
func Observe(r Reporter) pipeline.Observer {
	started := false
	return func(st pipeline.Status) {
		if !started {
			r.Start(100)
			started = true
		}
		r.Update(st.Progress, st.Message)
		if st.Step == pipeline.StepCompleted || st.Step == pipeline.StepError {
			r.Finish()
			started = false
		}
	}
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Preparing lesson"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	Out   io.Writer
	total int
}

func (r *CIReporter) Start(total int) {
	r.total = total
	fmt.Fprintln(r.Out, "Starting lesson generation")
}

func (r *CIReporter) Update(current int, message string) {
	fmt.Fprintf(r.Out, "[%3d%%] %s\n", current*100/max(r.total, 1), message)
}

func (r *CIReporter) Finish() {
	fmt.Fprintln(r.Out, "Lesson generation finished")
}
