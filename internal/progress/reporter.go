package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter gives feedback while a single blocking operation runs.
type Reporter interface {
	Start(description string)
	Finish(message string)
}

// NewReporter returns a TerminalReporter writing to w, or a CIReporter if
// the CI environment variable is set.
func NewReporter(w io.Writer) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{w: w}
	}
	return &TerminalReporter{w: w}
}

// TerminalReporter displays a spinner in the terminal.
type TerminalReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(description string) {
	r.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	_ = r.bar.Add(1)
}

func (r *TerminalReporter) Finish(message string) {
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
	if message != "" {
		fmt.Fprintln(r.w, message)
	}
}

// CIReporter prints plain lines suitable for CI logs.
type CIReporter struct {
	w io.Writer
}

func (r *CIReporter) Start(description string) {
	fmt.Fprintln(r.w, description)
}

func (r *CIReporter) Finish(message string) {
	if message != "" {
		fmt.Fprintln(r.w, message)
	}
}
