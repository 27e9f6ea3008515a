package service

import (
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// barReporter adapts schollz/progressbar/v3 to builder.ProgressReporter,
// tracking one tick per extracted cache miss. It renders only when
// stdout is a real terminal.
type barReporter struct {
	bar *progressbar.ProgressBar
}

func newBarReporter() *barReporter {
	return &barReporter{}
}

func (r *barReporter) Start(total int) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("extracting imports"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *barReporter) Advance() {
	if r.bar != nil {
		_ = r.bar.Add(1)
	}
}

func (r *barReporter) Done() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}
