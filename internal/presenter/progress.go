package presenter

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

// ProgressBar shows how many repositories have been examined so far.
// It implements usecase.Progress.
type ProgressBar struct {
	out     io.Writer
	pw      progress.Writer
	tracker *progress.Tracker
}

// NewProgressBar returns a progress bar that renders to out, usually stderr.
func NewProgressBar(out io.Writer) *ProgressBar {
	return &ProgressBar{out: out}
}

// Start begins rendering. A total of zero renders an indeterminate tracker.
func (p *ProgressBar) Start(total int) {
	p.pw = progress.NewWriter()
	p.pw.SetOutputWriter(p.out)
	p.pw.SetAutoStop(true)
	p.pw.SetTrackerLength(60)
	p.pw.SetUpdateFrequency(100 * time.Millisecond)
	p.pw.SetStyle(progress.StyleDefault)
	p.tracker = &progress.Tracker{Message: "Reading repos", Total: int64(total), Units: progress.UnitsDefault}
	p.pw.AppendTracker(p.tracker)
	go p.pw.Render()
}

// Increment advances the bar by one repository.
func (p *ProgressBar) Increment() {
	if p.tracker != nil {
		p.tracker.Increment(1)
	}
}

// Done stops rendering and waits for the final frame.
func (p *ProgressBar) Done() {
	if p.pw == nil {
		return
	}
	p.tracker.MarkAsDone()
	p.pw.Stop()
	deadline := time.Now().Add(time.Second)
	for p.pw.IsRenderInProgress() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
}
