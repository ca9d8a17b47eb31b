// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

// Progress reports how many families have been processed.
type Progress interface {
	Start(total int)
	Increment()
	Done()
}

// NopProgress discards progress updates.
type NopProgress struct{}

func (NopProgress) Start(int)  {}
func (NopProgress) Increment() {}
func (NopProgress) Done()      {}

// BarProgress renders a single progress bar to a terminal.
type BarProgress struct {
	pw      progress.Writer
	tracker *progress.Tracker
	message string
}

// NewBarProgress returns a bar labelled message that renders to w.
func NewBarProgress(w io.Writer, message string) *BarProgress {
	pw := progress.NewWriter()
	pw.SetOutputWriter(w)
	pw.SetAutoStop(true)
	pw.SetTrackerLength(30)
	pw.SetUpdateFrequency(200 * time.Millisecond)
	return &BarProgress{pw: pw, message: message}
}

// Start begins rendering. A run with no families shows no bar.
func (b *BarProgress) Start(total int) {
	if total <= 0 {
		return
	}
	b.tracker = &progress.Tracker{Message: b.message, Total: int64(total)}
	b.pw.AppendTracker(b.tracker)
	go b.pw.Render()
	for !b.pw.IsRenderInProgress() {
		time.Sleep(time.Millisecond)
	}
}

// Increment advances the bar by one family.
func (b *BarProgress) Increment() {
	if b.tracker != nil {
		b.tracker.Increment(1)
	}
}

// Done completes the bar and waits for the final frame.
func (b *BarProgress) Done() {
	if b.tracker == nil {
		return
	}
	b.tracker.MarkAsDone()
	for b.pw.IsRenderInProgress() {
		time.Sleep(10 * time.Millisecond)
	}
}
