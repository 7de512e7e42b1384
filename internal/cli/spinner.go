package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a status line such as "⠹ Resolving 3/8 files..." until
// it is stopped or its context ends.
type spinner struct {
	out    io.Writer
	cancel context.CancelFunc
	done   chan struct{}

	mu    sync.Mutex
	label string
	count string
	width int
}

// startSpinner draws label on w until stop, fail or cancellation of ctx.
func startSpinner(ctx context.Context, w io.Writer, label string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &spinner{out: w, cancel: cancel, done: make(chan struct{}), label: label}
	go s.run(ctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.done)
	tick := time.NewTicker(80 * time.Millisecond)
	defer tick.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			s.clear()
			return
		case <-tick.C:
			s.draw(spinnerFrames[frame%len(spinnerFrames)])
		}
	}
}

// progress shows done/total next to the label.
func (s *spinner) progress(done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count = fmt.Sprintf("%d/%d", done, total)
}

func (s *spinner) line() string {
	if s.count == "" {
		return s.label + "..."
	}
	return s.label + " " + s.count + "..."
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.line()
	s.width = max(s.width, len(text))
	fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(text))
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width+2))
	}
}

// stop ends the animation and erases the line. It is safe to call more
// than once.
func (s *spinner) stop() {
	s.cancel()
	<-s.done
}

// fail stops the spinner and prints msg as an error.
func (s *spinner) fail(msg string) {
	s.stop()
	printError("%s", msg)
}
