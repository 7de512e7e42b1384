package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer lets the test read what the spinner goroutine wrote.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerProgress(t *testing.T) {
	var out syncBuffer
	s := startSpinner(context.Background(), &out, "Resolving files")
	s.progress(3, 8)
	time.Sleep(200 * time.Millisecond)
	s.stop()
	s.stop()

	got := out.String()
	if !strings.Contains(got, "Resolving files 3/8...") {
		t.Errorf("output %q should show progress", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("output %q should end by clearing the line", got)
	}
}

func TestSpinnerStopsWithContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()
			s := startSpinner(ctx, &syncBuffer{}, "Downloading")

			select {
			case <-s.done:
			case <-time.After(time.Second):
				t.Fatal("spinner kept running after its context ended")
			}
		})
	}
}

func TestSpinnerLine(t *testing.T) {
	s := &spinner{label: "Fetching versions of acme"}
	if got := s.line(); got != "Fetching versions of acme..." {
		t.Errorf("line() = %q", got)
	}
	s.progress(1, 2)
	if got := s.line(); got != "Fetching versions of acme 1/2..." {
		t.Errorf("line() = %q", got)
	}
}
