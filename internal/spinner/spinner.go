// Package spinner shows a progress indicator on stderr while a remote catalog downloads.
package spinner

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

var frames = []string{"◜", "◠", "◝", "◞", "◡", "◟"}

// Spinner is a spinning progress indicator. A nil *Spinner is valid and does nothing.
type Spinner struct {
	writer  io.Writer
	delay   time.Duration
	message string

	mu     sync.Mutex
	active bool
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a spinner writing to w. It does not start until Start is called.
func New(w io.Writer, message string) *Spinner {
	return &Spinner{
		writer:  w,
		delay:   100 * time.Millisecond,
		message: message,
	}
}

// ForTerminal returns a spinner on f, or nil when f is not a terminal.
func ForTerminal(f *os.File, message string) *Spinner {
	if !IsTerminal(f) {
		return nil
	}
	return New(f, message)
}

// Start begins the animation; it stops on Stop or when ctx is done.
func (s *Spinner) Start(ctx context.Context) {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.active = true
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(runCtx, s.done)
}

// Stop ends the animation and clears the line.
func (s *Spinner) Stop() {
	if s == nil {
		return
	}

	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.cancel()
	done := s.done
	s.mu.Unlock()

	<-done

	if f, ok := s.writer.(*os.File); ok && IsTerminal(f) {
		fmt.Fprint(s.writer, "\r\033[2K")
	} else {
		fmt.Fprint(s.writer, "\r")
	}
}

// IsActive returns whether the spinner is currently running.
func (s *Spinner) IsActive() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Update replaces the message shown next to the spinner.
func (s *Spinner) Update(message string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

func (s *Spinner) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			message := s.message
			s.mu.Unlock()

			fmt.Fprintf(s.writer, "\r%s %s", frames[i%len(frames)], message)
		}
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
