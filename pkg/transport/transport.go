// Package transport provides line-oriented output transports for
// serialized G-code. Opening and closing real devices is the caller's
// concern; a transport only carries ordered text lines.
package transport

import (
	"io"
	"strings"
	"sync"

	"liblasercut-go-migration/pkg/errors"
)

// LineWriter receives serialized G-code one line at a time, in emission
// order. Implementations append their own line terminator.
type LineWriter interface {
	WriteLine(line string) error
}

// Stream writes lines to an io.Writer with a configurable line ending,
// counting lines and bytes as they pass through. Write errors from the
// underlying writer are wrapped with transport context; the original
// error stays reachable through Unwrap.
type Stream struct {
	mu     sync.Mutex
	w      io.Writer
	ending string
	lines  int64
	bytes  int64
	closed bool
}

// NewStream creates a Stream over w. An empty lineEnding defaults to "\n".
func NewStream(w io.Writer, lineEnding string) *Stream {
	if lineEnding == "" {
		lineEnding = "\n"
	}
	return &Stream{w: w, ending: lineEnding}
}

// WriteLine writes one line plus the configured terminator.
func (s *Stream) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.TransportClosedError()
	}

	n, err := io.WriteString(s.w, line)
	s.bytes += int64(n)
	if err != nil {
		return errors.TransportWriteError(err)
	}
	n, err = io.WriteString(s.w, s.ending)
	s.bytes += int64(n)
	if err != nil {
		return errors.TransportWriteError(err)
	}
	s.lines++
	return nil
}

// Lines returns the number of lines written so far.
func (s *Stream) Lines() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines
}

// Bytes returns the number of bytes written so far, terminators included.
func (s *Stream) Bytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytes
}

// Close marks the stream closed and closes the underlying writer when
// it implements io.Closer. Closing twice is a no-op.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Memory captures lines in order for tests and the golden harness.
type Memory struct {
	mu    sync.Mutex
	lines []string
}

// NewMemory creates an empty Memory transport.
func NewMemory() *Memory {
	return &Memory{}
}

// WriteLine appends one line to the captured output.
func (m *Memory) WriteLine(line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, line)
	return nil
}

// Lines returns a copy of the captured lines.
func (m *Memory) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.lines))
	copy(result, m.lines)
	return result
}

// Len returns the number of captured lines.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lines)
}

// String joins the captured lines with "\n", with a trailing newline
// when any line was written.
func (m *Memory) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.lines) == 0 {
		return ""
	}
	return strings.Join(m.lines, "\n") + "\n"
}

// Reset discards all captured lines.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = nil
}
