// Package output owns everything diffnorris writes: the buffered
// message queue that diagnostics and diff text flow through, and the
// formatters for each output style.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Queue buffers the normal output stream. Messages appended during
// comparisons are held in the buffer and drained once at the end of the
// run; a non-identical verdict flushes early so a human watching the
// stream sees differences immediately.
type Queue struct {
	out  *bufio.Writer
	errw io.Writer

	// program prefixes error diagnostics, like perror would
	program string

	// writeErr remembers the first stdout write failure; it is checked
	// at drain time so a full disk is not silently ignored.
	writeErr error
}

// NewQueue creates a queue writing messages to stdout and diagnostics
// to stderr.
func NewQueue(stdout, stderr io.Writer, program string) *Queue {
	return &Queue{
		out:     bufio.NewWriter(stdout),
		errw:    stderr,
		program: program,
	}
}

// Message appends a formatted message to the queue
func (q *Queue) Message(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(q.out, format, args...); err != nil && q.writeErr == nil {
		q.writeErr = err
	}
}

// Write lets formatters stream diff text through the queue
func (q *Queue) Write(p []byte) (int, error) {
	n, err := q.out.Write(p)
	if err != nil && q.writeErr == nil {
		q.writeErr = err
	}
	return n, err
}

// ReportError attributes an operating system failure to a path name on
// stderr. The raw error number never reaches the user; the system's
// message text does.
func (q *Queue) ReportError(name string, err error) {
	fmt.Fprintf(q.errw, "%s: %s: %s\n", q.program, name, plainMessage(err))
}

// Warn writes a non-fatal diagnostic to stderr
func (q *Queue) Warn(format string, args ...interface{}) {
	fmt.Fprintf(q.errw, "%s: %s\n", q.program, fmt.Sprintf(format, args...))
}

// Flush forces buffered messages out immediately
func (q *Queue) Flush() error {
	if err := q.out.Flush(); err != nil && q.writeErr == nil {
		q.writeErr = err
	}
	return q.writeErr
}

// Drain flushes whatever is still queued and reports the first write
// failure of the whole run.
func (q *Queue) Drain() error {
	if err := q.out.Flush(); err != nil && q.writeErr == nil {
		q.writeErr = err
	}
	if q.writeErr != nil {
		return fmt.Errorf("standard output: %w", q.writeErr)
	}
	return nil
}

// plainMessage strips the path out of wrapped path errors so the
// message is not attributed twice.
func plainMessage(err error) string {
	var perr *fs.PathError
	if errors.As(err, &perr) {
		return perr.Err.Error()
	}
	var lerr *os.LinkError
	if errors.As(err, &lerr) {
		return lerr.Err.Error()
	}
	return err.Error()
}
