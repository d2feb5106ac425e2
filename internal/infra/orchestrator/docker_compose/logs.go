package docker_compose

import (
	"bytes"
	"strings"
)

// maxLineLength caps a single buffered line; longer output is split.
const maxLineLength = 64 * 1024

// lineWriter splits process output into lines and hands each one to fn.
// A trailing partial line is delivered by Flush.
type lineWriter struct {
	buf []byte
	fn  func(line string)
}

func newLineWriter(fn func(line string)) *lineWriter {
	return &lineWriter{fn: fn}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.deliver(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	for len(w.buf) >= maxLineLength {
		w.deliver(w.buf[:maxLineLength])
		w.buf = w.buf[maxLineLength:]
	}
	return len(p), nil
}

// Flush delivers any buffered partial line.
func (w *lineWriter) Flush() {
	if len(w.buf) > 0 {
		w.deliver(w.buf)
		w.buf = nil
	}
}

func (w *lineWriter) deliver(line []byte) {
	s := strings.TrimRight(string(line), "\r")
	if s == "" {
		return
	}
	w.fn(s)
}
