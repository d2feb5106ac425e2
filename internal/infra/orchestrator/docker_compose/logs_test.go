package docker_compose

import (
	"reflect"
	"strings"
	"testing"
)

func TestLineWriter(t *testing.T) {
	var lines []string
	w := newLineWriter(func(line string) { lines = append(lines, line) })

	for _, chunk := range []string{"Pulling ser", "ver ... done\r\n", "\n", "Creating db\nStarting", " web"} {
		if _, err := w.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write returned error: %v", err)
		}
	}
	w.Flush()

	want := []string{"Pulling server ... done", "Creating db", "Starting web"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %q, want %q", lines, want)
	}
}

func TestLineWriterSplitsLongLines(t *testing.T) {
	var lines []string
	w := newLineWriter(func(line string) { lines = append(lines, line) })

	_, _ = w.Write([]byte(strings.Repeat("x", maxLineLength+10)))
	w.Flush()

	if len(lines) != 2 || len(lines[0]) != maxLineLength || len(lines[1]) != 10 {
		t.Errorf("unexpected split: %d lines", len(lines))
	}
}
