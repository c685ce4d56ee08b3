// Package render formats captured lines for the host's own stdout and
// stderr. It consumes the stream, timestamp and text of each line; it never
// reorders them.
package render

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"tsout/internal/capture"
)

// TimeMode selects how timestamps are rendered.
type TimeMode int

const (
	TimeRelative TimeMode = iota // seconds since session start
	TimeUnix                     // seconds since the Unix epoch
	TimeUTC                      // human readable UTC wall clock
)

// Config is fixed for the length of a run.
type Config struct {
	Mode       TimeMode
	Start      time.Time // origin for TimeRelative
	SpaceDelim bool      // "ts line" instead of "ts: line"
	ShowFD     bool      // prefix the originating descriptor number
	Color      bool
}

const (
	colorStdout = "\033[1;97m" // bold bright white
	colorStderr = "\033[1;93m" // bold bright yellow
	colorReset  = "\033[0m"
)

// Renderer writes captured lines to the host's stdout and stderr, keeping
// each line on the descriptor it came from. Only the prefix is colorized;
// line content passes through byte for byte, blank lines included.
type Renderer struct {
	cfg    Config
	stdout io.Writer
	stderr io.Writer
}

var _ capture.Sink = (*Renderer)(nil)

func New(cfg Config, stdout, stderr io.Writer) *Renderer {
	return &Renderer{cfg: cfg, stdout: stdout, stderr: stderr}
}

// Emit renders one line. Fragments flushed without a terminator still get a
// trailing newline so the host's output stays line-oriented.
func (r *Renderer) Emit(ev capture.LineEvent) {
	out := r.stdout
	if ev.Stream == capture.Stderr {
		out = r.stderr
	}

	buf := r.prefix(ev)
	buf = append(buf, ev.Text...)
	buf = append(buf, '\n')
	_, _ = out.Write(buf)
}

func (r *Renderer) prefix(ev capture.LineEvent) []byte {
	var buf []byte
	if r.cfg.Color {
		if ev.Stream == capture.Stderr {
			buf = append(buf, colorStderr...)
		} else {
			buf = append(buf, colorStdout...)
		}
	}

	if r.cfg.ShowFD {
		buf = strconv.AppendInt(buf, int64(ev.Stream.FD()), 10)
		if r.cfg.SpaceDelim {
			buf = append(buf, ' ')
		} else {
			buf = append(buf, '@')
		}
	}

	buf = append(buf, r.timestamp(ev.Timestamp)...)
	if r.cfg.SpaceDelim {
		buf = append(buf, ' ')
	} else {
		buf = append(buf, ':', ' ')
	}

	if r.cfg.Color {
		buf = append(buf, colorReset...)
	}
	return buf
}

func (r *Renderer) timestamp(ts time.Time) string {
	switch r.cfg.Mode {
	case TimeUTC:
		return ts.UTC().Format("2006-01-02 15:04:05.000000")
	case TimeUnix:
		return fmt.Sprintf("%.6f", float64(ts.UnixMicro())/1e6)
	default:
		return fmt.Sprintf("%.6f", ts.Sub(r.cfg.Start).Seconds())
	}
}
