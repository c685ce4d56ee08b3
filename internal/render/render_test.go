package render

import (
	"bytes"
	"testing"
	"time"

	"tsout/internal/capture"

	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 12, 9, 14, 23, 30, 0, time.UTC)

func event(stream capture.Stream, offset time.Duration, text string) capture.LineEvent {
	return capture.LineEvent{
		Stream:    stream,
		Timestamp: start.Add(offset),
		Text:      []byte(text),
	}
}

func newRenderer(cfg Config) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	cfg.Start = start
	return New(cfg, &stdout, &stderr), &stdout, &stderr
}

func TestRelativeTimestampsWithColonDelimiter(t *testing.T) {
	r, stdout, _ := newRenderer(Config{Mode: TimeRelative})

	r.Emit(event(capture.Stdout, 1500*time.Millisecond, "hello"))
	require.Equal(t, "1.500000: hello\n", stdout.String())
}

func TestUnixTimestamps(t *testing.T) {
	r, stdout, _ := newRenderer(Config{Mode: TimeUnix})

	ev := capture.LineEvent{
		Stream:    capture.Stdout,
		Timestamp: time.Unix(1733768011, 123456000),
		Text:      []byte("line"),
	}
	r.Emit(ev)
	require.Equal(t, "1733768011.123456: line\n", stdout.String())
}

func TestUTCTimestamps(t *testing.T) {
	r, stdout, _ := newRenderer(Config{Mode: TimeUTC})

	r.Emit(event(capture.Stdout, 1123456*time.Microsecond, "line"))
	require.Equal(t, "2024-12-09 14:23:31.123456: line\n", stdout.String())
}

func TestStderrLinesGoToStderr(t *testing.T) {
	r, stdout, stderr := newRenderer(Config{Mode: TimeRelative})

	r.Emit(event(capture.Stderr, time.Second, "oops"))
	require.Empty(t, stdout.String())
	require.Equal(t, "1.000000: oops\n", stderr.String())
}

func TestDescriptorNumbersWithColonDelimiter(t *testing.T) {
	r, stdout, stderr := newRenderer(Config{Mode: TimeRelative, ShowFD: true})

	r.Emit(event(capture.Stdout, time.Second, "out"))
	r.Emit(event(capture.Stderr, 2*time.Second, "err"))
	require.Equal(t, "1@1.000000: out\n", stdout.String())
	require.Equal(t, "2@2.000000: err\n", stderr.String())
}

func TestDescriptorNumbersWithSpaceDelimiter(t *testing.T) {
	r, stdout, _ := newRenderer(Config{Mode: TimeRelative, ShowFD: true, SpaceDelim: true})

	r.Emit(event(capture.Stdout, time.Second, "out"))
	require.Equal(t, "1 1.000000 out\n", stdout.String())
}

func TestColorWrapsOnlyThePrefix(t *testing.T) {
	r, stdout, stderr := newRenderer(Config{Mode: TimeRelative, Color: true})

	r.Emit(event(capture.Stdout, time.Second, "white"))
	r.Emit(event(capture.Stderr, time.Second, "yellow"))
	require.Equal(t, "\x1b[1;97m1.000000: \x1b[0mwhite\n", stdout.String())
	require.Equal(t, "\x1b[1;93m1.000000: \x1b[0myellow\n", stderr.String())
}

func TestBlankLinesAndWhitespacePreserved(t *testing.T) {
	r, stdout, _ := newRenderer(Config{Mode: TimeRelative})

	r.Emit(event(capture.Stdout, time.Second, ""))
	r.Emit(event(capture.Stdout, time.Second, "  spaced \t"))
	require.Equal(t, "1.000000: \n1.000000:   spaced \t\n", stdout.String())
}

func TestNoTerminatorFragmentGetsNewline(t *testing.T) {
	r, stdout, _ := newRenderer(Config{Mode: TimeRelative})

	ev := event(capture.Stdout, time.Second, "tail")
	ev.NoTerminator = true
	r.Emit(ev)
	require.Equal(t, "1.000000: tail\n", stdout.String())
}
