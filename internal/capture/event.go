package capture

import "time"

// Stream identifies which output channel of the child a line came from.
type Stream string

const (
	Stdout Stream = "stdout"
	Stderr Stream = "stderr"
)

// FD returns the conventional descriptor number for the stream.
func (s Stream) FD() int {
	if s == Stderr {
		return 2
	}
	return 1
}

// LineEvent is one fully assembled line from the child. Text has the
// terminator stripped but is otherwise untouched; blank lines arrive as an
// empty Text. Timestamp is the instant the read that completed the line
// returned. NoTerminator marks a fragment that was flushed at channel close
// without ever seeing a terminator.
type LineEvent struct {
	Stream       Stream
	Timestamp    time.Time
	Text         []byte
	NoTerminator bool
}

// Sink consumes LineEvents in the order the Multiplexer produces them.
type Sink interface {
	Emit(LineEvent)
}
