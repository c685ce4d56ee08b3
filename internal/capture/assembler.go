package capture

import (
	"bytes"
	"time"
)

// assembler accumulates raw bytes for one stream and splits out completed
// lines. Bytes after the last terminator stay pending until a later chunk
// completes them or Flush is called at channel close. Pending bytes never
// contain a terminator.
type assembler struct {
	stream    Stream
	pending   []byte
	pendingTS time.Time
}

func newAssembler(stream Stream) *assembler {
	return &assembler{stream: stream}
}

// Append adds a chunk read at ts and returns the lines it completed, in
// order. Every line completed by the same chunk carries the same timestamp.
func (a *assembler) Append(chunk []byte, ts time.Time) []LineEvent {
	a.pending = append(a.pending, chunk...)

	var events []LineEvent
	for {
		i := bytes.IndexByte(a.pending, '\n')
		if i < 0 {
			break
		}
		line := append([]byte(nil), a.pending[:i]...)
		a.pending = a.pending[i+1:]
		events = append(events, LineEvent{
			Stream:    a.stream,
			Timestamp: ts,
			Text:      line,
		})
	}

	if len(a.pending) > 0 {
		a.pendingTS = ts
	}
	return events
}

// Flush emits the pending fragment as a final line, flagged NoTerminator
// and stamped with the time of the last read that contributed to it.
// Returns false when nothing is pending.
func (a *assembler) Flush() (LineEvent, bool) {
	if len(a.pending) == 0 {
		return LineEvent{}, false
	}
	ev := LineEvent{
		Stream:       a.stream,
		Timestamp:    a.pendingTS,
		Text:         a.pending,
		NoTerminator: true,
	}
	a.pending = nil
	return ev, true
}
