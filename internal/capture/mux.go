package capture

import (
	"errors"
	"io"
	"log/slog"
)

const readBufferSize = 4096

// channel pairs one stream's source with its line assembler. A channel's
// buffer is only touched while that channel is being serviced, so no
// locking is needed anywhere in the loop.
type channel struct {
	src  Source
	asm  *assembler
	open bool
}

// Multiplexer drives both capture channels from a single loop and emits
// LineEvents to its sink in arrival order. See the package documentation
// for the ordering rules.
type Multiplexer struct {
	clock  Clock
	waiter Waiter
	sink   Sink
	stdout channel
	stderr channel
	buf    []byte
}

// NewMultiplexer wires the two sources to a sink. A nil clock means
// SystemClock.
func NewMultiplexer(stdout, stderr Source, waiter Waiter, sink Sink, clock Clock) *Multiplexer {
	if clock == nil {
		clock = SystemClock
	}
	return &Multiplexer{
		clock:  clock,
		waiter: waiter,
		sink:   sink,
		stdout: channel{src: stdout, asm: newAssembler(Stdout), open: true},
		stderr: channel{src: stderr, asm: newAssembler(Stderr), open: true},
		buf:    make([]byte, readBufferSize),
	}
}

// Run processes both channels until each has reported closure. When both
// channels become ready in the same cycle, stdout is always serviced before
// stderr.
func (m *Multiplexer) Run() error {
	for m.stdout.open || m.stderr.open {
		stdoutReady, stderrReady, err := m.waiter.Wait(m.stdout.open, m.stderr.open)
		if err != nil {
			// The wait itself failed. Salvage whatever is buffered,
			// stdout first, before reporting it.
			m.close(&m.stdout)
			m.close(&m.stderr)
			return err
		}
		if stdoutReady && m.stdout.open {
			m.service(&m.stdout)
		}
		if stderrReady && m.stderr.open {
			m.service(&m.stderr)
		}
	}
	return nil
}

// service performs one non-blocking read on a ready channel and emits the
// lines it completed. The timestamp is taken when the read returns, and all
// lines completed by this read share it.
func (m *Multiplexer) service(ch *channel) {
	n, err := ch.src.TryRead(m.buf)
	ts := m.clock.Now()
	switch {
	case errors.Is(err, ErrWouldBlock):
		return
	case errors.Is(err, io.EOF):
		m.close(ch)
		return
	case err != nil:
		// Channel-local failure. The other stream keeps going.
		slog.Error("capture read failed", "stream", ch.asm.stream, "error", err)
		m.close(ch)
		return
	}

	for _, ev := range ch.asm.Append(m.buf[:n], ts) {
		m.sink.Emit(ev)
	}
}

// close marks the channel finished and flushes its pending fragment, if
// any, so nothing is dropped silently.
func (m *Multiplexer) close(ch *channel) {
	ch.open = false
	if ev, ok := ch.asm.Flush(); ok {
		m.sink.Emit(ev)
	}
}
