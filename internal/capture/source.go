package capture

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// ErrWouldBlock reports that a descriptor had no data ready. The read is
// retried on the next readiness cycle; it is never treated as a failure.
var ErrWouldBlock = errors.New("read would block")

// Source is one channel's byte stream. TryRead never blocks: it returns
// ErrWouldBlock when no data is ready and io.EOF once the channel has
// closed. Any other error is fatal for this channel only.
type Source interface {
	TryRead(p []byte) (int, error)
}

// FDSource reads a file descriptor in non-blocking mode. Production use
// wraps the master side of the ptys the child writes into.
type FDSource struct {
	file *os.File
	fd   int
}

// NewFDSource switches f to non-blocking mode and wraps it. The descriptor
// must not be read through f afterwards.
func NewFDSource(f *os.File) (*FDSource, error) {
	fd := int(f.Fd())
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, fmt.Errorf("failed to set fd %d non-blocking: %w", fd, err)
	}
	return &FDSource{file: f, fd: fd}, nil
}

// FD returns the underlying descriptor for readiness polling.
func (s *FDSource) FD() int { return s.fd }

func (s *FDSource) TryRead(p []byte) (int, error) {
	n, err := unix.Read(s.fd, p)
	switch {
	case err == unix.EAGAIN:
		return 0, ErrWouldBlock
	case err == unix.EIO:
		// A pty master reports EIO once the slave side is gone. Treat it
		// like the EOF a plain pipe would deliver.
		return 0, io.EOF
	case err != nil:
		return 0, fmt.Errorf("failed to read fd %d: %w", s.fd, err)
	case n == 0:
		return 0, io.EOF
	}
	return n, nil
}

// Close closes the underlying file.
func (s *FDSource) Close() error {
	return s.file.Close()
}
