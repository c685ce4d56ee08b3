package capture

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Waiter blocks until at least one of the wanted channels is readable.
// Blocking here, not in the reads, is what keeps the loop responsive to
// partial lines without busy-polling an idle channel.
type Waiter interface {
	Wait(wantStdout, wantStderr bool) (stdoutReady, stderrReady bool, err error)
}

// FDWaiter waits for readiness on the two capture descriptors with
// select(2).
type FDWaiter struct {
	stdout int
	stderr int
}

func NewFDWaiter(stdout, stderr *FDSource) *FDWaiter {
	return &FDWaiter{stdout: stdout.FD(), stderr: stderr.FD()}
}

func (w *FDWaiter) Wait(wantStdout, wantStderr bool) (bool, bool, error) {
	for {
		var set unix.FdSet
		nfds := 0
		if wantStdout {
			set.Set(w.stdout)
			nfds = w.stdout + 1
		}
		if wantStderr {
			set.Set(w.stderr)
			if w.stderr >= nfds {
				nfds = w.stderr + 1
			}
		}

		_, err := unix.Select(nfds, &set, nil, nil, nil)
		if err == unix.EINTR {
			// Interrupted, usually by a forwarded signal. select may have
			// clobbered the set; rebuild it and wait again.
			continue
		}
		if err != nil {
			return false, false, fmt.Errorf("failed to wait for readiness: %w", err)
		}
		return wantStdout && set.IsSet(w.stdout), wantStderr && set.IsSet(w.stderr), nil
	}
}
