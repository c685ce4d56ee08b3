// Package session owns the child process lifecycle: spawn with both output
// channels redirected into pseudo-terminals, signal forwarding, and exit
// status collection.
package session

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/creack/pty"
	"github.com/kballard/go-shellquote"
)

// ExitStatus describes how the child ended.
type ExitStatus struct {
	Code   int
	Signal string // non-empty when the child was killed by a signal
}

// Session is a running child whose stdout and stderr each write into their
// own pty, readable by the host through the master sides. The host's stdin
// is passed through unchanged so interactive children keep working.
type Session struct {
	cmd *exec.Cmd

	// Stdout and Stderr are the master sides of the child's output ptys.
	Stdout *os.File
	Stderr *os.File

	// StartTime is recorded just before the spawn and anchors
	// relative-time rendering.
	StartTime time.Time
}

// Start launches the command with its output channels redirected. Using
// ptys rather than plain pipes keeps the child line-buffered, so output
// arrives as it is produced instead of in large stdio flushes. When
// dumbTerm is true the child sees TERM=dumb and skips escape sequences of
// its own.
func Start(args []string, dumbTerm bool) (*Session, error) {
	stdoutMaster, stdoutSlave, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pty: %w", err)
	}
	stderrMaster, stderrSlave, err := pty.Open()
	if err != nil {
		_ = stdoutMaster.Close()
		_ = stdoutSlave.Close()
		return nil, fmt.Errorf("failed to open stderr pty: %w", err)
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdoutSlave
	cmd.Stderr = stderrSlave
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
	if dumbTerm {
		cmd.Env = append(os.Environ(), "TERM=dumb")
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		_ = stdoutMaster.Close()
		_ = stdoutSlave.Close()
		_ = stderrMaster.Close()
		_ = stderrSlave.Close()
		return nil, fmt.Errorf("failed to start %s: %w", shellquote.Join(args...), err)
	}

	// The child holds its own handles on the slave ends now. Closing ours
	// lets the masters report closure once the child exits.
	_ = stdoutSlave.Close()
	_ = stderrSlave.Close()

	return &Session{
		cmd:       cmd,
		Stdout:    stdoutMaster,
		Stderr:    stderrMaster,
		StartTime: start,
	}, nil
}

// Signal forwards a termination signal received by the host to the child.
// Delivery failures are logged, never fatal: the capture loop keeps
// draining until the channels close.
func (s *Session) Signal(sig os.Signal) {
	if err := s.cmd.Process.Signal(sig); err != nil {
		slog.Error("failed to forward signal", "signal", sig, "error", err)
	}
}

// Wait collects the child's exit status. Call it after both capture
// channels have drained. A signal death maps to the shell convention of
// 128 plus the signal number.
func (s *Session) Wait() ExitStatus {
	err := s.cmd.Wait()
	_ = s.Stdout.Close()
	_ = s.Stderr.Close()

	if err == nil {
		return ExitStatus{Code: 0}
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return ExitStatus{
				Code:   128 + int(status.Signal()),
				Signal: status.Signal().String(),
			}
		}
		return ExitStatus{Code: exitErr.ExitCode()}
	}
	return ExitStatus{Code: 1}
}
