package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tsout/internal/capture"
	"tsout/internal/render"
	"tsout/internal/session"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	unixTime   bool
	utcTime    bool
	showFD     bool
	noColor    bool
	spaceDelim bool
)

var rootCmd = &cobra.Command{
	Use:   "tsout [flags] command [args...]",
	Short: "Timestamp a command's stdout and stderr with microsecond precision",
	Long: `tsout runs a command and re-emits every line of its stdout and stderr
prefixed with a high-resolution timestamp, in the order the data arrived.
Both channels are captured separately through pseudo-terminals, so the
child stays line-buffered and stderr is distinguishable from stdout.

Lines from stdout are printed white and go to tsout's stdout; lines from
stderr are printed yellow and go to tsout's stderr. The child's exit code
is propagated unchanged (128+signal if it was killed by a signal).

Examples:
  # Time since start (default)
  tsout make test
  0.123456: output line

  # Unix timestamps, descriptor numbers, space-delimited
  tsout -T -v -s ./deploy.sh
  1 1733768011.123456 output line
  2 1733768011.123789 error line`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := run(args)
		if err != nil {
			return err
		}
		os.Exit(code)
		return nil
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&unixTime, "unix", "T", false, "show Unix timestamps instead of time since start")
	rootCmd.Flags().BoolVarP(&utcTime, "utc", "u", false, "show human readable UTC timestamps")
	rootCmd.Flags().BoolVarP(&showFD, "show-fd", "v", false, "show file descriptor numbers")
	rootCmd.Flags().BoolVarP(&noColor, "no-color", "C", false, "disable colored output")
	rootCmd.Flags().BoolVarP(&spaceDelim, "space", "s", false, "use space as delimiter instead of colon")

	// Everything after the first non-flag argument belongs to the child.
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.MarkFlagsMutuallyExclusive("unix", "utc")
}

func run(args []string) (int, error) {
	color := !noColor && term.IsTerminal(int(os.Stdout.Fd()))

	// The child may change stdin's terminal modes; put them back afterwards.
	stdinFD := int(os.Stdin.Fd())
	if term.IsTerminal(stdinFD) {
		if state, err := term.GetState(stdinFD); err == nil {
			defer func() { _ = term.Restore(stdinFD, state) }()
		}
	}

	// TERM=dumb follows the explicit flag only; auto-detected non-tty
	// output disables our own colors but leaves the child's environment
	// alone.
	sess, err := session.Start(args, noColor)
	if err != nil {
		return 0, err
	}

	// Relay termination signals to the child. The capture loop then drains
	// to closure on both channels, so pending fragments are still flushed.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		for sig := range sigCh {
			sess.Signal(sig)
		}
	}()

	stdoutSrc, err := capture.NewFDSource(sess.Stdout)
	if err != nil {
		return 0, err
	}
	stderrSrc, err := capture.NewFDSource(sess.Stderr)
	if err != nil {
		return 0, err
	}

	mode := render.TimeRelative
	switch {
	case unixTime:
		mode = render.TimeUnix
	case utcTime:
		mode = render.TimeUTC
	}
	renderer := render.New(render.Config{
		Mode:       mode,
		Start:      sess.StartTime,
		SpaceDelim: spaceDelim,
		ShowFD:     showFD,
		Color:      color,
	}, os.Stdout, os.Stderr)

	waiter := capture.NewFDWaiter(stdoutSrc, stderrSrc)
	mux := capture.NewMultiplexer(stdoutSrc, stderrSrc, waiter, renderer, nil)
	if err := mux.Run(); err != nil {
		// Don't leave the child running if the loop died out from under
		// it; best effort, then report the loop failure.
		sess.Signal(syscall.SIGTERM)
		sess.Wait()
		return 0, err
	}

	return sess.Wait().Code, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
