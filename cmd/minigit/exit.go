package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/odvcencio/minigit/pkg/catfile"
	"github.com/odvcencio/minigit/pkg/object"
)

const (
	exitOK = iota
	exitFailure
	exitUsage
	exitNotFound
	exitAmbiguous
	exitTypeMismatch
	exitMalformed
)

// usageError marks a bad invocation: wrong arguments, flags or input syntax.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// usageArgs wraps a cobra argument validator so its failures exit as usage
// errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// commandError marks an error returned by a command body. Errors cobra
// raises before the body runs (unknown commands, flag group violations) are
// left unmarked and count as usage errors.
type commandError struct {
	err error
}

func (e *commandError) Error() string { return e.err.Error() }
func (e *commandError) Unwrap() error { return e.err }

func markCommandErrors(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		if runE := sub.RunE; runE != nil {
			sub.RunE = func(c *cobra.Command, args []string) error {
				if err := runE(c, args); err != nil {
					return &commandError{err: err}
				}
				return nil
			}
		}
		markCommandErrors(sub)
	}
}

func exitCode(err error) int {
	var cmdErr *commandError
	var usage *usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &usage), errors.Is(err, catfile.ErrInvalidView):
		return exitUsage
	case errors.Is(err, object.ErrObjectNotFound):
		return exitNotFound
	case errors.Is(err, object.ErrAmbiguousPrefix):
		return exitAmbiguous
	case errors.Is(err, object.ErrTypeMismatch):
		return exitTypeMismatch
	case errors.Is(err, object.ErrMalformedObject):
		return exitMalformed
	case errors.As(err, &cmdErr):
		return exitFailure
	default:
		return exitUsage
	}
}

// printFatal writes err as a single "fatal:" line, in red when w is a
// terminal.
func printFatal(w io.Writer, err error) {
	fatal := color.New(color.FgRed)
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		fatal.DisableColor()
	} else {
		fatal.EnableColor()
	}
	fatal.Fprintf(w, "fatal: %s\n", err)
}
