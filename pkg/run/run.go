// Package run executes external toolchain commands. Arguments are always
// passed as a vector, never through a shell; store paths can contain
// characters a shell would mangle.
package run

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/rotisserie/eris"
)

// Command runs the given tool in dir (the working directory is inherited when
// dir is empty) with stdout and stderr passed through to the parent. Any
// non-zero exit is returned as an error; the caller is expected to treat it
// as fatal.
func Command(ctx context.Context, dir string, name string, args ...string) error {
	logCommand(ctx, name, args)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return wrapExit(cmd.Run(), name)
}

// Output runs the given tool and captures its standard output. Standard error
// still goes to the parent so tool diagnostics aren't swallowed.
func Output(ctx context.Context, dir string, name string, args ...string) (string, error) {
	logCommand(ctx, name, args)

	buffer := bytes.Buffer{}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &buffer
	cmd.Stderr = os.Stderr

	err := wrapExit(cmd.Run(), name)
	if err != nil {
		return "", err
	}

	return buffer.String(), nil
}

func logCommand(ctx context.Context, name string, args []string) {
	log(ctx).Info().
		Str("tool", name).
		Bool("command", true).
		Msg(name + " " + strings.Join(args, " "))
}

func wrapExit(err error, name string) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if eris.As(err, &exitErr) {
		return eris.Errorf("%s exited with status %d", name, exitErr.ExitCode())
	}

	return eris.Wrapf(err, "Failed to run %s", name)
}
