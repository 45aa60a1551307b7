// Package cargo builds the native executables that end up in /bin on the
// final image.
package cargo

import (
	"context"
	"path/filepath"

	"github.com/chloekek/neptunos/pkg/run"
)

// Workspace describes the cargo workspace holding the image's native crates.
type Workspace struct {
	// Dir is the directory containing the workspace's Cargo.toml.
	Dir string
	// TargetDir receives cargo's build output, kept outside the workspace
	// so that all build artifacts live under one output directory.
	TargetDir string
}

// Build compiles, tests and documents the workspace in release mode. Output
// of the individual cargo invocations is passed straight through; only the
// exit status matters.
func (w Workspace) Build(ctx context.Context) error {
	for _, subcommand := range []string{"build", "test", "doc"} {
		err := run.Command(ctx, w.Dir, "cargo", subcommand, "--release", "--target-dir", w.TargetDir)
		if err != nil {
			return err
		}
	}

	return nil
}

// Executables returns the paths of the given release binaries inside the
// target directory.
func (w Workspace) Executables(bins []string) []string {
	paths := make([]string, len(bins))
	for idx, bin := range bins {
		paths[idx] = filepath.Join(w.TargetDir, "release", bin)
	}

	return paths
}

// Strip removes symbols and debug info from the given executables. Debug
// sections embed toolchain store paths which would otherwise pull the entire
// Rust toolchain into the image's closure.
func Strip(ctx context.Context, executables []string) error {
	if len(executables) == 0 {
		return nil
	}

	return run.Command(ctx, "", "strip", executables...)
}
