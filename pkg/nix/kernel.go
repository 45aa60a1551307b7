// Package nix drives the nix toolchain: building the kernel from an inline
// expression and querying the store for runtime closures.
package nix

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/chloekek/neptunos/pkg/run"
)

// KernelBuild describes a single nix-build invocation for the kernel.
type KernelBuild struct {
	// ConfigPath is the (already validated) kernel configuration.
	ConfigPath string
	// OutLink is where nix-build places the result symlink.
	OutLink string
}

// BuildKernel builds the kernel through nix-build with an inline expression.
// The expression is passed as a single argument; no shell is involved.
func BuildKernel(ctx context.Context, build KernelBuild) error {
	configPath, err := filepath.Abs(build.ConfigPath)
	if err != nil {
		return eris.Wrapf(err, "Failed to resolve %s", build.ConfigPath)
	}

	expr := kernelExpr(configPath)
	return run.Command(ctx, "", "nix-build", "--out-link", build.OutLink, "-E", expr)
}

func kernelExpr(configPath string) string {
	return fmt.Sprintf(
		`with import <nixpkgs> { };
linuxManualConfig {
  inherit (linuxPackages.kernel) src version;
  inherit stdenv;
  configfile = %s;
  allowImportFromDerivation = true;
}`,
		configPath,
	)
}
