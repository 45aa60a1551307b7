package pkg

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Manifest describes the inputs of an image build. It's usually read from
// build.yml in the project root; every field has a default that matches the
// standard repository layout so the file itself is optional.
type Manifest struct {
	// KernelConfig points to the kernel configuration that the validator
	// checks and the kernel expression consumes.
	KernelConfig string `yaml:"kernelConfig,omitempty"`
	// CrateDir is the cargo workspace containing the native executables.
	CrateDir string `yaml:"crateDir,omitempty"`
	// CrateBins lists the binaries cargo produces; they end up in /bin on
	// the final image.
	CrateBins []string `yaml:"crateBins,omitempty"`
	// Executables are store paths of executables that nix built for us.
	Executables []string `yaml:"executables,omitempty"`
	// Fonts are store paths of font files that nix built for us.
	Fonts []string `yaml:"fonts,omitempty"`
}

func DefaultManifest() Manifest {
	return Manifest{
		KernelConfig: "kernel.config",
		CrateDir:     "rust-crates",
		CrateBins:    []string{"init"},
	}
}

// LoadManifest reads build.yml from the given path. A missing file is not an
// error; the defaults are returned instead.
func LoadManifest(path string) (Manifest, error) {
	manifest := DefaultManifest()

	data, err := os.ReadFile(path)
	if err != nil {
		if eris.Is(err, os.ErrNotExist) {
			return manifest, nil
		}
		return manifest, eris.Wrapf(err, "Could not open file %s.", path)
	}

	err = yaml.Unmarshal(data, &manifest)
	if err != nil {
		return manifest, eris.Wrapf(err, "Failed to parse %s.", path)
	}

	if manifest.KernelConfig == "" {
		manifest.KernelConfig = "kernel.config"
	}
	if manifest.CrateDir == "" {
		manifest.CrateDir = "rust-crates"
	}

	return manifest, nil
}

// ApplyEnviron overrides the manifest's lists with the environment interface
// the original build script exposed. The lookup parameter is os.LookupEnv in
// production; tests pass a map.
func (m *Manifest) ApplyEnviron(lookup func(string) (string, bool)) {
	if value, ok := lookup("NP_BUILD_EXECUTABLES"); ok {
		m.Executables = strings.Fields(value)
	}

	if value, ok := lookup("NP_BUILD_FONTS"); ok {
		m.Fonts = strings.Fields(value)
	}
}

// SkipRootfs reports whether the expensive rootfs assembly phase should be
// skipped. Presence-tested, the value doesn't matter.
func SkipRootfs(lookup func(string) (string, bool)) bool {
	_, ok := lookup("NP_BUILD_SKIP_ROOTFS")
	return ok
}
