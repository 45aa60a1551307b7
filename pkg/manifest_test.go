package pkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		value, ok := env[name]
		return value, ok
	}
}

func TestLoadManifestMissingFileUsesDefaults(t *testing.T) {
	manifest, err := LoadManifest(filepath.Join(t.TempDir(), "build.yml"))
	require.NoError(t, err)

	assert.Equal(t, "kernel.config", manifest.KernelConfig)
	assert.Equal(t, "rust-crates", manifest.CrateDir)
	assert.Equal(t, []string{"init"}, manifest.CrateBins)
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.yml")
	content := `
kernelConfig: configs/vm.config
crateBins:
  - init
  - npsh
executables:
  - /nix/store/aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa-hello/bin/hello
fonts:
  - /nix/store/bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb-font/font.ttf
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	manifest, err := LoadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, "configs/vm.config", manifest.KernelConfig)
	assert.Equal(t, "rust-crates", manifest.CrateDir)
	assert.Equal(t, []string{"init", "npsh"}, manifest.CrateBins)
	assert.Len(t, manifest.Executables, 1)
	assert.Len(t, manifest.Fonts, 1)
}

func TestLoadManifestRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.yml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

	_, err := LoadManifest(path)
	assert.Error(t, err)
}

func TestApplyEnvironOverridesLists(t *testing.T) {
	manifest := DefaultManifest()
	manifest.Executables = []string{"/nix/store/x-from-manifest"}

	manifest.ApplyEnviron(lookupFrom(map[string]string{
		"NP_BUILD_EXECUTABLES": "/nix/store/a-hello/bin/hello /nix/store/b-world/bin/world",
		"NP_BUILD_FONTS":       "/nix/store/c-font/font.ttf",
	}))

	assert.Equal(t, []string{"/nix/store/a-hello/bin/hello", "/nix/store/b-world/bin/world"}, manifest.Executables)
	assert.Equal(t, []string{"/nix/store/c-font/font.ttf"}, manifest.Fonts)
}

func TestApplyEnvironLeavesManifestValuesAlone(t *testing.T) {
	manifest := DefaultManifest()
	manifest.Executables = []string{"/nix/store/x-from-manifest"}

	manifest.ApplyEnviron(lookupFrom(nil))

	assert.Equal(t, []string{"/nix/store/x-from-manifest"}, manifest.Executables)
}

func TestSkipRootfs(t *testing.T) {
	assert.False(t, SkipRootfs(lookupFrom(nil)))
	// presence-tested, the value is irrelevant
	assert.True(t, SkipRootfs(lookupFrom(map[string]string{"NP_BUILD_SKIP_ROOTFS": ""})))
	assert.True(t, SkipRootfs(lookupFrom(map[string]string{"NP_BUILD_SKIP_ROOTFS": "1"})))
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "build.yml"), []byte("{}"), 0o644))

	nested := filepath.Join(root, "rust-crates", "init")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := FindProjectRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

func TestFindProjectRootWithoutManifest(t *testing.T) {
	dir := t.TempDir()

	found, err := FindProjectRoot(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, found)
}
