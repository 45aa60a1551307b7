// Package rootfs assembles the root filesystem tree and formats it into the
// final ext4 image.
package rootfs

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
)

// skeleton is the canonical directory layout of the image. proc, sys and dev
// stay empty here; the kernel and init mount over them at boot.
var skeleton = []string{"bin", "dev", "fonts", "nix/store", "proc", "sys"}

// Tree is the staging directory the image is built from.
type Tree struct {
	Dir string
}

// Contents lists everything that goes into the tree.
type Contents struct {
	// ClosurePaths is the runtime closure, copied below nix/store in the
	// order given.
	ClosurePaths []string
	// LocalExecutables are hardlinked into bin; they live on the same
	// filesystem since we built them ourselves.
	LocalExecutables []string
	// ExternalExecutables are store paths symlinked into bin. The store
	// usually sits on another device, so hardlinks are not an option.
	ExternalExecutables []string
	// Fonts are store paths symlinked into fonts.
	Fonts []string
}

// Clean removes a tree left behind by a previous run. Store paths are copied
// with their permissions intact and the store keeps everything read-only, so
// the tree has to be made writable before it can be deleted.
func (t Tree) Clean() error {
	_, err := os.Stat(t.Dir)
	if err != nil {
		if eris.Is(err, os.ErrNotExist) {
			return nil
		}
		return eris.Wrapf(err, "Failed to check %s", t.Dir)
	}

	err = filepath.WalkDir(t.Dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			return os.Chmod(path, 0o700)
		}

		return nil
	})
	if err != nil {
		return eris.Wrapf(err, "Failed to make %s writable", t.Dir)
	}

	err = os.RemoveAll(t.Dir)
	if err != nil {
		return eris.Wrapf(err, "Failed to remove %s", t.Dir)
	}

	return nil
}

// Populate cleans any previous tree, creates the skeleton and fills it with
// the given contents. There is no transactional guarantee; a partial tree is
// removed by the next run's Clean.
func (t Tree) Populate(contents Contents) error {
	err := t.Clean()
	if err != nil {
		return err
	}

	for _, dir := range skeleton {
		err := os.MkdirAll(filepath.Join(t.Dir, dir), 0o755)
		if err != nil {
			return eris.Wrapf(err, "Failed to create %s", dir)
		}
	}

	err = t.copyClosure(contents.ClosurePaths)
	if err != nil {
		return err
	}

	for _, executable := range contents.LocalExecutables {
		dest := filepath.Join(t.Dir, "bin", filepath.Base(executable))
		err := os.Link(executable, dest)
		if err != nil {
			return eris.Wrapf(err, "Failed to hardlink %s into bin", executable)
		}
	}

	err = t.symlinkAll(contents.ExternalExecutables, "bin")
	if err != nil {
		return err
	}

	return t.symlinkAll(contents.Fonts, "fonts")
}

// copyClosure copies each closure path below the tree, mirroring its absolute
// store location. Copying (instead of hardlinking) is deliberate: the store
// lives on a different device and hardlinks would fail with EXDEV.
func (t Tree) copyClosure(paths []string) error {
	bar := newProgressBar(int64(len(paths)), "        store")

	for _, path := range paths {
		dest := filepath.Join(t.Dir, strings.TrimPrefix(path, string(filepath.Separator)))
		err := copyTree(path, dest)
		if err != nil {
			return eris.Wrapf(err, "Failed to copy %s into the rootfs", path)
		}

		bar.Add(1)
	}

	bar.Finish()
	return nil
}

func (t Tree) symlinkAll(paths []string, dir string) error {
	for _, path := range paths {
		dest := filepath.Join(t.Dir, dir, filepath.Base(path))
		err := os.Symlink(path, dest)
		if err != nil {
			return eris.Wrapf(err, "Failed to symlink %s into %s", path, dir)
		}
	}

	return nil
}

func newProgressBar(length int64, desc string) *progressbar.ProgressBar {
	if os.Getenv("CI") == "true" {
		return progressbar.NewOptions64(length, progressbar.OptionSetVisibility(false))
	}

	return progressbar.Default(length, desc)
}
