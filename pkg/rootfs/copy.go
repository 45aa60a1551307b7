package rootfs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// copyTree copies src (a file, symlink or directory tree) to dest, preserving
// file modes and symlink targets. Symlinks are recreated, not followed; store
// paths routinely link to each other and following them would duplicate half
// the store.
func copyTree(src, dest string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return eris.Wrapf(err, "Failed to stat %s", src)
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return eris.Wrapf(err, "Failed to read symlink %s", src)
		}

		err = os.Symlink(target, dest)
		if err != nil {
			return eris.Wrapf(err, "Failed to create symlink %s", dest)
		}

	case info.IsDir():
		// created writable first; store directories are read-only and we
		// couldn't place their children otherwise
		err := os.MkdirAll(dest, 0o755)
		if err != nil {
			return eris.Wrapf(err, "Failed to create directory %s", dest)
		}

		entries, err := os.ReadDir(src)
		if err != nil {
			return eris.Wrapf(err, "Failed to list %s", src)
		}

		for _, entry := range entries {
			err := copyTree(filepath.Join(src, entry.Name()), filepath.Join(dest, entry.Name()))
			if err != nil {
				return err
			}
		}

		err = os.Chmod(dest, info.Mode().Perm())
		if err != nil {
			return eris.Wrapf(err, "Failed to set permissions on %s", dest)
		}

	default:
		err := copyFile(src, dest, info.Mode().Perm())
		if err != nil {
			return err
		}
	}

	return nil
}

func copyFile(src, dest string, perm os.FileMode) error {
	err := os.MkdirAll(filepath.Dir(dest), 0o755)
	if err != nil {
		return eris.Wrapf(err, "Failed to create directory %s", filepath.Dir(dest))
	}

	in, err := os.Open(src)
	if err != nil {
		return eris.Wrapf(err, "Failed to open %s", src)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return eris.Wrapf(err, "Failed to create %s", dest)
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	if err != nil {
		return eris.Wrapf(err, "Failed to copy %s", src)
	}

	err = out.Close()
	if err != nil {
		return eris.Wrapf(err, "Failed to finish writing %s", dest)
	}

	return os.Chmod(dest, perm)
}
