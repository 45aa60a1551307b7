package rootfs

import (
	"context"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rotisserie/eris"

	"github.com/chloekek/neptunos/pkg"
	"github.com/chloekek/neptunos/pkg/run"
)

// DefaultImageSize is the fixed size of the final image.
const DefaultImageSize = 100 * 1024 * 1024

// CreateImage formats the populated tree into an ext4 image of the given
// size. The file is created sparse; mkfs.ext4 fills it from the tree without
// needing root.
func (t Tree) CreateImage(ctx context.Context, path string, size int64) error {
	handle, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "Failed to create image file %s", path)
	}

	err = handle.Truncate(size)
	if err != nil {
		handle.Close()
		return eris.Wrapf(err, "Failed to resize %s to %s", path, humanize.IBytes(uint64(size)))
	}

	err = handle.Close()
	if err != nil {
		return eris.Wrapf(err, "Failed to close %s", path)
	}

	pkg.PrintSubtask("mkfs.ext4 " + path + " (" + humanize.IBytes(uint64(size)) + ")")
	return run.Command(ctx, "", "mkfs.ext4", "-q", "-F", "-d", t.Dir, path)
}
