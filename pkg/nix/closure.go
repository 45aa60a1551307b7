package nix

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/chloekek/neptunos/pkg/run"
)

// DefaultStoreDir is where nix keeps its store on a standard installation.
const DefaultStoreDir = "/nix/store"

// StoreRefPattern returns the regular expression matching a store path under
// the given store directory: 32 lowercase base32 characters, a dash and the
// package name.
func StoreRefPattern(storeDir string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(storeDir) + `/[0-9a-z]{32}-[0-9A-Za-z+._?=-]+`)
}

// ScanReferences extracts store-path references embedded in the given
// binaries by matching their raw bytes against the store path pattern.
// References whose path no longer exists are dropped: the store may have
// garbage-collected them, and nix-store errors out on paths it doesn't know.
// The result keeps first-seen order and contains no duplicates.
func ScanReferences(storeDir string, binaries []string) ([]string, error) {
	pattern := StoreRefPattern(storeDir)

	refs := []string{}
	seen := map[string]bool{}
	for _, binary := range binaries {
		data, err := os.ReadFile(binary)
		if err != nil {
			return nil, eris.Wrapf(err, "Failed to read %s", binary)
		}

		for _, match := range pattern.FindAllString(string(data), -1) {
			if seen[match] {
				continue
			}
			seen[match] = true

			_, err := os.Stat(match)
			if err != nil {
				if eris.Is(err, os.ErrNotExist) {
					continue
				}
				return nil, eris.Wrapf(err, "Failed to check store path %s", match)
			}

			refs = append(refs, match)
		}
	}

	return refs, nil
}

// Closure queries the store for the transitive runtime closure of the given
// root paths. The order and deduplication of the result are whatever
// nix-store reports; callers must not rely on any particular ordering.
func Closure(ctx context.Context, roots []string) ([]string, error) {
	if len(roots) == 0 {
		return nil, nil
	}

	args := append([]string{"--query", "--requisites"}, roots...)
	output, err := run.Output(ctx, "", "nix-store", args...)
	if err != nil {
		return nil, eris.Wrap(err, "Failed to query the runtime closure")
	}

	paths := []string{}
	for _, line := range strings.Split(output, "\n") {
		if line != "" {
			paths = append(paths, line)
		}
	}

	return paths, nil
}
