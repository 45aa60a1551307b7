package nix

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHash = "0123456789abcdfghijklmnpqrsvwxyz"

func writeStoreEntry(t *testing.T, storeDir, name string) string {
	t.Helper()

	path := filepath.Join(storeDir, testHash[:31]+string(name[0])+"-"+name)
	require.NoError(t, os.MkdirAll(path, 0o755))
	return path
}

func TestStoreRefPattern(t *testing.T) {
	pattern := StoreRefPattern("/nix/store")

	assert.Equal(t,
		"/nix/store/"+testHash+"-hello-2.12",
		pattern.FindString("ref: /nix/store/"+testHash+"-hello-2.12\x00junk"))

	// hash too short
	assert.Empty(t, pattern.FindString("/nix/store/abc-hello"))
	// uppercase hash characters aren't produced by nix
	assert.Empty(t, pattern.FindString("/nix/store/"+strings.ToUpper(testHash)+"-hello"))
}

func TestScanReferencesFindsEmbeddedPaths(t *testing.T) {
	storeDir := t.TempDir()
	glibc := writeStoreEntry(t, storeDir, "glibc-2.38")
	ncurses := writeStoreEntry(t, storeDir, "ncurses-6.4")

	binary := filepath.Join(t.TempDir(), "prog")
	blob := "\x7fELF\x02\x01\x01\x00" + glibc + "/lib/ld-linux.so\x00garbage\x00" + ncurses + "\x00" + glibc + "\x00"
	require.NoError(t, os.WriteFile(binary, []byte(blob), 0o755))

	refs, err := ScanReferences(storeDir, []string{binary})
	require.NoError(t, err)
	assert.Equal(t, []string{glibc, ncurses}, refs)
}

func TestScanReferencesDropsCollectedPaths(t *testing.T) {
	storeDir := t.TempDir()
	alive := writeStoreEntry(t, storeDir, "zlib-1.3")
	collected := filepath.Join(storeDir, testHash+"-gone-1.0")

	binary := filepath.Join(t.TempDir(), "prog")
	blob := collected + "\x00" + alive + "\x00"
	require.NoError(t, os.WriteFile(binary, []byte(blob), 0o755))

	refs, err := ScanReferences(storeDir, []string{binary})
	require.NoError(t, err)
	assert.Equal(t, []string{alive}, refs)
}

func TestScanReferencesMissingBinary(t *testing.T) {
	_, err := ScanReferences(t.TempDir(), []string{"does/not/exist"})
	assert.Error(t, err)
}
