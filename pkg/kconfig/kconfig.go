// Package kconfig validates the kernel configuration before it's handed to
// the kernel expression. Catching a typo here is much cheaper than waiting
// for a kernel build to fail on it.
package kconfig

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

var lineMatcher = regexp.MustCompile(`^[A-Z0-9_]+=[ynm]$`)

// ValidateFile checks every line of the given kernel config file. Validation
// stops at the first malformed line; nothing after it is inspected.
func ValidateFile(path string) error {
	handle, err := os.Open(path)
	if err != nil {
		return eris.Wrapf(err, "Could not open file %s.", path)
	}
	defer handle.Close()

	return Validate(handle, path)
}

// Validate checks the kernel config read from r. Blank lines and comments
// (leading #) are allowed; every other line must set exactly one option to
// y, n or m.
func Validate(r io.Reader, name string) error {
	scanner := bufio.NewScanner(r)

	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !lineMatcher.MatchString(line) {
			return eris.Errorf("%s:%d: invalid config line %q", name, lineno, line)
		}
	}

	err := scanner.Err()
	if err != nil {
		return eris.Wrapf(err, "Failed to read %s", name)
	}

	return nil
}
