// Package filelist handles the manifest the extraction tool writes and the
// repack tool consumes. The repack step reuses the extraction manifest with
// every path pointed at the final assembly directory instead.
package filelist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Name is the manifest file name libtiptoi produces during extraction and
// expects as input when replacing audio.
const Name = "filelist.txt"

// Rewrite reads the extraction manifest from extractedDir, substitutes the
// extraction directory prefix with finalDir on every line, and writes the
// result next to the final files. Returns the path of the new manifest.
func Rewrite(extractedDir, finalDir string) (string, error) {
	src := filepath.Join(extractedDir, Name)
	dst := filepath.Join(finalDir, Name)

	b, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("read extraction manifest: %w", err)
	}

	lines := strings.Split(string(b), "\n")
	for i, line := range lines {
		lines[i] = strings.ReplaceAll(line, extractedDir, finalDir)
	}

	if err := os.WriteFile(dst, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return "", fmt.Errorf("write final manifest: %w", err)
	}
	return dst, nil
}
