// Package libtiptoi drives the libtiptoi binary for cartridge extraction
// and repacking.
//
// The tool's exit codes are unreliable: it returns 1 on success in both
// modes. Success is therefore judged by the artifacts it leaves behind,
// never by the status code alone.
package libtiptoi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"gmetrans/internal/filelist"
)

// ToolError reports a libtiptoi invocation whose expected artifacts did
// not materialize.
type ToolError struct {
	Tool     string
	ExitCode int
	Output   string
}

func (e *ToolError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("%s failed (exit %d)", e.Tool, e.ExitCode)
	}
	return fmt.Sprintf("%s failed (exit %d): %s", e.Tool, e.ExitCode, out)
}

type Adapter struct {
	bin string
}

func New(binPath string) *Adapter {
	if binPath == "" {
		binPath = "libtiptoi"
	}
	return &Adapter{bin: binPath}
}

// Extract pulls every OGG asset out of gmePath into destDir. The
// invocation counts as successful only if OGG files and the extraction
// manifest exist afterwards; the returned paths are sorted.
func (a *Adapter) Extract(ctx context.Context, gmePath, destDir string) ([]string, error) {
	// libtiptoi treats the destination as a raw prefix, hence the slash.
	cmd := exec.CommandContext(ctx, a.bin, "x", destDir+string(os.PathSeparator), gmePath)
	out, runErr := cmd.CombinedOutput()

	paths, err := filepath.Glob(filepath.Join(destDir, "*.ogg"))
	if err != nil {
		return nil, fmt.Errorf("scan extraction dir: %w", err)
	}
	_, manifestErr := os.Stat(filepath.Join(destDir, filelist.Name))

	if len(paths) == 0 || manifestErr != nil {
		return nil, &ToolError{
			Tool:     "libtiptoi extract",
			ExitCode: exitCode(runErr),
			Output:   string(out),
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// Repack assembles a new cartridge at outPath from srcGME, replacing the
// audio listed in filelistPath. Success means a non-empty output file.
func (a *Adapter) Repack(ctx context.Context, filelistPath, outPath, srcGME string) error {
	cmd := exec.CommandContext(ctx, a.bin, "r", filelistPath, outPath, srcGME)
	out, runErr := cmd.CombinedOutput()

	info, statErr := os.Stat(outPath)
	if statErr != nil || info.Size() == 0 {
		return &ToolError{
			Tool:     "libtiptoi repack",
			ExitCode: exitCode(runErr),
			Output:   string(out),
		}
	}
	return nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
