// Package preflight verifies every external collaborator before the first
// stage runs: the cartridge tool, the audio toolchain, the VAD and
// translation binaries, and the gated model assets. A run never starts
// half-provisioned.
package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"gmetrans/internal/config"
)

// PreconditionError reports a missing binary or asset. It is always raised
// before any work has been done.
type PreconditionError struct {
	Name   string
	Detail string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed: %s: %s", e.Name, e.Detail)
}

// Result reports the outcome of a single check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Run evaluates all checks for the given config. Translation-only
// requirements are skipped when skipTranslation is set, so a resume run
// does not demand the model stack.
func Run(cfg *config.Config, skipTranslation bool) []Result {
	results := []Result{
		checkBinary("libtiptoi", cfg.Tools.Libtiptoi, "required for cartridge extraction and repacking"),
		checkBinary("ffmpeg", cfg.Tools.FFmpeg, "required for re-encoding translated audio"),
		checkBinary("ffprobe", cfg.Tools.FFprobe, "required for measuring clip durations"),
		checkBinary("VAD", cfg.Tools.VAD, "required for speech detection"),
	}
	if !skipTranslation {
		results = append(results,
			checkBinary("seamless", cfg.Tools.Seamless, "required for speech-to-speech translation"),
			checkDirectory("model assets", cfg.Translation.AssetsDir),
		)
	}
	return results
}

// Err converts the first failed result into a PreconditionError, or nil
// when everything passed.
func Err(results []Result) error {
	for _, r := range results {
		if !r.Passed {
			return &PreconditionError{Name: r.Name, Detail: r.Detail}
		}
	}
	return nil
}

func checkBinary(name, command, description string) Result {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return Result{Name: name, Detail: "command not configured"}
	}
	if _, err := exec.LookPath(cmd); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found (%s)", cmd, description)}
	}
	return Result{Name: name, Passed: true, Detail: cmd}
}

func checkDirectory(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s does not exist", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s: stat: %v", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s is not a directory", path)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}
