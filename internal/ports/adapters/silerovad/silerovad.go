// Package silerovad runs the silero VAD CLI to decide whether a clip
// contains human speech. The detector is imperfect by design: a missed
// whisper or a flagged jingle is a known limitation, not a bug.
package silerovad

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"sync"
)

type Adapter struct {
	bin       string
	threshold float64

	once     sync.Once
	resolved string
	initErr  error
}

func New(binPath string, threshold float64) *Adapter {
	return &Adapter{bin: binPath, threshold: threshold}
}

type result struct {
	Segments []segment `json:"segments"`
}

type segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// HasSpeech reports whether at least one speech segment clears the
// confidence threshold. Safe for concurrent use; the binary lookup is
// resolved once and shared across workers.
func (a *Adapter) HasSpeech(ctx context.Context, path string) (bool, error) {
	bin, err := a.resolve()
	if err != nil {
		return false, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin,
		"--input", path,
		"--threshold", strconv.FormatFloat(a.threshold, 'f', 2, 64),
		"--output-json",
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return false, fmt.Errorf("silero vad on %s: %w\n%s", path, err, stderr.String())
	}

	var res result
	if err := json.Unmarshal(stdout.Bytes(), &res); err != nil {
		return false, fmt.Errorf("parse vad output for %s: %w", path, err)
	}
	return len(res.Segments) > 0, nil
}

func (a *Adapter) resolve() (string, error) {
	a.once.Do(func() {
		a.resolved, a.initErr = exec.LookPath(a.bin)
		if a.initErr != nil {
			a.initErr = fmt.Errorf("vad binary: %w", a.initErr)
		}
	})
	return a.resolved, a.initErr
}
