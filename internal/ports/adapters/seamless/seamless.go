// Package seamless wraps the Seamless Expressive inference CLI. One model
// instance, one device: clips are translated strictly one after another,
// and a per-clip failure aborts the whole batch.
package seamless

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"gmetrans/internal/types"
)

type Adapter struct {
	bin       string
	assetsDir string
	lang      string
	forceCPU  bool

	once     sync.Once
	resolved string
	initErr  error
}

func New(binPath, assetsDir, targetLanguage string, forceCPU bool) *Adapter {
	return &Adapter{
		bin:       binPath,
		assetsDir: assetsDir,
		lang:      targetLanguage,
		forceCPU:  forceCPU,
	}
}

// Translate runs the model over every input clip, writing
// "<name>.mp3" and "<name>.txt" into destDir so a later run can resume
// without re-translating. Results keep the input order.
func (a *Adapter) Translate(ctx context.Context, paths []string, destDir string) ([]types.TranslatedClip, error) {
	bin, err := a.init()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, err
	}

	out := make([]types.TranslatedClip, 0, len(paths))
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		audioPath := filepath.Join(destDir, name+".mp3")
		textPath := filepath.Join(destDir, name+".txt")

		args := []string{
			"--gated-assets", a.assetsDir,
			"--tgt-lang", a.lang,
			"--input", p,
			"--output", audioPath,
			"--transcript", textPath,
		}
		if a.forceCPU {
			args = append(args, "--cpu")
		}

		cmd := exec.CommandContext(ctx, bin, args...)
		b, err := cmd.CombinedOutput()
		if err != nil {
			return nil, fmt.Errorf("translate %s: %w\n%s", name, err, string(b))
		}

		text, err := os.ReadFile(textPath)
		if err != nil {
			return nil, fmt.Errorf("translate %s: model produced no transcript: %w", name, err)
		}

		out = append(out, types.TranslatedClip{
			Name:       name,
			AudioPath:  audioPath,
			Transcript: strings.TrimSpace(string(text)),
		})
	}
	return out, nil
}

// init resolves the binary and checks the gated assets exactly once, no
// matter how many batches run in this process.
func (a *Adapter) init() (string, error) {
	a.once.Do(func() {
		if _, err := os.Stat(a.assetsDir); err != nil {
			a.initErr = fmt.Errorf("seamless assets dir %s: %w", a.assetsDir, err)
			return
		}
		a.resolved, a.initErr = exec.LookPath(a.bin)
		if a.initErr != nil {
			a.initErr = fmt.Errorf("seamless binary: %w", a.initErr)
		}
	})
	return a.resolved, a.initErr
}
