//go:build integration

package itest

import (
	"context"
	"encoding/csv"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestE2E_FakeToolchain(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	fakeBin := installFakeToolchain(t)
	cfg := writeRunConfig(t)

	tmp := t.TempDir()
	gme := filepath.Join(tmp, "sample.gme")
	if err := os.WriteFile(gme, []byte("gme"), 0o644); err != nil {
		t.Fatalf("write gme fixture: %v", err)
	}
	workDir := filepath.Join(tmp, "work")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cmd := exec.CommandContext(ctx, "go", "run", "./cmd/gmetrans", gme, workDir, "--config", cfg)
	cmd.Dir = repoRoot
	cmd.Env = append(os.Environ(), "PATH="+fakeBin+string(os.PathListSeparator)+os.Getenv("PATH"))
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("pipeline failed: %v\n%s", err, out)
	}

	// Final assembly: one file per extracted clip, same base names.
	for _, name := range []string{"clip_speech.ogg", "clip_silent.ogg", "song_long.ogg"} {
		if _, err := os.Stat(filepath.Join(workDir, "final", name)); err != nil {
			t.Fatalf("missing final file %s: %v", name, err)
		}
	}

	// Translation artifacts allow a later --skip_translation run.
	for _, name := range []string{"clip_speech.mp3", "clip_speech.txt"} {
		if _, err := os.Stat(filepath.Join(workDir, "translated", name)); err != nil {
			t.Fatalf("missing translation artifact %s: %v", name, err)
		}
	}

	// Report: header + 3 rows, sorted, expected categories.
	f, err := os.Open(filepath.Join(workDir, "report.csv"))
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse report: %v", err)
	}
	if len(recs) != 4 {
		t.Fatalf("expected 4 records, got %d", len(recs))
	}
	wantRows := map[string]string{
		"clip_speech": "Speech",
		"clip_silent": "Sound",
		"song_long":   "Too long",
	}
	for _, rec := range recs[1:] {
		if wantRows[rec[0]] != rec[2] {
			t.Fatalf("clip %s: got category %q, want %q", rec[0], rec[2], wantRows[rec[0]])
		}
	}

	// Output cartridge named after the source.
	if _, err := os.Stat(filepath.Join(workDir, "sample (translated).gme")); err != nil {
		t.Fatalf("missing output cartridge: %v", err)
	}

	// Resume run: same work dir, no model stack needed.
	resume := exec.CommandContext(ctx, "go", "run", "./cmd/gmetrans", gme, workDir, "--config", cfg, "--skip_translation")
	resume.Dir = repoRoot
	resume.Env = cmd.Env
	if out, err := resume.CombinedOutput(); err != nil {
		t.Fatalf("resume run failed: %v\n%s", err, out)
	}
}

func TestE2E_SkipTranslationWithEmptyWorkDir(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	fakeBin := installFakeToolchain(t)
	cfg := writeRunConfig(t)

	tmp := t.TempDir()
	gme := filepath.Join(tmp, "sample.gme")
	if err := os.WriteFile(gme, []byte("gme"), 0o644); err != nil {
		t.Fatalf("write gme fixture: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cmd := exec.CommandContext(ctx, "go", "run", "./cmd/gmetrans", gme, filepath.Join(tmp, "work"), "--config", cfg, "--skip_translation")
	cmd.Dir = repoRoot
	cmd.Env = append(os.Environ(), "PATH="+fakeBin+string(os.PathListSeparator)+os.Getenv("PATH"))
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected failure, got success:\n%s", out)
	}
	if !strings.Contains(string(out), "no previously translated clips") {
		t.Fatalf("expected empty-resume error, got:\n%s", out)
	}
}
