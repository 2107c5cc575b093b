package silerovad

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func fakeVAD(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "silero-vad")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write fake vad: %v", err)
	}
	return path
}

func TestHasSpeech(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"speech detected", `echo '{"segments":[{"start":0.5,"end":3.2}]}'` + "\n", true},
		{"silence", `echo '{"segments":[]}'` + "\n", false},
		{"no segments key", `echo '{}'` + "\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(fakeVAD(t, tt.body), 0.8)
			got, err := a.HasSpeech(context.Background(), "clip.ogg")
			if err != nil {
				t.Fatalf("has speech: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasSpeech_PassesThreshold(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	a := New(fakeVAD(t, `echo "$@" > `+argsFile+"\n"+`echo '{"segments":[]}'`+"\n"), 0.8)

	if _, err := a.HasSpeech(context.Background(), "clip.ogg"); err != nil {
		t.Fatalf("has speech: %v", err)
	}
	b, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read recorded args: %v", err)
	}
	if !strings.Contains(string(b), "--threshold 0.80") {
		t.Fatalf("expected threshold arg, got %s", b)
	}
}

func TestHasSpeech_ToolFailure(t *testing.T) {
	a := New(fakeVAD(t, "echo 'model load failed' >&2\nexit 3\n"), 0.8)

	_, err := a.HasSpeech(context.Background(), "clip.ogg")
	if err == nil {
		t.Fatal("expected error from failing vad binary")
	}
	if !strings.Contains(err.Error(), "model load failed") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestHasSpeech_MissingBinary(t *testing.T) {
	a := New(filepath.Join(t.TempDir(), "nope"), 0.8)
	if _, err := a.HasSpeech(context.Background(), "clip.ogg"); err == nil {
		t.Fatal("expected error for missing binary")
	}
}
