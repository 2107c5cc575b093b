package filelist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRewrite(t *testing.T) {
	tmp := t.TempDir()
	extracted := filepath.Join(tmp, "extracted")
	final := filepath.Join(tmp, "final")
	for _, d := range []string{extracted, final} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}

	manifest := "3\n" +
		extracted + "/clip_001.ogg\n" +
		extracted + "/clip_002.ogg\n" +
		extracted + "/song_003.ogg\n"
	if err := os.WriteFile(filepath.Join(extracted, Name), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest fixture: %v", err)
	}

	dst, err := Rewrite(extracted, final)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if dst != filepath.Join(final, Name) {
		t.Fatalf("unexpected destination: %s", dst)
	}

	b, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read rewritten manifest: %v", err)
	}
	got := string(b)
	if strings.Contains(got, extracted) {
		t.Fatalf("rewritten manifest still references the extraction dir:\n%s", got)
	}
	for _, want := range []string{
		"3\n",
		final + "/clip_001.ogg",
		final + "/song_003.ogg",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected manifest to contain %q:\n%s", want, got)
		}
	}
}

func TestRewrite_MissingManifest(t *testing.T) {
	tmp := t.TempDir()
	if _, err := Rewrite(filepath.Join(tmp, "extracted"), filepath.Join(tmp, "final")); err == nil {
		t.Fatal("expected error for missing extraction manifest")
	}
}
