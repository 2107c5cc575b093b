//go:build integration

package itest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// installFakeToolchain drops shell-script stand-ins for every external
// binary into a fresh directory and returns it for PATH prepending. The
// fakes reproduce the behaviors the pipeline has to cope with, including
// libtiptoi's exit-code-1-on-success quirk.
func installFakeToolchain(t *testing.T) string {
	t.Helper()
	bin := t.TempDir()

	scripts := map[string]string{
		// x <dest-prefix> <gme> | r <filelist> <out> <src>
		"libtiptoi": `#!/bin/sh
case "$1" in
  x)
    dest="$2"
    printf ogg > "${dest}clip_speech.ogg"
    printf ogg > "${dest}clip_silent.ogg"
    printf ogg > "${dest}song_long.ogg"
    {
      printf '3\n'
      printf '%sclip_speech.ogg\n' "$dest"
      printf '%sclip_silent.ogg\n' "$dest"
      printf '%ssong_long.ogg\n' "$dest"
    } > "${dest}filelist.txt"
    exit 1
    ;;
  r)
    printf gme > "$3"
    exit 1
    ;;
esac
exit 2
`,
		"ffprobe": `#!/bin/sh
case "$*" in
  *song*) echo 60.000000 ;;
  *) echo 10.000000 ;;
esac
`,
		"ffmpeg": `#!/bin/sh
out=""
for a; do out="$a"; done
printf ogg > "$out"
`,
		"silero-vad": `#!/bin/sh
case "$*" in
  *speech*) echo '{"segments":[{"start":0.4,"end":2.1}]}' ;;
  *) echo '{"segments":[]}' ;;
esac
`,
		"seamless-expressive": `#!/bin/sh
out=""
txt=""
while [ $# -gt 0 ]; do
  case "$1" in
    --output) out="$2"; shift 2 ;;
    --transcript) txt="$2"; shift 2 ;;
    *) shift ;;
  esac
done
printf mp3 > "$out"
printf 'hello from the fake model\n' > "$txt"
`,
	}

	for name, body := range scripts {
		if err := os.WriteFile(filepath.Join(bin, name), []byte(body), 0o755); err != nil {
			t.Fatalf("install fake %s: %v", name, err)
		}
	}
	return bin
}

// writeRunConfig points the assets dir at a real directory so preflight
// passes, and pins single workers for deterministic output.
func writeRunConfig(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	assets := filepath.Join(tmp, "SeamlessExpressive")
	if err := os.MkdirAll(assets, 0o755); err != nil {
		t.Fatalf("mkdir assets: %v", err)
	}
	cfg := filepath.Join(tmp, "gmetrans.toml")
	body := fmt.Sprintf("[translation]\nassets_dir = %q\n\n[workers]\nclassify = 1\nencode = 1\n", assets)
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfg
}
