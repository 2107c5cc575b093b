// Package config loads the optional TOML configuration controlling tool
// paths, classification thresholds and worker counts. Everything has a
// working default; a config file only overrides what it names.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Tools names the external binaries the pipeline shells out to.
type Tools struct {
	Libtiptoi string `toml:"libtiptoi_bin"`
	FFmpeg    string `toml:"ffmpeg_bin"`
	FFprobe   string `toml:"ffprobe_bin"`
	VAD       string `toml:"vad_bin"`
	Seamless  string `toml:"seamless_bin"`
}

// Translation configures the speech-to-speech model invocation and the
// re-encode step that follows it.
type Translation struct {
	AssetsDir      string  `toml:"assets_dir"`
	TargetLanguage string  `toml:"target_language"`
	GainDB         float64 `toml:"gain_db"`
}

// Thresholds holds the two classification knobs.
type Thresholds struct {
	MaxClipSeconds float64 `toml:"max_clip_seconds"`
	VADConfidence  float64 `toml:"vad_confidence"`
}

// Workers sizes the classification and re-encode pools. Zero means one
// worker per CPU.
type Workers struct {
	Classify int `toml:"classify"`
	Encode   int `toml:"encode"`
}

type Config struct {
	Tools       Tools       `toml:"tools"`
	Translation Translation `toml:"translation"`
	Thresholds  Thresholds  `toml:"thresholds"`
	Workers     Workers     `toml:"workers"`
	LogLevel    string      `toml:"log_level"`
}

// Default returns the repository defaults: libtiptoi toolchain, 40 second
// length limit, VAD confidence 0.8.
func Default() Config {
	return Config{
		Tools: Tools{
			Libtiptoi: "libtiptoi",
			FFmpeg:    "ffmpeg",
			FFprobe:   "ffprobe",
			VAD:       "silero-vad",
			Seamless:  "seamless-expressive",
		},
		Translation: Translation{
			AssetsDir:      "SeamlessExpressive",
			TargetLanguage: "eng",
			GainDB:         6.0,
		},
		Thresholds: Thresholds{
			MaxClipSeconds: 40,
			VADConfidence:  0.8,
		},
		LogLevel: "info",
	}
}

// Load reads the TOML file at path over the defaults. An empty path or a
// missing file yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Thresholds.MaxClipSeconds <= 0 {
		return fmt.Errorf("max_clip_seconds must be > 0, got %v", c.Thresholds.MaxClipSeconds)
	}
	if c.Thresholds.VADConfidence <= 0 || c.Thresholds.VADConfidence > 1 {
		return fmt.Errorf("vad_confidence must be in (0, 1], got %v", c.Thresholds.VADConfidence)
	}
	if c.Translation.TargetLanguage == "" {
		return errors.New("target_language must not be empty")
	}
	if c.Workers.Classify < 0 || c.Workers.Encode < 0 {
		return errors.New("worker counts must not be negative")
	}
	return nil
}

// MaxClip returns the length budget as a duration.
func (c *Config) MaxClip() time.Duration {
	return time.Duration(c.Thresholds.MaxClipSeconds * float64(time.Second))
}

// ClassifyWorkers resolves the classification pool size.
func (c *Config) ClassifyWorkers() int {
	if c.Workers.Classify > 0 {
		return c.Workers.Classify
	}
	return runtime.NumCPU()
}

// EncodeWorkers resolves the re-encode pool size.
func (c *Config) EncodeWorkers() int {
	if c.Workers.Encode > 0 {
		return c.Workers.Encode
	}
	return runtime.NumCPU()
}
