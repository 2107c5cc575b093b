// Package pipeline wires the adapters together and runs one full
// translation pass over a cartridge.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"gmetrans/internal/config"
	"gmetrans/internal/ports"
	"gmetrans/internal/ports/adapters/ffmpeg"
	"gmetrans/internal/ports/adapters/libtiptoi"
	"gmetrans/internal/ports/adapters/seamless"
	"gmetrans/internal/ports/adapters/silerovad"
	"gmetrans/internal/preflight"
	"gmetrans/internal/report"
	"gmetrans/internal/usecase"
)

const lockFileName = ".gmetrans.lock"

type Config struct {
	GMEPath string
	WorkDir string

	SkipTranslation bool
	ForceCPU        bool

	App config.Config
	Log *slog.Logger
}

func (c Config) Validate() error {
	if c.GMEPath == "" {
		return errors.New("input cartridge path is empty")
	}
	if _, err := os.Stat(c.GMEPath); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if c.WorkDir == "" {
		return errors.New("work dir is empty")
	}
	return c.App.Validate()
}

func Run(ctx context.Context, cfg Config) error {
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// libtiptoi breaks on paths with spaces.
	workDir := cfg.WorkDir
	if strings.Contains(workDir, " ") {
		workDir = strings.ReplaceAll(workDir, " ", "_")
		log.Warn("work dir contains spaces, using a safe name instead", "dir", workDir)
	}

	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return err
	}

	// One run per work dir at a time; concurrent runs would interleave
	// their partial artifacts.
	lock := flock.New(filepath.Join(workDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock work dir: %w", err)
	}
	if !locked {
		return fmt.Errorf("another run is already active in %s", workDir)
	}
	defer lock.Unlock()

	log.Info("performing initial checks")
	if err := preflight.Err(preflight.Run(&cfg.App, cfg.SkipTranslation)); err != nil {
		return err
	}

	extractedDir := filepath.Join(workDir, "extracted")
	translatedDir := filepath.Join(workDir, "translated")
	finalDir := filepath.Join(workDir, "final")
	for _, d := range []string{extractedDir, translatedDir, finalDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	log.Info("created folder structure", "dir", workDir)

	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	uc := usecase.New(usecase.Deps{
		Cartridge:  libtiptoi.New(cfg.App.Tools.Libtiptoi),
		Prober:     ffmpeg.New(cfg.App.Tools.FFmpeg, cfg.App.Tools.FFprobe),
		Detector:   silerovad.New(cfg.App.Tools.VAD, cfg.App.Thresholds.VADConfidence),
		Translator: seamless.New(cfg.App.Tools.Seamless, cfg.App.Translation.AssetsDir, cfg.App.Translation.TargetLanguage, cfg.ForceCPU),
		Transcoder: ffmpeg.New(cfg.App.Tools.FFmpeg, cfg.App.Tools.FFprobe),
		Log:        log,
		NewBar:     barFactory(interactive),
	})

	res, err := uc.Run(ctx, usecase.Input{
		GMEPath:         cfg.GMEPath,
		WorkDir:         workDir,
		ExtractedDir:    extractedDir,
		TranslatedDir:   translatedDir,
		FinalDir:        finalDir,
		ReportPath:      filepath.Join(workDir, report.FileName),
		MaxClip:         cfg.App.MaxClip(),
		GainDB:          cfg.App.Translation.GainDB,
		SkipTranslation: cfg.SkipTranslation,
		ClassifyWorkers: cfg.App.ClassifyWorkers(),
		EncodeWorkers:   cfg.App.EncodeWorkers(),
	})
	if err != nil {
		return err
	}

	if interactive {
		report.RenderSummary(os.Stdout, res.Rows)
	}
	if info, err := os.Stat(res.OutputGME); err == nil {
		log.Info("done", "output", res.OutputGME, "size", humanize.Bytes(uint64(info.Size())))
	} else {
		log.Info("done", "output", res.OutputGME)
	}
	return nil
}

func barFactory(interactive bool) func(total int, desc string) *progressbar.ProgressBar {
	return func(total int, desc string) *progressbar.ProgressBar {
		if !interactive {
			return progressbar.DefaultSilent(int64(total), desc)
		}
		return progressbar.Default(int64(total), desc)
	}
}

// ensure adapters implement ports
var _ ports.CartridgeTool = (*libtiptoi.Adapter)(nil)
var _ ports.AudioProber = (*ffmpeg.Adapter)(nil)
var _ ports.Transcoder = (*ffmpeg.Adapter)(nil)
var _ ports.SpeechDetector = (*silerovad.Adapter)(nil)
var _ ports.Translator = (*seamless.Adapter)(nil)
