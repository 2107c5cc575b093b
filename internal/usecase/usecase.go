// Package usecase sequences the pipeline stages over the external
// collaborators: extract, classify by length, classify by speech, copy or
// translate, re-encode, report, repack. It owns the file-identity mapping
// between stages; every output is traceable to its source clip by base
// name.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"gmetrans/internal/domain/classify"
	"gmetrans/internal/filelist"
	"gmetrans/internal/ports"
	"gmetrans/internal/report"
	"gmetrans/internal/types"
)

// ErrNoTranslations means a skip-translation run found nothing to resume
// from. Failing here prevents silently repacking an empty assembly.
var ErrNoTranslations = errors.New("no previously translated clips were found (--skip_translation was used)")

type Deps struct {
	Cartridge  ports.CartridgeTool
	Prober     ports.AudioProber
	Detector   ports.SpeechDetector
	Translator ports.Translator
	Transcoder ports.Transcoder

	Log *slog.Logger
	// NewBar builds a stage progress bar; nil means silent bars.
	NewBar func(total int, desc string) *progressbar.ProgressBar
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Log == nil {
		d.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return Usecase{d: d}
}

type Input struct {
	GMEPath       string
	WorkDir       string
	ExtractedDir  string
	TranslatedDir string
	FinalDir      string
	ReportPath    string

	MaxClip time.Duration
	GainDB  float64

	SkipTranslation bool
	ClassifyWorkers int
	EncodeWorkers   int
}

type Result struct {
	Clips        []types.Clip
	Translated   []types.TranslatedClip
	Rows         []types.ReportRow
	ReportPath   string
	FilelistPath string
	OutputGME    string
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	log := u.d.Log

	// Extract.
	paths, err := u.d.Cartridge.Extract(ctx, in.GMEPath, in.ExtractedDir)
	if err != nil {
		return Result{}, err
	}
	log.Info("extracted clips", "count", len(paths), "dir", in.ExtractedDir)

	clips := make([]types.Clip, len(paths))
	for i, p := range paths {
		clips[i] = types.Clip{Name: clipName(p), Path: p}
	}

	// Measure durations. Cheap per clip, but cartridges hold hundreds of
	// assets, so run on the classification pool.
	bar := u.bar(len(clips), "measuring")
	err = u.forEach(ctx, in.ClassifyWorkers, len(clips), func(i int) error {
		defer func() { _ = bar.Add(1) }()
		d, err := u.d.Prober.Duration(ctx, clips[i].Path)
		if err != nil {
			return err
		}
		clips[i].Duration = d
		return nil
	})
	_ = bar.Finish()
	if err != nil {
		return Result{}, err
	}

	// Length split. Long clips are songs; they skip every later stage.
	tooLong := 0
	for i := range clips {
		if !classify.FitsBudget(clips[i].Duration, in.MaxClip) {
			clips[i].Category = types.CategoryTooLong
			tooLong++
		}
	}
	log.Info("length classified", "too_long", tooLong, "budget", in.MaxClip)

	for i := range clips {
		if clips[i].Category == types.CategoryTooLong {
			if err := copyClip(clips[i].Path, in.FinalDir); err != nil {
				return Result{}, err
			}
		}
	}

	// Speech detection on everything still unclassified.
	var pending []int
	for i := range clips {
		if clips[i].Category == "" {
			pending = append(pending, i)
		}
	}
	bar = u.bar(len(pending), "detecting speech")
	err = u.forEach(ctx, in.ClassifyWorkers, len(pending), func(k int) error {
		defer func() { _ = bar.Add(1) }()
		i := pending[k]
		hasSpeech, err := u.d.Detector.HasSpeech(ctx, clips[i].Path)
		if err != nil {
			return err
		}
		clips[i].Category = classify.Categorize(true, hasSpeech)
		return nil
	})
	_ = bar.Finish()
	if err != nil {
		return Result{}, err
	}

	var speech []types.Clip
	for i := range clips {
		switch clips[i].Category {
		case types.CategorySound:
			if err := copyClip(clips[i].Path, in.FinalDir); err != nil {
				return Result{}, err
			}
		case types.CategorySpeech:
			speech = append(speech, clips[i])
		}
	}
	log.Info("speech classified", "speech", len(speech), "sound", len(pending)-len(speech))

	// Translate, or resume from a previous run.
	var translated []types.TranslatedClip
	if in.SkipTranslation {
		translated, err = resumeTranslated(speech, in.TranslatedDir)
		if err != nil {
			return Result{}, err
		}
		log.Info("reusing prior translations", "count", len(translated), "dir", in.TranslatedDir)
	} else {
		speechPaths := make([]string, len(speech))
		for i, c := range speech {
			speechPaths[i] = c.Path
		}
		log.Info("translating speech clips", "count", len(speechPaths))
		translated, err = u.d.Translator.Translate(ctx, speechPaths, in.TranslatedDir)
		if err != nil {
			return Result{}, err
		}
	}

	// Re-encode translations into the cartridge codec.
	bar = u.bar(len(translated), "re-encoding")
	err = u.forEach(ctx, in.EncodeWorkers, len(translated), func(i int) error {
		defer func() { _ = bar.Add(1) }()
		out := filepath.Join(in.FinalDir, translated[i].Name+".ogg")
		return u.d.Transcoder.ToOgg(ctx, translated[i].AudioPath, out, in.GainDB)
	})
	_ = bar.Finish()
	if err != nil {
		return Result{}, err
	}

	// Every extracted clip must have exactly one counterpart in the final
	// assembly before the repack tool sees the manifest.
	for i := range clips {
		final := filepath.Join(in.FinalDir, clips[i].Name+".ogg")
		if _, err := os.Stat(final); err != nil {
			return Result{}, fmt.Errorf("final assembly incomplete: clip %s (%s) has no output file: %w",
				clips[i].Name, clips[i].Category, err)
		}
	}

	// Report.
	rows := classify.BuildReport(clips, translated)
	if err := report.WriteCSV(in.ReportPath, rows); err != nil {
		return Result{}, err
	}
	log.Info("report written", "path", in.ReportPath, "rows", len(rows))

	// Manifest rewrite and repack.
	flPath, err := filelist.Rewrite(in.ExtractedDir, in.FinalDir)
	if err != nil {
		return Result{}, err
	}
	outGME := OutputPath(in.WorkDir, in.GMEPath)
	if err := u.d.Cartridge.Repack(ctx, flPath, outGME, in.GMEPath); err != nil {
		return Result{}, err
	}
	log.Info("cartridge repacked", "path", outGME)

	return Result{
		Clips:        clips,
		Translated:   translated,
		Rows:         rows,
		ReportPath:   in.ReportPath,
		FilelistPath: flPath,
		OutputGME:    outGME,
	}, nil
}

// OutputPath names the repacked cartridge after its source:
// "Puzzle.gme" becomes "Puzzle (translated).gme" in the work directory.
func OutputPath(workDir, gmePath string) string {
	base := filepath.Base(gmePath)
	ext := filepath.Ext(base)
	return filepath.Join(workDir, strings.TrimSuffix(base, ext)+" (translated)"+ext)
}

// resumeTranslated loads (audio, transcript) pairs a previous run left in
// translatedDir, keyed by clip name.
func resumeTranslated(speech []types.Clip, translatedDir string) ([]types.TranslatedClip, error) {
	prior, err := filepath.Glob(filepath.Join(translatedDir, "*.mp3"))
	if err != nil {
		return nil, err
	}
	if len(prior) == 0 {
		return nil, ErrNoTranslations
	}

	out := make([]types.TranslatedClip, 0, len(speech))
	for _, c := range speech {
		audioPath := filepath.Join(translatedDir, c.Name+".mp3")
		textPath := filepath.Join(translatedDir, c.Name+".txt")
		if _, err := os.Stat(audioPath); err != nil {
			return nil, fmt.Errorf("clip %s: no prior translation: %w", c.Name, err)
		}
		b, err := os.ReadFile(textPath)
		if err != nil {
			return nil, fmt.Errorf("clip %s: no prior transcript: %w", c.Name, err)
		}
		out = append(out, types.TranslatedClip{
			Name:       c.Name,
			AudioPath:  audioPath,
			Transcript: strings.TrimSpace(string(b)),
		})
	}
	return out, nil
}

// forEach fans fn out over n items on a bounded worker pool. In-flight
// work drains before the first error is returned; there is no per-item
// recovery.
func (u Usecase) forEach(ctx context.Context, workers, n int, fn func(i int) error) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	sem := make(chan struct{}, workers)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			errs[i] = fn(i)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (u Usecase) bar(total int, desc string) *progressbar.ProgressBar {
	if u.d.NewBar != nil {
		return u.d.NewBar(total, desc)
	}
	return progressbar.DefaultSilent(int64(total), desc)
}

func copyClip(srcPath, destDir string) error {
	in, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("copy clip: %w", err)
	}
	defer in.Close()

	out, err := os.Create(filepath.Join(destDir, filepath.Base(srcPath)))
	if err != nil {
		return fmt.Errorf("copy clip: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy clip %s: %w", filepath.Base(srcPath), err)
	}
	return out.Close()
}

func clipName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
