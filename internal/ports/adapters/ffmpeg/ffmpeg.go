package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// MeasurementError means a clip's duration could not be determined. The
// length classifier cannot silently default, so this aborts the run.
type MeasurementError struct {
	Path string
	Err  error
}

func (e *MeasurementError) Error() string {
	return fmt.Sprintf("%s: audio duration could not be determined: %v", e.Path, e.Err)
}

func (e *MeasurementError) Unwrap() error { return e.Err }

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) Duration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, &MeasurementError{Path: path, Err: fmt.Errorf("ffprobe: %w\n%s", err, string(b))}
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &MeasurementError{Path: path, Err: fmt.Errorf("parse duration %q: %w", s, err)}
	}
	if sec <= 0 {
		return 0, &MeasurementError{Path: path, Err: fmt.Errorf("non-positive duration %v", sec)}
	}
	return time.Duration(sec * float64(time.Second)), nil
}

// ToOgg re-encodes a translated clip into the cartridge's Vorbis format,
// applying gainDB to compensate for the translation model's output level.
func (a *Adapter) ToOgg(ctx context.Context, inPath, outPath string, gainDB float64) error {
	args := []string{
		"-y",
		"-i", inPath,
	}
	if gainDB != 0 {
		args = append(args, "-af", gainFilter(gainDB))
	}
	args = append(args,
		"-ac", "1",
		"-ar", "22050",
		"-c:a", "libvorbis",
		outPath,
	)
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg convert to ogg: %w\n%s", err, string(b))
	}
	return nil
}

func gainFilter(db float64) string {
	return "volume=" + strconv.FormatFloat(db, 'f', 1, 64) + "dB"
}
