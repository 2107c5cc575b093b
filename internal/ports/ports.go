package ports

import (
	"context"
	"time"

	"gmetrans/internal/types"
)

type CartridgeTool interface {
	Extract(ctx context.Context, gmePath, destDir string) ([]string, error)
	Repack(ctx context.Context, filelistPath, outPath, srcGME string) error
}

type AudioProber interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
}

type SpeechDetector interface {
	HasSpeech(ctx context.Context, path string) (bool, error)
}

type Translator interface {
	Translate(ctx context.Context, paths []string, destDir string) ([]types.TranslatedClip, error)
}

type Transcoder interface {
	ToOgg(ctx context.Context, inPath, outPath string, gainDB float64) error
}
