package types

import "time"

// Category is the classification a clip ends up with. Exactly one per clip.
type Category string

const (
	CategoryTooLong Category = "Too long"
	CategorySound   Category = "Sound"
	CategorySpeech  Category = "Speech"
)

// Clip is a single audio asset extracted from the cartridge. Name is the
// base file name without extension and stays stable across every stage.
type Clip struct {
	Name     string
	Path     string
	Duration time.Duration
	Category Category
}

// TranslatedClip pairs a speech clip's identity with the translated audio
// and the transcript the model produced as a byproduct.
type TranslatedClip struct {
	Name       string
	AudioPath  string
	Transcript string
}

// ReportRow is one line of the final CSV report. One row per extracted
// clip, whether or not it was translated.
type ReportRow struct {
	Name       string
	Duration   time.Duration
	Category   Category
	Transcript string
}
