package classify

import (
	"sort"
	"time"

	"gmetrans/internal/types"
)

// FitsBudget reports whether a clip is short enough to translate. Long
// clips are almost always songs, and they also exhaust the translation
// model's memory, so they are copied through untouched.
func FitsBudget(d, max time.Duration) bool {
	return d <= max
}

// Categorize resolves the final category for a clip. Precedence is
// too-long > speech > sound: the length check happens before speech
// detection, so a long clip is never classified as speech.
func Categorize(fitsBudget, hasSpeech bool) types.Category {
	switch {
	case !fitsBudget:
		return types.CategoryTooLong
	case hasSpeech:
		return types.CategorySpeech
	default:
		return types.CategorySound
	}
}

// BuildReport produces one row per extracted clip, sorted by clip name so
// repeated runs emit identical reports. Transcripts are joined by clip
// identity; clips that were not translated get an empty transcript.
func BuildReport(clips []types.Clip, translated []types.TranslatedClip) []types.ReportRow {
	transcripts := make(map[string]string, len(translated))
	for _, t := range translated {
		transcripts[t.Name] = t.Transcript
	}

	rows := make([]types.ReportRow, 0, len(clips))
	for _, c := range clips {
		rows = append(rows, types.ReportRow{
			Name:       c.Name,
			Duration:   c.Duration,
			Category:   c.Category,
			Transcript: transcripts[c.Name],
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}
