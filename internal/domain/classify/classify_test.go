package classify

import (
	"testing"
	"time"

	"gmetrans/internal/types"
)

func TestFitsBudget_Table(t *testing.T) {
	max := 40 * time.Second

	tests := []struct {
		name string
		d    time.Duration
		want bool
	}{
		{"short", 10 * time.Second, true},
		{"exactly at limit", 40 * time.Second, true},
		{"just over", 40*time.Second + time.Millisecond, false},
		{"song length", 3 * time.Minute, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitsBudget(tt.d, max); got != tt.want {
				t.Fatalf("FitsBudget(%s) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestCategorize_Precedence(t *testing.T) {
	tests := []struct {
		name       string
		fitsBudget bool
		hasSpeech  bool
		want       types.Category
	}{
		{"too long wins over speech", false, true, types.CategoryTooLong},
		{"too long without speech", false, false, types.CategoryTooLong},
		{"speech", true, true, types.CategorySpeech},
		{"sound only", true, false, types.CategorySound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.fitsBudget, tt.hasSpeech); got != tt.want {
				t.Fatalf("Categorize(%v, %v) = %q, want %q", tt.fitsBudget, tt.hasSpeech, got, tt.want)
			}
		})
	}
}

func TestBuildReport(t *testing.T) {
	clips := []types.Clip{
		{Name: "c_song", Duration: 3 * time.Minute, Category: types.CategoryTooLong},
		{Name: "a_speech", Duration: 10 * time.Second, Category: types.CategorySpeech},
		{Name: "b_chime", Duration: 2 * time.Second, Category: types.CategorySound},
	}
	translated := []types.TranslatedClip{
		{Name: "a_speech", AudioPath: "translated/a_speech.mp3", Transcript: "hello there"},
	}

	rows := BuildReport(clips, translated)

	if len(rows) != len(clips) {
		t.Fatalf("expected %d rows, got %d", len(clips), len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i-1].Name > rows[i].Name {
			t.Fatalf("rows not sorted by name: %q before %q", rows[i-1].Name, rows[i].Name)
		}
	}
	if rows[0].Name != "a_speech" || rows[0].Transcript != "hello there" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Transcript != "" || rows[2].Transcript != "" {
		t.Fatalf("untranslated clips must have empty transcripts: %+v", rows[1:])
	}
	if rows[0].Category != types.CategorySpeech || rows[1].Category != types.CategorySound || rows[2].Category != types.CategoryTooLong {
		t.Fatalf("unexpected categories: %+v", rows)
	}
}
