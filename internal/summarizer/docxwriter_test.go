package summarizer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSplitTurns(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       []turn
	}{
		{
			name:       "plain transcript",
			transcript: "Hello world",
			want:       []turn{{Text: "Hello world"}},
		},
		{
			name:       "speaker markers",
			transcript: "\n\n[SPEAKER_00]\nDobrý deň ako\n\n[SPEAKER_01]\nDobre\n\n[?]\n\n\n[SPEAKER_00]\n ďakujem",
			want: []turn{
				{Speaker: "SPEAKER_00", Text: "Dobrý deň ako"},
				{Speaker: "SPEAKER_01", Text: "Dobre"},
				{Speaker: "?", Text: ""},
				{Speaker: "SPEAKER_00", Text: "ďakujem"},
			},
		},
		{
			name:       "empty",
			transcript: "",
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitTurns(tt.transcript)
			if len(got) != len(tt.want) {
				t.Fatalf("splitTurns() = %+v, want %+v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("turn %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestWriteDocx(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		write func(path string) error
	}{
		{"markdown", func(path string) error {
			return WriteMarkdownDocx("Zápisnica", "# Téma\n\n- **Rozhodnutie:** áno\n1. bod\n---\ntext", path)
		}},
		{"transcript", func(path string) error {
			return WriteTranscriptDocx("meeting", "\n\n[SPEAKER_00]\nAhoj", path)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".docx")
			if err := tt.write(path); err != nil {
				t.Fatalf("write docx: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read docx: %v", err)
			}
			if len(data) < 2 || string(data[:2]) != "PK" {
				t.Error("docx is not a zip archive")
			}
		})
	}
}
