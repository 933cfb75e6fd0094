package summarizer

import "context"

// Mode selects the kind of summary produced from a transcript.
type Mode int

const (
	// ModeMinutes produces formal meeting minutes.
	ModeMinutes Mode = iota
	// ModeSimple produces a short bullet list.
	ModeSimple
)

// Summarizer turns transcripts into LLM-generated markdown.
type Summarizer interface {
	// GenerateMinutes writes formal minutes. An empty date means today.
	GenerateMinutes(ctx context.Context, transcript, date string) (string, error)
	GenerateSimpleSummary(ctx context.Context, transcript string) (string, error)
	GenerateCustom(ctx context.Context, transcript, instructions string) (string, error)
	CountTokens(ctx context.Context, text string) (int, error)
	// SummarizeAll summarizes every .txt transcript in srcDir into destDir.
	SummarizeAll(ctx context.Context, srcDir, destDir string, opts BatchOptions) (BatchReport, error)
}

// BatchOptions configure SummarizeAll.
type BatchOptions struct {
	Mode        Mode
	Docx        bool
	Concurrency int
	// Force re-summarizes transcripts whose .md already exists.
	Force bool
}

// BatchReport counts what SummarizeAll did.
type BatchReport struct {
	Summarized int
	Skipped    int
	Failed     int
}
