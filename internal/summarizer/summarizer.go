package summarizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"
)

// GenerateMinutes produces formal meeting minutes.
func (s *implSummarizer) GenerateMinutes(ctx context.Context, transcript, date string) (string, error) {
	if date == "" {
		date = time.Now().Format(minutesDateFormat)
	}
	return s.callGemini(ctx, fmt.Sprintf(minutesPrompt, transcript, date))
}

// GenerateSimpleSummary produces a short bullet-point summary.
func (s *implSummarizer) GenerateSimpleSummary(ctx context.Context, transcript string) (string, error) {
	return s.callGemini(ctx, fmt.Sprintf(simplePrompt, transcript))
}

// GenerateCustom runs the caller's instructions against the transcript.
func (s *implSummarizer) GenerateCustom(ctx context.Context, transcript, instructions string) (string, error) {
	return s.callGemini(ctx, fmt.Sprintf(customPrompt, instructions, transcript))
}

// CountTokens reports how many tokens text costs with the configured model.
func (s *implSummarizer) CountTokens(ctx context.Context, text string) (int, error) {
	var total int
	err := s.withKeyRotation(ctx, func(models modelsAPI) error {
		resp, err := models.CountTokens(ctx, s.model, genai.Text(text), nil)
		if err != nil {
			return err
		}
		total = int(resp.TotalTokens)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count tokens: %w", err)
	}
	return total, nil
}

// SummarizeAll reads all .txt transcripts from srcDir, calls Gemini for each,
// and writes individual .md files into destDir.
func (s *implSummarizer) SummarizeAll(ctx context.Context, srcDir, destDir string, opts BatchOptions) (BatchReport, error) {
	files, err := s.discoverTranscripts(srcDir)
	if err != nil {
		return BatchReport{}, fmt.Errorf("discover transcripts: %w", err)
	}

	if len(files) == 0 {
		s.logger.Info(ctx, "No transcripts found in %s", srcDir)
		return BatchReport{}, nil
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return BatchReport{}, fmt.Errorf("create dest dir: %w", err)
	}

	s.logger.Info(ctx, "Found %d transcripts to summarize", len(files))

	results := make([]outcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))

	for i, path := range files {
		g.Go(func() error {
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			s.logger.Info(gctx, "[%d/%d] Summarizing: %s", i+1, len(files), name)

			res, err := s.summarizeFile(gctx, path, destDir, opts)
			if err != nil {
				s.logger.Error(gctx, "Failed to summarize %s: %v", name, err)
			}
			results[i] = res
			// per-file failures are counted, not fatal
			return nil
		})
	}
	_ = g.Wait()

	report := BatchReport{
		Summarized: lo.Count(results, outcomeDone),
		Skipped:    lo.Count(results, outcomeSkipped),
		Failed:     lo.Count(results, outcomeFailed),
	}
	s.logger.Info(ctx, "Summary complete: %d success, %d skipped, %d failed", report.Summarized, report.Skipped, report.Failed)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

type outcome int

const (
	outcomeFailed outcome = iota
	outcomeDone
	outcomeSkipped
)

func (s *implSummarizer) summarizeFile(ctx context.Context, path, destDir string, opts BatchOptions) (outcome, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	mdPath := filepath.Join(destDir, name+".md")

	if !opts.Force {
		if _, err := os.Stat(mdPath); err == nil {
			s.logger.Info(ctx, "[SKIP] %s already summarized", name)
			return outcomeSkipped, nil
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return outcomeFailed, fmt.Errorf("read %s: %w", path, err)
	}

	var summary string
	switch opts.Mode {
	case ModeSimple:
		summary, err = s.GenerateSimpleSummary(ctx, string(content))
	default:
		summary, err = s.GenerateMinutes(ctx, string(content), "")
	}
	if err != nil {
		return outcomeFailed, err
	}

	md := fmt.Sprintf("# %s\n\n_%s_\n\n%s\n",
		name,
		time.Now().Format("2006-01-02 15:04"),
		strings.TrimSpace(summary),
	)
	if err := os.WriteFile(mdPath, []byte(md), 0644); err != nil {
		return outcomeFailed, fmt.Errorf("write %s: %w", mdPath, err)
	}

	if opts.Docx {
		docxPath := filepath.Join(destDir, name+".docx")
		if err := WriteMarkdownDocx(name, summary, docxPath); err != nil {
			s.logger.Warn(ctx, "Failed to write %s: %v", docxPath, err)
		}
	}

	s.logger.Info(ctx, "[DONE] %s -> %s", name, mdPath)
	return outcomeDone, nil
}

// callGemini sends the prompt to Gemini and returns the response text.
func (s *implSummarizer) callGemini(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       lo.ToPtr(s.temperature),
	}

	var text string
	err := s.withKeyRotation(ctx, func(models modelsAPI) error {
		result, err := models.GenerateContent(ctx, s.model, genai.Text(prompt), cfg)
		if err != nil {
			return err
		}
		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var b strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				if part != nil && part.Text != "" {
					b.WriteString(part.Text)
				}
			}
			text = b.String()
			return nil
		}
		return errEmptyResponse
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return text, nil
}

var errEmptyResponse = errors.New("empty response from Gemini")

// withKeyRotation calls fn with a client for the current key, moving on to
// the next key on 429 / quota errors until every key has been tried once.
func (s *implSummarizer) withKeyRotation(ctx context.Context, fn func(models modelsAPI) error) error {
	var lastErr error

	for range len(s.apiKeys) {
		idx, key := s.current()

		models, err := s.newClient(ctx, key)
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.rotateFrom(idx)
			continue
		}

		err = fn(models)
		if err == nil {
			return nil
		}
		if isRateLimited(err) {
			s.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
			s.rotateFrom(idx)
			lastErr = err
			continue
		}
		return err
	}

	return fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func (s *implSummarizer) current() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentKey, s.apiKeys[s.currentKey]
}

// rotateFrom advances past idx unless another goroutine already has.
func (s *implSummarizer) rotateFrom(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentKey == idx {
		s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	}
}

func (s *implSummarizer) discoverTranscripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			return "", false
		}
		return filepath.Join(dir, e.Name()), strings.ToLower(filepath.Ext(e.Name())) == ".txt"
	})

	sort.Strings(files)
	return files, nil
}
