package recognizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	openai "github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/config"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/logger"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/transcript"
)

// ErrMissingOpenAIKey is returned when the openai backend has no API key.
var ErrMissingOpenAIKey = errors.New("OPENAI_API_KEY not set")

type transcriptionClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// OpenAI sends the file to the hosted transcription endpoint. The response
// arrives in one piece, so the sequence is materialized up front.
type OpenAI struct {
	logger logger.Logger
	client transcriptionClient
	model  string
}

// NewOpenAI creates a recognizer backed by the OpenAI audio API.
func NewOpenAI(l logger.Logger, cfg config.OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingOpenAIKey
	}
	return &OpenAI{
		logger: l,
		client: openai.NewClient(cfg.APIKey),
		model:  lo.Ternary(cfg.Model != "", cfg.Model, openai.Whisper1),
	}, nil
}

// Recognize ignores the local model options; the hosted model does its own VAD.
func (o *OpenAI) Recognize(ctx context.Context, audioPath string, opts Options) (transcript.SegmentSeq, Info, error) {
	o.logger.Info(ctx, "Uploading %s to OpenAI (%s)", audioPath, o.model)

	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: audioPath,
		Language: languageOrAuto(opts.Language),
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, Info{}, fmt.Errorf("openai transcription: %w", err)
	}

	segments := make([]transcript.Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, transcript.Segment{Start: s.Start, End: s.End, Text: s.Text})
	}
	// verbose_json without segments still carries the whole text
	if len(segments) == 0 && resp.Text != "" {
		segments = append(segments, transcript.Segment{Start: 0, End: resp.Duration, Text: resp.Text})
	}

	return transcript.NewSliceSeq(segments), Info{Duration: resp.Duration, Language: resp.Language}, nil
}
