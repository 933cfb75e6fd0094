package summarizer

import (
	"context"
	"errors"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/config"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/logger"
)

// ErrMissingAPIKey is returned when no Gemini API key is configured.
var ErrMissingAPIKey = errors.New("Gemini API key not found, set GEMINI_API_KEY")

// modelsAPI is the part of genai.Models the summarizer calls.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	CountTokens(ctx context.Context, model string, contents []*genai.Content, cfg *genai.CountTokensConfig) (*genai.CountTokensResponse, error)
}

type clientFactory func(ctx context.Context, apiKey string) (modelsAPI, error)

func newGeminiModels(ctx context.Context, apiKey string) (modelsAPI, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return client.Models, nil
}

type implSummarizer struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int

	logger      logger.Logger
	model       string
	temperature float32
	newClient   clientFactory
}

// New creates a Summarizer that rotates through the configured Gemini API keys.
func New(cfg config.GeminiConfig, log logger.Logger) (Summarizer, error) {
	return newSummarizer(cfg, log, newGeminiModels)
}

func newSummarizer(cfg config.GeminiConfig, log logger.Logger, factory clientFactory) (*implSummarizer, error) {
	if len(cfg.APIKeys) == 0 {
		return nil, ErrMissingAPIKey
	}
	model := cfg.Model
	if model == "" {
		model = config.Default().Gemini.Model
	}
	return &implSummarizer{
		apiKeys:     cfg.APIKeys,
		logger:      log,
		model:       model,
		temperature: cfg.Temperature,
		newClient:   factory,
	}, nil
}
