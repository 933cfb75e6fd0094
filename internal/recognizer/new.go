package recognizer

import (
	"fmt"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/config"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/logger"
	"github.com/nguyentantai21042004/cant-be-bothered/pkg/executor"
)

// New returns the recognizer selected by cfg.Whisper.Backend.
func New(l logger.Logger, exec executor.Executor, cfg *config.Config) (Recognizer, error) {
	switch cfg.Whisper.Backend {
	case "", "fasterwhisper":
		return NewFasterWhisper(l, exec, cfg.Whisper.Python), nil
	case "whispercpp":
		return newWhisperCpp(l, cfg.Whisper)
	case "openai":
		return NewOpenAI(l, cfg.OpenAI)
	default:
		return nil, fmt.Errorf("unknown whisper backend %q", cfg.Whisper.Backend)
	}
}
