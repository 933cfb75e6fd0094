package audio

import (
	"github.com/nguyentantai21042004/cant-be-bothered/internal/config"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/logger"
	"github.com/nguyentantai21042004/cant-be-bothered/pkg/executor"
)

type implPreparer struct {
	logger   logger.Logger
	executor executor.Executor
	cfg      config.FFmpegConfig
}

// New creates a Preparer that shells out to ffmpeg for conversion.
func New(l logger.Logger, exec executor.Executor, cfg config.FFmpegConfig) Preparer {
	if cfg.Binary == "" {
		cfg.Binary = "ffmpeg"
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	return &implPreparer{
		logger:   l,
		executor: exec,
		cfg:      cfg,
	}
}
