package processor

import (
	"github.com/nguyentantai21042004/cant-be-bothered/internal/audio"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/config"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/logger"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/summarizer"
)

type implProcessor struct {
	cfg         *config.Config
	logger      logger.Logger
	preparer    audio.Preparer
	transcriber Transcriber
	summarizer  summarizer.Summarizer
	modelSlots  *semaphore
	defaults    Job
}

// Option configures a Processor.
type Option func(p *implProcessor)

// WithSummarizer enables Job.Summarize.
func WithSummarizer(s summarizer.Summarizer) Option {
	return func(p *implProcessor) {
		p.summarizer = s
	}
}

// WithDefaults sets the job template used by Process.
func WithDefaults(job Job) Option {
	return func(p *implProcessor) {
		p.defaults = job
	}
}

// New creates a new Processor instance
func New(cfg *config.Config, log logger.Logger, prep audio.Preparer, tr Transcriber, opts ...Option) Processor {
	p := &implProcessor{
		cfg:         cfg,
		logger:      log,
		preparer:    prep,
		transcriber: tr,
		modelSlots:  newSemaphore(max(cfg.Performance.MaxModelJobs, 1)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
