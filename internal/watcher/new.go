package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/logger"
)

// defaultSettle is how long a new file is left alone before processing so
// the writer can finish.
const defaultSettle = 500 * time.Millisecond

// Option configures a Watcher.
type Option func(w *implWatcher)

// WithSettleDelay overrides the wait between a create event and processing.
func WithSettleDelay(d time.Duration) Option {
	return func(w *implWatcher) {
		w.settle = d
	}
}

// New creates a new Watcher instance with concurrency control
func New(inputDir string, handler EventHandler, log logger.Logger, maxConcurrent int, opts ...Option) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	// Default to 2 concurrent if not specified
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	w := &implWatcher{
		inputDir:      inputDir,
		handler:       handler,
		logger:        log,
		watcher:       watcher,
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
		settle:        defaultSettle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}
