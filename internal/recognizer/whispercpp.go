//go:build whispercpp

package recognizer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/audio"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/config"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/logger"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/transcript"
)

// WhisperCpp runs whisper.cpp in process through its Go bindings.
type WhisperCpp struct {
	logger    logger.Logger
	modelsDir string
	threads   uint
}

func newWhisperCpp(l logger.Logger, cfg config.WhisperConfig) (Recognizer, error) {
	if cfg.ModelsDir == "" {
		return nil, fmt.Errorf("whisper.cpp models_dir not configured")
	}
	return &WhisperCpp{logger: l, modelsDir: cfg.ModelsDir, threads: uint(cfg.Threads)}, nil
}

// modelPath accepts either a ggml file name or a bare size such as large-v3.
func (w *WhisperCpp) modelPath(model string) string {
	if strings.HasSuffix(model, ".bin") {
		return filepath.Join(w.modelsDir, model)
	}
	return filepath.Join(w.modelsDir, "ggml-"+model+".bin")
}

func (w *WhisperCpp) Recognize(ctx context.Context, audioPath string, opts Options) (transcript.SegmentSeq, Info, error) {
	wave, err := audio.LoadWaveform(audioPath)
	if err != nil {
		return nil, Info{}, err
	}
	if wave.SampleRate != whisper.SampleRate {
		return nil, Info{}, fmt.Errorf("whisper.cpp needs %d Hz audio, %s is %d Hz", whisper.SampleRate, audioPath, wave.SampleRate)
	}

	path := w.modelPath(opts.Model)
	w.logger.Info(ctx, "Loading whisper.cpp model %s", path)
	model, err := whisper.New(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("load whisper model: %w", err)
	}

	wctx, err := model.NewContext()
	if err != nil {
		model.Close()
		return nil, Info{}, fmt.Errorf("create whisper context: %w", err)
	}
	lang := languageOrAuto(opts.Language)
	if lang == "" {
		lang = "auto"
	}
	if err := wctx.SetLanguage(lang); err != nil {
		w.logger.Warn(ctx, "whisper.cpp: failed to set language %s: %v", lang, err)
	}
	if w.threads > 0 {
		wctx.SetThreads(w.threads)
	}
	if opts.BeamSize > 0 {
		wctx.SetBeamSize(opts.BeamSize)
	}

	runCtx, cancel := context.WithCancel(ctx)
	seq := &callbackSeq{
		segments: make(chan transcript.Segment),
		done:     make(chan struct{}),
		cancel:   cancel,
		model:    model,
	}

	go func() {
		defer close(seq.done)
		defer close(seq.segments)
		seq.err = wctx.Process(wave.Samples, continueWhile(runCtx), func(s whisper.Segment) {
			seg := transcript.Segment{Start: s.Start.Seconds(), End: s.End.Seconds(), Text: s.Text}
			select {
			case seq.segments <- seg:
			case <-runCtx.Done():
			}
		}, nil)
	}()

	return seq, Info{Duration: wave.Duration(), Language: lang}, nil
}

// callbackSeq adapts whisper.cpp's new-segment callback into a pull sequence.
type callbackSeq struct {
	segments chan transcript.Segment
	done     chan struct{}
	cancel   context.CancelFunc
	model    whisper.Model
	err      error
	once     sync.Once
}

func (s *callbackSeq) Next(ctx context.Context) (transcript.Segment, bool, error) {
	select {
	case <-ctx.Done():
		return transcript.Segment{}, false, ctx.Err()
	case seg, ok := <-s.segments:
		if !ok {
			<-s.done
			if s.err != nil {
				if err := ctx.Err(); err != nil {
					return transcript.Segment{}, false, err
				}
				return transcript.Segment{}, false, fmt.Errorf("whisper process: %w", s.err)
			}
			return transcript.Segment{}, false, nil
		}
		return seg, true, nil
	}
}

// Close waits for the in-flight Process call before freeing the model.
func (s *callbackSeq) Close() error {
	var err error
	s.once.Do(func() {
		s.cancel()
		<-s.done
		err = s.model.Close()
	})
	return err
}
