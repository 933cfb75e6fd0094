package config

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

type Config struct {
	Whisper     WhisperConfig     `yaml:"whisper"`
	Diarization DiarizationConfig `yaml:"diarization"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
}

type WhisperConfig struct {
	Backend      string `yaml:"backend"`
	Model        string `yaml:"model"`
	Language     string `yaml:"language"`
	Device       string `yaml:"device"`
	ComputeType  string `yaml:"compute_type"`
	BeamSize     int    `yaml:"beam_size"`
	VAD          *bool  `yaml:"vad"`
	MinSilenceMs int    `yaml:"min_silence_ms"`
	Python       string `yaml:"python"`
	ModelsDir    string `yaml:"models_dir"`
	Threads      int    `yaml:"threads"`
}

type DiarizationConfig struct {
	Enabled     bool   `yaml:"enabled"`
	MinSpeakers int    `yaml:"min_speakers"`
	MaxSpeakers int    `yaml:"max_speakers"`
	Pipeline    string `yaml:"pipeline"`
	Device      string `yaml:"device"`
	HFToken     string `yaml:"-"`
}

type FFmpegConfig struct {
	Binary     string `yaml:"binary"`
	SampleRate int    `yaml:"sample_rate"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
	MaxModelJobs  int `yaml:"max_model_jobs"`
}

type GeminiConfig struct {
	Model       string   `yaml:"model"`
	Temperature float32  `yaml:"temperature"`
	APIKeys     []string `yaml:"-"`
}

type OpenAIConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"-"`
}

// Backends understood by whisper.backend.
var Backends = []string{"fasterwhisper", "whispercpp", "openai"}

// Devices understood by whisper.device.
var Devices = []string{"auto", "cpu", "cuda"}

// Default returns a configuration with every default filled in.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Validate checks the configuration and fills defaults for optional fields.
func (c *Config) Validate() error {
	c.applyDefaults()

	if !lo.Contains(Backends, c.Whisper.Backend) {
		return fmt.Errorf("whisper.backend must be one of %s", strings.Join(Backends, ", "))
	}
	if !lo.Contains(Devices, c.Whisper.Device) {
		return fmt.Errorf("whisper.device must be one of %s", strings.Join(Devices, ", "))
	}
	if c.Whisper.BeamSize < 1 {
		return fmt.Errorf("whisper.beam_size must be positive")
	}
	if c.Whisper.MinSilenceMs < 0 {
		return fmt.Errorf("whisper.min_silence_ms must not be negative")
	}
	if c.Diarization.MinSpeakers < 0 || c.Diarization.MaxSpeakers < 0 {
		return fmt.Errorf("diarization speaker hints must not be negative")
	}
	if c.Diarization.MaxSpeakers > 0 && c.Diarization.MinSpeakers > c.Diarization.MaxSpeakers {
		return fmt.Errorf("diarization.min_speakers (%d) exceeds max_speakers (%d)",
			c.Diarization.MinSpeakers, c.Diarization.MaxSpeakers)
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		return fmt.Errorf("gemini.temperature must be within [0, 2]")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Whisper.Backend == "" {
		c.Whisper.Backend = "fasterwhisper"
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = "large-v3"
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "sk"
	}
	if c.Whisper.Device == "" {
		c.Whisper.Device = "auto"
	}
	if c.Whisper.ComputeType == "" {
		c.Whisper.ComputeType = "float16"
	}
	if c.Whisper.BeamSize == 0 {
		c.Whisper.BeamSize = 5
	}
	if c.Whisper.VAD == nil {
		c.Whisper.VAD = lo.ToPtr(true)
	}
	if c.Whisper.MinSilenceMs == 0 {
		c.Whisper.MinSilenceMs = 500
	}
	if c.Whisper.Python == "" {
		c.Whisper.Python = "python3"
	}
	if c.Whisper.ModelsDir == "" {
		c.Whisper.ModelsDir = "models"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.Diarization.Pipeline == "" {
		c.Diarization.Pipeline = "pyannote/speaker-diarization-3.1"
	}
	if c.Diarization.Device == "" {
		c.Diarization.Device = "cuda"
	}
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = "ffmpeg"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "output"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Performance.MaxModelJobs == 0 {
		c.Performance.MaxModelJobs = 1
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash-exp"
	}
	if c.Gemini.Temperature == 0 {
		c.Gemini.Temperature = 0.3
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "whisper-1"
	}
}

// VADEnabled reports whether voice activity detection is on.
func (w WhisperConfig) VADEnabled() bool {
	return w.VAD == nil || *w.VAD
}
