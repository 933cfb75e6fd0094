package recognizer

import (
	"strings"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/config"
)

// DefaultOptions mirrors the whisper section defaults.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default().Whisper)
}

// OptionsFromConfig builds run options from the whisper config section.
func OptionsFromConfig(cfg config.WhisperConfig) Options {
	return Options{
		Model:        cfg.Model,
		Language:     cfg.Language,
		Device:       cfg.Device,
		ComputeType:  cfg.ComputeType,
		BeamSize:     cfg.BeamSize,
		VAD:          cfg.VADEnabled(),
		MinSilenceMs: cfg.MinSilenceMs,
	}
}

// EffectiveComputeType returns the compute type the model is loaded with.
// Anything other than cuda or auto runs quantized to int8.
func EffectiveComputeType(device, computeType string) string {
	switch strings.ToLower(device) {
	case "cuda", "auto":
		return computeType
	default:
		return "int8"
	}
}

// languageOrAuto maps "" and "auto" to the empty string, which asks the
// backend to detect the language.
func languageOrAuto(lang string) string {
	if strings.EqualFold(lang, "auto") {
		return ""
	}
	return lang
}
