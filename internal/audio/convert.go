package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Convert transcodes input to mono PCM WAV at the configured sample rate.
func (p *implPreparer) Convert(ctx context.Context, input, output string) (string, error) {
	if _, err := os.Stat(input); err != nil {
		return "", fmt.Errorf("convert audio: %w", err)
	}
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".wav"
	}
	if filepath.Clean(output) == filepath.Clean(input) {
		return "", fmt.Errorf("convert audio: output would overwrite input %s", input)
	}

	p.logger.Info(ctx, "Converting to WAV: %s", input)

	// -vn drops any video stream, pcm_s16le keeps the file readable by the WAV decoder
	args := []string{
		"-i", input,
		"-vn",
		"-ar", strconv.Itoa(p.cfg.SampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		output,
	}

	if _, err := p.executor.Execute(ctx, p.cfg.Binary, args...); err != nil {
		return "", fmt.Errorf("ffmpeg convert audio: %w", err)
	}

	p.logger.Info(ctx, "Audio converted successfully: %s", output)
	return output, nil
}

// IsWAV reports whether path carries a .wav extension.
func IsWAV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}
