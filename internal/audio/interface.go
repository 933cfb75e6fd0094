package audio

import "context"

// Preparer readies source recordings for recognition.
type Preparer interface {
	// Convert transcodes any ffmpeg-readable input to mono 16-bit PCM WAV.
	// An empty output writes next to the input with a .wav extension.
	Convert(ctx context.Context, input, output string) (string, error)
	// Cut copies the [start, end] range of a PCM WAV file into output.
	// Empty start means the beginning, empty end means the end of the file.
	Cut(ctx context.Context, input, output, start, end string) (string, error)
}
