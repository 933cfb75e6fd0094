package audio

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// pcmFormat is the WAVE_FORMAT_PCM tag.
const pcmFormat = 1

var (
	// ErrInvalidRange is returned by Cut for start/end values outside the recording.
	ErrInvalidRange = errors.New("invalid audio range")
	// ErrUnsupportedFormat is returned for WAV files that are not integer PCM.
	ErrUnsupportedFormat = errors.New("unsupported wav format")
)

// Info describes a PCM WAV file.
type Info struct {
	Duration   float64
	SampleRate int
	Channels   int
	BitDepth   int
}

// Waveform is mono audio normalized to [-1, 1].
type Waveform struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the waveform length in seconds.
func (w Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Inspect reads the header of a PCM WAV file.
func Inspect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("inspect audio: %w", err)
	}
	defer f.Close()

	dec, err := openDecoder(f, path)
	if err != nil {
		return Info{}, err
	}
	dur, err := dec.Duration()
	if err != nil {
		return Info{}, fmt.Errorf("inspect audio %s: %w", path, err)
	}

	return Info{
		Duration:   dur.Seconds(),
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}, nil
}

// LoadWaveform decodes a PCM WAV file, averaging channels down to mono.
func LoadWaveform(path string) (Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return Waveform{}, fmt.Errorf("load waveform: %w", err)
	}
	defer f.Close()

	dec, err := openDecoder(f, path)
	if err != nil {
		return Waveform{}, err
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Waveform{}, fmt.Errorf("decode %s: %w", path, err)
	}

	channels := int(dec.NumChans)
	scale := float32(int64(1) << (dec.BitDepth - 1))
	// 8-bit PCM is unsigned around 128, wider depths are signed.
	offset := 0
	if dec.BitDepth == 8 {
		offset = 128
	}
	frames := len(buf.Data) / channels
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum int
		for c := 0; c < channels; c++ {
			sum += buf.Data[i*channels+c] - offset
		}
		samples[i] = float32(sum) / float32(channels) / scale
	}

	return Waveform{Samples: samples, SampleRate: int(dec.SampleRate)}, nil
}

func openDecoder(f *os.File, path string) (*wav.Decoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s is not a valid wav file", ErrUnsupportedFormat, path)
	}
	if dec.WavAudioFormat != pcmFormat {
		return nil, fmt.Errorf("%w: %s uses format %d, need PCM", ErrUnsupportedFormat, path, dec.WavAudioFormat)
	}
	if dec.NumChans == 0 || dec.SampleRate == 0 || dec.BitDepth == 0 {
		return nil, fmt.Errorf("%w: %s has an incomplete header", ErrUnsupportedFormat, path)
	}
	return dec, nil
}
