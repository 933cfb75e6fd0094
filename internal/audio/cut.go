package audio

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/timespan"
)

// Cut writes the [start, end] range of a PCM WAV file to output.
func (p *implPreparer) Cut(ctx context.Context, input, output, start, end string) (string, error) {
	out, err := CutWAV(input, output, start, end)
	if err != nil {
		return "", err
	}
	p.logger.Info(ctx, "Cut audio segment start=%s end=%s: %s", orDefault(start, "0:00"), orDefault(end, "end"), out)
	return out, nil
}

// CutWAV is Cut without logging.
func CutWAV(input, output, start, end string) (string, error) {
	in, err := os.Open(input)
	if err != nil {
		return "", fmt.Errorf("cut audio: %w", err)
	}
	defer in.Close()

	dec, err := openDecoder(in, input)
	if err != nil {
		return "", err
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", input, err)
	}

	rate := float64(dec.SampleRate)
	channels := int(dec.NumChans)
	frames := len(buf.Data) / channels
	duration := float64(frames) / rate

	startSec, endSec, err := resolveRange(start, end, duration)
	if err != nil {
		return "", err
	}

	first := int(math.Round(startSec * rate))
	last := min(int(math.Round(endSec*rate)), frames)

	if output == "" {
		output = CutName(input, startSec, endSec)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	out, err := os.Create(output)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", output, err)
	}

	enc := wav.NewEncoder(out, int(dec.SampleRate), int(dec.BitDepth), channels, pcmFormat)
	clip := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: int(dec.SampleRate)},
		Data:           buf.Data[first*channels : last*channels],
		SourceBitDepth: int(dec.BitDepth),
	}
	if err := enc.Write(clip); err != nil {
		out.Close()
		return "", fmt.Errorf("encode %s: %w", output, err)
	}
	if err := enc.Close(); err != nil {
		out.Close()
		return "", fmt.Errorf("finalize %s: %w", output, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", output, err)
	}

	return output, nil
}

// CutName is the default output path for a cut: <stem>_cut_<start>-<end>.wav
// next to the input, with whole seconds.
func CutName(input string, startSec, endSec float64) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(filepath.Dir(input), fmt.Sprintf("%s_cut_%d-%d.wav", stem, int(startSec), int(endSec)))
}

// resolveRange validates start/end against the recording and clamps end.
func resolveRange(start, end string, duration float64) (float64, float64, error) {
	startSec := 0.0
	if start != "" {
		v, err := timespan.Parse(start)
		if err != nil {
			return 0, 0, fmt.Errorf("start: %w", err)
		}
		startSec = v
	}

	endSec := duration
	if end != "" {
		v, err := timespan.Parse(end)
		if err != nil {
			return 0, 0, fmt.Errorf("end: %w", err)
		}
		endSec = v
	}

	if math.IsNaN(startSec) || math.IsNaN(endSec) || math.IsInf(startSec, 0) {
		return 0, 0, fmt.Errorf("%w: start=%gs end=%gs", ErrInvalidRange, startSec, endSec)
	}
	if startSec < 0 || endSec <= startSec {
		return 0, 0, fmt.Errorf("%w: start=%gs end=%gs", ErrInvalidRange, startSec, endSec)
	}
	if startSec >= duration {
		return 0, 0, fmt.Errorf("%w: start %gs is beyond file duration %gs", ErrInvalidRange, startSec, duration)
	}

	return startSec, math.Min(endSec, duration), nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
