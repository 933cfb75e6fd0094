package diarizer

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/audio"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/config"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/logger"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/transcript"
	"github.com/nguyentantai21042004/cant-be-bothered/pkg/executor"
)

type fakeProcess struct {
	stdout  io.Reader
	waitErr error
}

func (p *fakeProcess) Stdout() io.Reader { return p.stdout }
func (p *fakeProcess) Wait() error       { return p.waitErr }

type fakeExecutor struct {
	stdout  string
	waitErr error
	stdin   []byte
	args    []string
	started bool
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return "", errors.New("not supported")
}

func (f *fakeExecutor) Start(ctx context.Context, stdin io.Reader, name string, args ...string) (executor.Process, error) {
	f.started = true
	f.args = args
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, err
	}
	f.stdin = data
	return &fakeProcess{stdout: strings.NewReader(f.stdout), waitErr: f.waitErr}, nil
}

func quietLogger() logger.Logger {
	return logger.NewWithOptions(logger.Options{Level: "error", Writer: io.Discard})
}

func newDiarizer(exec executor.Executor) *Pyannote {
	cfg := config.Default().Diarization
	cfg.HFToken = "hf_test"
	return New(quietLogger(), exec, "", cfg)
}

func TestDiarize(t *testing.T) {
	exec := &fakeExecutor{stdout: `[{"start":0.5,"end":3.2,"speaker":"SPEAKER_00"},{"start":3.0,"end":7.9,"speaker":"SPEAKER_01"}]`}
	wave := audio.Waveform{Samples: []float32{0, 0.5, -0.25, 1}, SampleRate: 16000}

	got, err := newDiarizer(exec).Diarize(context.Background(), wave, Options{MinSpeakers: 1, MaxSpeakers: 2})
	if err != nil {
		t.Fatalf("Diarize() error = %v", err)
	}
	want := []transcript.SpeakerInterval{
		{Start: 0.5, End: 3.2, Speaker: "SPEAKER_00"},
		{Start: 3.0, End: 7.9, Speaker: "SPEAKER_01"},
	}
	if len(got) != len(want) {
		t.Fatalf("Diarize() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("interval[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	decoded := make([]float32, len(wave.Samples))
	if err := binary.Read(bytes.NewReader(exec.stdin), binary.LittleEndian, decoded); err != nil {
		t.Fatalf("decode stdin: %v", err)
	}
	for i := range decoded {
		if decoded[i] != wave.Samples[i] {
			t.Errorf("stdin sample %d = %v, want %v", i, decoded[i], wave.Samples[i])
		}
	}

	joined := strings.Join(exec.args[2:], " ")
	for _, part := range []string{"--sample-rate 16000", "--min-speakers 1", "--max-speakers 2", "--pipeline pyannote/speaker-diarization-3.1", "--device cuda"} {
		if !strings.Contains(joined, part) {
			t.Errorf("args %q missing %q", joined, part)
		}
	}
}

func TestDiarizeErrors(t *testing.T) {
	wave := audio.Waveform{Samples: []float32{0}, SampleRate: 16000}

	tests := []struct {
		name      string
		exec      *fakeExecutor
		opts      Options
		wantStart bool
	}{
		{"helper fails", &fakeExecutor{waitErr: errors.New("401 gated repo")}, Options{}, true},
		{"bad json", &fakeExecutor{stdout: "Downloading..."}, Options{}, true},
		{"min above max", &fakeExecutor{}, Options{MinSpeakers: 3, MaxSpeakers: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newDiarizer(tt.exec).Diarize(context.Background(), wave, tt.opts); err == nil {
				t.Error("Diarize() should fail")
			}
			if tt.exec.started != tt.wantStart {
				t.Errorf("helper started = %v, want %v", tt.exec.started, tt.wantStart)
			}
		})
	}
}

func TestWriteSamplesSpansChunks(t *testing.T) {
	samples := make([]float32, chunkSamples*2+3)
	for i := range samples {
		samples[i] = float32(i%7) / 7
	}
	var buf bytes.Buffer
	if err := writeSamples(&buf, samples); err != nil {
		t.Fatalf("writeSamples() error = %v", err)
	}
	if buf.Len() != len(samples)*4 {
		t.Errorf("encoded %d bytes, want %d", buf.Len(), len(samples)*4)
	}
}
