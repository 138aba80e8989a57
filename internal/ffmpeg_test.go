package internal

import (
	"context"
	"errors"
	"testing"
)

// fakeCommandRunner records invocations and returns scripted output.
type fakeCommandRunner struct {
	output map[string]string
	err    error
	calls  [][]string
}

func (f *fakeCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.output[name]), nil
}

func TestAudioDuration(t *testing.T) {
	runner := &fakeCommandRunner{output: map[string]string{"ffprobe": "1845.32\n"}}
	audio := NewAudio(runner, t.TempDir(), false)

	duration, err := audio.Duration(context.Background(), "episode.mp3")
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if duration != 1845.32 {
		t.Errorf("duration = %v", duration)
	}

	if len(runner.calls) != 1 || runner.calls[0][0] != "ffprobe" {
		t.Errorf("expected one ffprobe invocation, got %v", runner.calls)
	}
}

func TestAudioDurationParseError(t *testing.T) {
	runner := &fakeCommandRunner{output: map[string]string{"ffprobe": "N/A"}}
	audio := NewAudio(runner, t.TempDir(), false)

	if _, err := audio.Duration(context.Background(), "episode.mp3"); err == nil {
		t.Fatal("expected parse error for non-numeric duration")
	}
}

func TestAudioSplitOffsets(t *testing.T) {
	runner := &fakeCommandRunner{output: map[string]string{"ffprobe": "900"}}
	audio := NewAudio(runner, t.TempDir(), false)

	parts, err := audio.Split(context.Background(), "episode.mp3", 3)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	for i, wantOffset := range []float64{0, 300, 600} {
		if parts[i].Offset != wantOffset {
			t.Errorf("part %d offset = %v, want %v", i, parts[i].Offset, wantOffset)
		}
	}

	// One ffprobe call plus one ffmpeg call per part.
	if len(runner.calls) != 4 {
		t.Errorf("expected 4 commands, got %d", len(runner.calls))
	}
}

func TestAudioSplitCommandFailure(t *testing.T) {
	runner := &fakeCommandRunner{err: errors.New("ffprobe not installed")}
	audio := NewAudio(runner, t.TempDir(), false)

	if _, err := audio.Split(context.Background(), "episode.mp3", 2); err == nil {
		t.Fatal("expected error when ffprobe fails")
	}
}
