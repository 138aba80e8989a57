package internal

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
	"time"
)

// Transcriber produces timed transcripts from audio files using OpenAI's
// Whisper API. Files over the API size limit are split with ffmpeg and the
// parts transcribed in order, with segment timestamps shifted back to the
// position of each part in the source file.
type Transcriber struct {
	client       OpenAIClientInterface
	audio        *Audio
	whisperLimit int64
	timeout      time.Duration
	verbose      bool
	apiKey       string
	clientOnce   sync.Once
}

// NewTranscriber creates a transcriber with an explicit client.
func NewTranscriber(client OpenAIClientInterface, audio *Audio, whisperLimit int64, timeout time.Duration, verbose bool) *Transcriber {
	return &Transcriber{
		client:       client,
		audio:        audio,
		whisperLimit: whisperLimit,
		timeout:      timeout,
		verbose:      verbose,
	}
}

// NewTranscriberWithKey creates a transcriber with lazy client initialization
func NewTranscriberWithKey(apiKey string, audio *Audio, whisperLimit int64, timeout time.Duration, verbose bool) *Transcriber {
	return &Transcriber{
		audio:        audio,
		whisperLimit: whisperLimit,
		timeout:      timeout,
		verbose:      verbose,
		apiKey:       apiKey,
	}
}

func (t *Transcriber) ensureClient() error {
	if t.client != nil {
		return nil
	}

	if t.apiKey == "" {
		return ValidateOpenAIAPIKey("")
	}

	t.clientOnce.Do(func() {
		t.client = NewOpenAIClient(t.apiKey)
	})

	return nil
}

// Transcribe transcribes an audio file and returns the full transcription
// with timed segments.
func (t *Transcriber) Transcribe(ctx context.Context, audioFile string) (*Transcription, error) {
	if err := t.ensureClient(); err != nil {
		return nil, err
	}

	if t.verbose {
		fmt.Printf("Transcribing audio file: %s\n", audioFile)
	}

	info, err := os.Stat(audioFile)
	if err != nil {
		return nil, fmt.Errorf("getting audio file info: %w", err)
	}

	numParts := int(math.Ceil(float64(info.Size()) / float64(t.whisperLimit)))

	var parts []AudioPart
	if numParts > 1 {
		parts, err = t.audio.Split(ctx, audioFile, numParts)
		if err != nil {
			return nil, fmt.Errorf("splitting audio: %w", err)
		}
		defer func() {
			for _, part := range parts {
				cleanupFiles(part.Path)
			}
		}()
	} else {
		parts = []AudioPart{{Path: audioFile}}
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	result, err := t.processParts(ctx, parts)
	if err != nil {
		return nil, fmt.Errorf("transcribing audio: %w", err)
	}
	return result, nil
}

// processParts transcribes audio parts sequentially and merges the results.
// Sequential on purpose: parallel Whisper calls returned corrupted
// transcripts for some chunks.
func (t *Transcriber) processParts(ctx context.Context, parts []AudioPart) (*Transcription, error) {
	if t.verbose {
		fmt.Printf("Transcribing parts (%d)\n", len(parts))
	}

	merged := &Transcription{}
	var sb strings.Builder

	for i, part := range parts {
		file, err := os.Open(part.Path)
		if err != nil {
			return nil, fmt.Errorf("opening part %s: %w", part.Path, err)
		}

		result, err := t.client.CreateTranscription(ctx, file)
		if closeErr := file.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close file %s: %v\n", part.Path, closeErr)
		}
		if err != nil {
			return nil, fmt.Errorf("transcribing part %d: %w", i+1, err)
		}

		sb.WriteString(strings.TrimSpace(result.Text))
		if i < len(parts)-1 {
			sb.WriteString("\n")
		}

		if merged.Language == "" {
			merged.Language = result.Language
		}
		for _, segment := range result.Segments {
			merged.Segments = append(merged.Segments, Segment{
				ID:    len(merged.Segments),
				Start: segment.Start + part.Offset,
				End:   segment.End + part.Offset,
				Text:  strings.TrimSpace(segment.Text),
			})
		}
		merged.Duration += result.Duration

		if t.verbose {
			fmt.Printf("Transcribed part %d/%d\n", i+1, len(parts))
		}
	}

	merged.Text = sb.String()
	return merged, nil
}

// TranscribeWithChunks transcribes an audio file and buckets the segments
// into chunkDuration-second chunks for summarization.
func (t *Transcriber) TranscribeWithChunks(ctx context.Context, audioFile string, chunkDuration int) (*ChunkedTranscription, error) {
	result, err := t.Transcribe(ctx, audioFile)
	if err != nil {
		return nil, err
	}

	chunks, err := BuildChunks(result.Segments, chunkDuration)
	if err != nil {
		return nil, err
	}

	return &ChunkedTranscription{
		Transcription: result,
		Chunks:        chunks,
		ChunkDuration: chunkDuration,
		TotalChunks:   len(chunks),
	}, nil
}
