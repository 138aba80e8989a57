package internal

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// Audio handles audio file operations using FFmpeg
type Audio struct {
	cmdRunner CommandRunner
	tempDir   string
	verbose   bool
}

// AudioPart is one piece of a split audio file. Offset is the part's start
// position in the source file, used to shift segment timestamps back to
// global time after transcription.
type AudioPart struct {
	Path   string
	Offset float64
}

// NewAudio creates a new audio processor
func NewAudio(cmdRunner CommandRunner, tempDir string, verbose bool) *Audio {
	return &Audio{
		cmdRunner: cmdRunner,
		tempDir:   tempDir,
		verbose:   verbose,
	}
}

// Duration returns the audio file duration in seconds
func (a *Audio) Duration(ctx context.Context, audioFile string) (float64, error) {
	output, err := a.cmdRunner.Run(ctx, "ffprobe",
		"-i", audioFile,
		"-show_entries", "format=duration",
		"-v", "quiet",
		"-of", "csv=p=0")

	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w\nOutput: %s", err, string(output))
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing duration: %w", err)
	}

	return duration, nil
}

// Split divides an audio file into numParts pieces of equal duration
func (a *Audio) Split(ctx context.Context, audioFile string, numParts int) ([]AudioPart, error) {
	if err := EnsureDirs(a.tempDir); err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}

	duration, err := a.Duration(ctx, audioFile)
	if err != nil {
		return nil, fmt.Errorf("getting audio duration: %w", err)
	}

	partDuration := int(math.Ceil(duration / float64(numParts)))
	parts := make([]AudioPart, 0, numParts)

	for i := range numParts {
		start := i * partDuration
		output := filepath.Join(a.tempDir, fmt.Sprintf("%s_part_%d.mp3", filepath.Base(audioFile), i))

		if err := a.Extract(ctx, audioFile, start, partDuration, output); err != nil {
			for _, part := range parts {
				cleanupFiles(part.Path)
			}
			return nil, fmt.Errorf("creating part %d: %w", i, err)
		}
		parts = append(parts, AudioPart{Path: output, Offset: float64(start)})
	}

	return parts, nil
}

// Extract copies a time range from an audio file without re-encoding
func (a *Audio) Extract(ctx context.Context, audioFile string, start, duration int, output string) error {
	cmdOutput, err := a.cmdRunner.Run(ctx, "ffmpeg",
		"-v", "quiet",
		"-i", audioFile,
		"-ss", strconv.Itoa(start),
		"-t", strconv.Itoa(duration),
		"-c:a", "copy",
		"-y", output)

	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w\nOutput: %s", err, string(cmdOutput))
	}
	return nil
}
