package internal

import (
	"fmt"
	"math"
	"strings"
)

// BuildChunks groups timed segments into contiguous chunks of roughly
// chunkDuration seconds each. Segments are folded into the running chunk
// until one starts at or past the chunk's end; a segment that straddles the
// nominal boundary widens the chunk instead of being split. Chunks whose
// accumulated text is empty are dropped, so silence gaps never produce
// empty chunks.
func BuildChunks(segments []Segment, chunkDuration int) ([]Chunk, error) {
	if chunkDuration <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkDuration, chunkDuration)
	}

	var chunks []Chunk
	current := Chunk{
		StartTime: 0,
		EndTime:   float64(chunkDuration),
	}

	for _, segment := range segments {
		if segment.Start >= current.EndTime {
			// Close the running chunk and open a new one at the bucket
			// containing this segment.
			if text := strings.TrimSpace(current.Text); text != "" {
				current.Text = text
				chunks = append(chunks, current)
			}

			start := math.Floor(segment.Start/float64(chunkDuration)) * float64(chunkDuration)
			current = Chunk{
				StartTime:    start,
				EndTime:      start + float64(chunkDuration),
				Text:         segment.Text,
				SegmentCount: 1,
			}
			continue
		}

		current.Text += " " + segment.Text
		current.SegmentCount++
		current.EndTime = math.Max(current.EndTime, segment.End)
	}

	if text := strings.TrimSpace(current.Text); text != "" {
		current.Text = text
		chunks = append(chunks, current)
	}

	return chunks, nil
}
