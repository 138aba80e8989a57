package internal

import (
	"fmt"
	"strings"
)

// SummaryType selects the style of summary requested from the model.
type SummaryType string

const (
	SummaryBrief         SummaryType = "brief"
	SummaryComprehensive SummaryType = "comprehensive"
	SummaryBulletPoints  SummaryType = "bullet_points"
)

// SummaryTypes lists every supported summary type.
var SummaryTypes = []SummaryType{SummaryBrief, SummaryComprehensive, SummaryBulletPoints}

// ParseSummaryType validates a summary type string from flags or config.
func ParseSummaryType(s string) (SummaryType, error) {
	st := SummaryType(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range SummaryTypes {
		if st == valid {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q (supported: %s)", ErrInvalidSummaryType, s, summaryTypeList())
}

func summaryTypeList() string {
	names := make([]string, len(SummaryTypes))
	for i, st := range SummaryTypes {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}

// Segment is a single timed span of recognized speech from Whisper.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Chunk aggregates consecutive segments into a fixed-duration time window.
// EndTime may exceed the nominal window end when a segment straddles the
// boundary; segments are never truncated.
type Chunk struct {
	StartTime    float64 `json:"start_time"`
	EndTime      float64 `json:"end_time"`
	Text         string  `json:"text"`
	SegmentCount int     `json:"segment_count"`
}

// Summary holds the result of a single summarization call.
type Summary struct {
	Text             string      `json:"summary"`
	BulletPoints     []string    `json:"bullet_points,omitempty"`
	KeyTopics        []string    `json:"key_topics,omitempty"`
	Model            string      `json:"model"`
	Type             SummaryType `json:"summary_type"`
	OriginalWords    int         `json:"original_length"`
	SummaryWords     int         `json:"summary_length"`
	CompressionRatio float64     `json:"compression_ratio"`
}

// ChunkSummary is the per-chunk summarization result. A failed chunk carries
// a placeholder text embedding the error instead of a model summary.
type ChunkSummary struct {
	ChunkID       int     `json:"chunk_id"`
	StartTime     float64 `json:"start_time"`
	EndTime       float64 `json:"end_time"`
	Summary       string  `json:"summary"`
	OriginalWords int     `json:"original_length"`
}

// ProcessingInfo records which summary types produced an aggregate result.
type ProcessingInfo struct {
	ChunkSummaryType SummaryType `json:"chunk_summary_type"`
	FinalSummaryType SummaryType `json:"final_summary_type"`
}

// AggregateResult is the whole-job output of chunked summarization: one
// ChunkSummary per input chunk plus the final summary over all of them.
type AggregateResult struct {
	ChunkSummaries []ChunkSummary `json:"chunk_summaries"`
	FinalSummary   *Summary       `json:"final_summary"`
	TotalChunks    int            `json:"total_chunks"`
	ProcessingInfo ProcessingInfo `json:"processing_info"`
}

// Transcription is the full output of one transcription pass.
type Transcription struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Duration float64   `json:"duration,omitempty"`
	Segments []Segment `json:"segments"`
}

// ChunkedTranscription couples a transcription with its summarization chunks.
type ChunkedTranscription struct {
	Transcription *Transcription `json:"full_transcription"`
	Chunks        []Chunk        `json:"chunks"`
	ChunkDuration int            `json:"chunk_duration"`
	TotalChunks   int            `json:"total_chunks"`
}
