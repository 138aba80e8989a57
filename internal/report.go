package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Report bundles everything a processed episode produced.
type Report struct {
	Metadata      *EpisodeMetadata      `json:"metadata,omitempty"`
	Transcription *ChunkedTranscription `json:"transcription"`
	Result        *AggregateResult      `json:"result"`
	GeneratedAt   time.Time             `json:"generated_at"`
}

// BuildMarkdownReport renders a report as a markdown document with an
// overview, per-segment summaries, and statistics.
func BuildMarkdownReport(report *Report) string {
	var sb strings.Builder

	title := "Podcast Episode"
	if report.Metadata != nil && report.Metadata.Title != "" && report.Metadata.Title != unknownField {
		title = report.Metadata.Title
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))

	if report.Metadata != nil {
		if report.Metadata.ShowName != "" && report.Metadata.ShowName != unknownField {
			sb.WriteString(fmt.Sprintf("**Show:** %s\n\n", report.Metadata.ShowName))
		}
		if report.Metadata.Duration != "" && report.Metadata.Duration != unknownField {
			sb.WriteString(fmt.Sprintf("**Duration:** %s\n\n", report.Metadata.Duration))
		}
		if report.Metadata.ReleaseDate != "" && report.Metadata.ReleaseDate != unknownField {
			sb.WriteString(fmt.Sprintf("**Released:** %s\n\n", report.Metadata.ReleaseDate))
		}
	}

	final := report.Result.FinalSummary
	sb.WriteString("## Overview\n\n")
	if len(final.BulletPoints) > 0 {
		for _, point := range final.BulletPoints {
			sb.WriteString(fmt.Sprintf("- %s\n", point))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString(final.Text + "\n\n")
	}

	if len(final.KeyTopics) > 0 {
		sb.WriteString("## Key Topics\n\n")
		for _, topic := range final.KeyTopics {
			sb.WriteString(fmt.Sprintf("- %s\n", topic))
		}
		sb.WriteString("\n")
	}

	if len(report.Result.ChunkSummaries) > 1 {
		sb.WriteString("## Segments\n\n")
		for _, cs := range report.Result.ChunkSummaries {
			sb.WriteString(fmt.Sprintf("### %s - %s\n\n", FormatTimestamp(cs.StartTime), FormatTimestamp(cs.EndTime)))
			sb.WriteString(cs.Summary + "\n\n")
		}
	}

	sb.WriteString("## Statistics\n\n")
	sb.WriteString(fmt.Sprintf("- Model: %s\n", final.Model))
	sb.WriteString(fmt.Sprintf("- Summary type: %s\n", final.Type))
	sb.WriteString(fmt.Sprintf("- Segments summarized: %d\n", report.Result.TotalChunks))
	if report.Transcription != nil && report.Transcription.Transcription != nil {
		sb.WriteString(fmt.Sprintf("- Transcript words: %d\n", WordCount(report.Transcription.Transcription.Text)))
	}
	sb.WriteString(fmt.Sprintf("- Summary words: %d\n", final.SummaryWords))
	if final.CompressionRatio > 0 {
		sb.WriteString(fmt.Sprintf("- Compression ratio: %.2f\n", final.CompressionRatio))
	}
	sb.WriteString(fmt.Sprintf("\n*Generated %s*\n", report.GeneratedAt.Format("2006-01-02 15:04")))

	return sb.String()
}

// SaveMarkdownReport writes the markdown report next to the transcripts.
// The saved file also carries the full timestamped transcript, which the
// terminal rendering leaves out.
func SaveMarkdownReport(report *Report, slug, dir string) (string, error) {
	if err := EnsureDirs(dir); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	md := BuildMarkdownReport(report)
	if report.Transcription != nil && report.Transcription.Transcription != nil && len(report.Transcription.Transcription.Segments) > 0 {
		md += "\n## Transcript\n\n```\n" + FormatTranscriptText(report.Transcription.Transcription) + "```\n"
	}
	path := filepath.Join(dir, slug+"_summary.md")
	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		return "", fmt.Errorf("saving markdown report: %w", err)
	}
	return path, nil
}

// SaveJSONReport writes the full report as indented JSON.
func SaveJSONReport(report *Report, slug, dir string) (string, error) {
	if err := EnsureDirs(dir); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	path := filepath.Join(dir, slug+"_summary.json")
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("saving JSON report: %w", err)
	}
	return path, nil
}

// FormatTranscriptText renders a transcription as plain timestamped text.
func FormatTranscriptText(t *Transcription) string {
	var sb strings.Builder
	for _, seg := range t.Segments {
		sb.WriteString(fmt.Sprintf("[%s] %s\n", FormatTimestamp(seg.Start), strings.TrimSpace(seg.Text)))
	}
	if len(t.Segments) == 0 {
		sb.WriteString(t.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}
