package internal

import (
	"os"
	"strings"
	"testing"
	"time"
)

func sampleReport() *Report {
	return &Report{
		Metadata: &EpisodeMetadata{
			Title:       "The Future of AI",
			ShowName:    "Tech Talks",
			Duration:    "PT58M",
			ReleaseDate: "2026-03-14",
		},
		Transcription: &ChunkedTranscription{
			Transcription: &Transcription{
				Text: strings.TrimSpace(strings.Repeat("word ", 500)),
			},
			ChunkDuration: 300,
			TotalChunks:   2,
		},
		Result: &AggregateResult{
			ChunkSummaries: []ChunkSummary{
				{ChunkID: 0, StartTime: 0, EndTime: 300, Summary: "Intro and framing."},
				{ChunkID: 1, StartTime: 300, EndTime: 620, Summary: "Main discussion."},
			},
			FinalSummary: &Summary{
				Text:             "An episode about AI.",
				KeyTopics:        []string{"AI safety", "Model scaling"},
				Model:            "gpt-4o-mini",
				Type:             SummaryComprehensive,
				OriginalWords:    500,
				SummaryWords:     4,
				CompressionRatio: 125,
			},
			TotalChunks: 2,
			ProcessingInfo: ProcessingInfo{
				ChunkSummaryType: SummaryBrief,
				FinalSummaryType: SummaryComprehensive,
			},
		},
		GeneratedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestBuildMarkdownReport(t *testing.T) {
	md := BuildMarkdownReport(sampleReport())

	for _, want := range []string{
		"# The Future of AI",
		"**Show:** Tech Talks",
		"## Overview",
		"An episode about AI.",
		"## Key Topics",
		"- AI safety",
		"## Segments",
		"### 00:00 - 05:00",
		"Intro and framing.",
		"### 05:00 - 10:20",
		"Main discussion.",
		"## Statistics",
		"- Model: gpt-4o-mini",
		"- Segments summarized: 2",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
}

func TestBuildMarkdownReportBulletOverview(t *testing.T) {
	report := sampleReport()
	report.Result.FinalSummary.Type = SummaryBulletPoints
	report.Result.FinalSummary.BulletPoints = []string{"Point one", "Point two"}

	md := BuildMarkdownReport(report)
	if !strings.Contains(md, "- Point one") || !strings.Contains(md, "- Point two") {
		t.Errorf("expected bullet overview, got:\n%s", md)
	}
}

func TestBuildMarkdownReportWithoutMetadata(t *testing.T) {
	report := sampleReport()
	report.Metadata = nil

	md := BuildMarkdownReport(report)
	if !strings.Contains(md, "# Podcast Episode") {
		t.Errorf("expected fallback title, got:\n%s", md)
	}
	if strings.Contains(md, "**Show:**") {
		t.Error("show line should be omitted without metadata")
	}
}

func TestBuildMarkdownReportSingleChunkSkipsSegments(t *testing.T) {
	report := sampleReport()
	report.Result.ChunkSummaries = report.Result.ChunkSummaries[:1]
	report.Result.TotalChunks = 1

	md := BuildMarkdownReport(report)
	if strings.Contains(md, "## Segments") {
		t.Error("single-chunk report should not have a segments section")
	}
}

func TestSaveReports(t *testing.T) {
	dir := t.TempDir()
	report := sampleReport()

	report.Transcription.Transcription.Segments = []Segment{
		{ID: 0, Start: 0, End: 5, Text: "Welcome to the show."},
	}

	mdPath, err := SaveMarkdownReport(report, "the_future_of_ai", dir)
	if err != nil {
		t.Fatalf("SaveMarkdownReport: %v", err)
	}
	data, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("reading saved report: %v", err)
	}
	if !strings.Contains(string(data), "# The Future of AI") {
		t.Error("saved markdown missing title")
	}
	if !strings.Contains(string(data), "## Transcript") || !strings.Contains(string(data), "[00:00] Welcome to the show.") {
		t.Error("saved markdown missing transcript appendix")
	}

	jsonPath, err := SaveJSONReport(report, "the_future_of_ai", dir)
	if err != nil {
		t.Fatalf("SaveJSONReport: %v", err)
	}
	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("reading saved JSON: %v", err)
	}
	if !strings.Contains(string(jsonData), `"final_summary"`) {
		t.Error("saved JSON missing final summary")
	}
}

func TestFormatTranscriptText(t *testing.T) {
	transcription := &Transcription{
		Segments: []Segment{
			{ID: 0, Start: 0, End: 4, Text: " Hello there. "},
			{ID: 1, Start: 65, End: 70, Text: "Still talking."},
		},
	}

	text := FormatTranscriptText(transcription)
	want := "[00:00] Hello there.\n[01:05] Still talking.\n"
	if text != want {
		t.Errorf("expected %q, got %q", want, text)
	}
}

func TestFormatTranscriptTextNoSegments(t *testing.T) {
	transcription := &Transcription{Text: "plain transcript"}
	if got := FormatTranscriptText(transcription); got != "plain transcript\n" {
		t.Errorf("expected plain text fallback, got %q", got)
	}
}

func TestFormatSRT(t *testing.T) {
	transcription := &Transcription{
		Segments: []Segment{
			{ID: 0, Start: 0, End: 2.5, Text: "Hello there."},
			{ID: 1, Start: 3661.25, End: 3663, Text: "An hour in."},
		},
	}

	srt := FormatSRT(transcription)
	want := "1\n00:00:00,000 --> 00:00:02,500\nHello there.\n\n" +
		"2\n01:01:01,250 --> 01:01:03,000\nAn hour in.\n\n"
	if srt != want {
		t.Errorf("expected:\n%q\ngot:\n%q", want, srt)
	}
}
