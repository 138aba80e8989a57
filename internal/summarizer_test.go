package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"
)

// stubOpenAIClient lets tests script the model responses.
type stubOpenAIClient struct {
	completions func(model, prompt string) (string, error)
	calls       int
}

func (s *stubOpenAIClient) CreateTranscription(ctx context.Context, file *os.File) (*Transcription, error) {
	return nil, errors.New("transcription not supported by stub")
}

func (s *stubOpenAIClient) CreateChatCompletion(ctx context.Context, model, prompt string) (string, error) {
	s.calls++
	return s.completions(model, prompt)
}

func newTestSummarizer(client OpenAIClientInterface) *Summarizer {
	return NewSummarizer(client, "gpt-4o-mini", time.Minute, false, NewUIManager(false, true))
}

// longText produces text with the requested word count.
func longText(words int) string {
	return strings.TrimSpace(strings.Repeat("word ", words))
}

func testChunks(n int) []Chunk {
	chunks := make([]Chunk, n)
	for i := range chunks {
		chunks[i] = Chunk{
			StartTime:    float64(i * 300),
			EndTime:      float64((i + 1) * 300),
			Text:         longText(80),
			SegmentCount: 4,
		}
	}
	return chunks
}

func TestSummarizeRejectsShortText(t *testing.T) {
	s := newTestSummarizer(&stubOpenAIClient{})

	_, err := s.Summarize(context.Background(), "too short", SummaryBrief, 0)
	if !errors.Is(err, ErrTextTooShort) {
		t.Fatalf("expected ErrTextTooShort, got %v", err)
	}
}

func TestSummarizeRejectsInvalidType(t *testing.T) {
	s := newTestSummarizer(&stubOpenAIClient{})

	_, err := s.Summarize(context.Background(), longText(60), SummaryType("haiku"), 0)
	if !errors.Is(err, ErrInvalidSummaryType) {
		t.Fatalf("expected ErrInvalidSummaryType, got %v", err)
	}
}

func TestSummarizeComputesStatistics(t *testing.T) {
	client := &stubOpenAIClient{
		completions: func(model, prompt string) (string, error) {
			return "a short summary of the episode", nil
		},
	}
	s := newTestSummarizer(client)

	summary, err := s.Summarize(context.Background(), longText(120), SummaryBrief, 0)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if summary.OriginalWords != 120 {
		t.Errorf("expected 120 original words, got %d", summary.OriginalWords)
	}
	if summary.SummaryWords != 6 {
		t.Errorf("expected 6 summary words, got %d", summary.SummaryWords)
	}
	if summary.CompressionRatio != 20 {
		t.Errorf("expected compression ratio 20, got %v", summary.CompressionRatio)
	}
	if summary.Model != "gpt-4o-mini" || summary.Type != SummaryBrief {
		t.Errorf("unexpected summary attribution: %+v", summary)
	}
}

func TestSummarizeExtractsBulletPoints(t *testing.T) {
	client := &stubOpenAIClient{
		completions: func(model, prompt string) (string, error) {
			return "• First point\n- Second point\n1. Third point\nnot a bullet", nil
		},
	}
	s := newTestSummarizer(client)

	summary, err := s.Summarize(context.Background(), longText(60), SummaryBulletPoints, 0)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	want := []string{"First point", "Second point", "Third point"}
	if len(summary.BulletPoints) != len(want) {
		t.Fatalf("expected %d bullet points, got %d: %v", len(want), len(summary.BulletPoints), summary.BulletPoints)
	}
	for i, point := range want {
		if summary.BulletPoints[i] != point {
			t.Errorf("bullet %d: expected %q, got %q", i, point, summary.BulletPoints[i])
		}
	}
}

func TestSummarizeChunksIsolatesFailures(t *testing.T) {
	// Chunk summaries are numbered calls 1..5; the final aggregation is the
	// sixth call. Call 2 fails, and the batch must still complete.
	client := &stubOpenAIClient{}
	client.completions = func(model, prompt string) (string, error) {
		if client.calls == 2 {
			return "", errors.New("rate limited")
		}
		return fmt.Sprintf("summary %d %s", client.calls, longText(28)), nil
	}
	s := newTestSummarizer(client)

	result, err := s.SummarizeChunks(context.Background(), testChunks(5), SummaryBrief, SummaryComprehensive)
	if err != nil {
		t.Fatalf("SummarizeChunks: %v", err)
	}

	if len(result.ChunkSummaries) != 5 {
		t.Fatalf("expected 5 chunk summaries, got %d", len(result.ChunkSummaries))
	}
	if result.TotalChunks != 5 {
		t.Errorf("expected TotalChunks 5, got %d", result.TotalChunks)
	}

	failed := result.ChunkSummaries[1]
	if !strings.HasPrefix(failed.Summary, "[Failed to summarize:") {
		t.Errorf("expected placeholder for failed chunk, got %q", failed.Summary)
	}
	if !strings.Contains(failed.Summary, "rate limited") {
		t.Errorf("placeholder should embed the error, got %q", failed.Summary)
	}

	for i, cs := range result.ChunkSummaries {
		if i == 1 {
			continue
		}
		if strings.HasPrefix(cs.Summary, "[Failed") {
			t.Errorf("chunk %d unexpectedly failed: %q", i, cs.Summary)
		}
	}

	if result.FinalSummary == nil || result.FinalSummary.Text == "" {
		t.Error("expected a final summary despite the chunk failure")
	}
	if result.ProcessingInfo.ChunkSummaryType != SummaryBrief || result.ProcessingInfo.FinalSummaryType != SummaryComprehensive {
		t.Errorf("unexpected processing info: %+v", result.ProcessingInfo)
	}
}

func TestSummarizeChunksAggregationFailureIsFatal(t *testing.T) {
	client := &stubOpenAIClient{}
	client.completions = func(model, prompt string) (string, error) {
		if client.calls > 3 {
			return "", errors.New("model overloaded")
		}
		return longText(30), nil
	}
	s := newTestSummarizer(client)

	_, err := s.SummarizeChunks(context.Background(), testChunks(3), SummaryBrief, SummaryBrief)
	if err == nil {
		t.Fatal("expected aggregation failure to propagate")
	}
	if !strings.Contains(err.Error(), "combined chunk summaries") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSummarizeChunksCombinedPromptFormat(t *testing.T) {
	var finalPrompt string
	client := &stubOpenAIClient{}
	client.completions = func(model, prompt string) (string, error) {
		if client.calls == 3 {
			finalPrompt = prompt
		}
		return "segment summary " + longText(30), nil
	}
	s := newTestSummarizer(client)

	if _, err := s.SummarizeChunks(context.Background(), testChunks(2), SummaryBrief, SummaryBrief); err != nil {
		t.Fatalf("SummarizeChunks: %v", err)
	}

	if !strings.Contains(finalPrompt, "Segment 0-300s: segment summary") {
		t.Errorf("final prompt missing first segment line:\n%s", finalPrompt)
	}
	if !strings.Contains(finalPrompt, "Segment 300-600s: segment summary") {
		t.Errorf("final prompt missing second segment line:\n%s", finalPrompt)
	}
}

func TestExtractKeyTopicsParsesNumberedList(t *testing.T) {
	client := &stubOpenAIClient{
		completions: func(model, prompt string) (string, error) {
			return "1. AI safety\n2. Open source models\n3. Hardware costs\n4. extra topic", nil
		},
	}
	s := newTestSummarizer(client)

	topics := s.ExtractKeyTopics(context.Background(), longText(60), 3)
	want := []string{"AI safety", "Open source models", "Hardware costs"}
	if len(topics) != len(want) {
		t.Fatalf("expected %d topics, got %d: %v", len(want), len(topics), topics)
	}
	for i, topic := range want {
		if topics[i] != topic {
			t.Errorf("topic %d: expected %q, got %q", i, topic, topics[i])
		}
	}
}

func TestExtractKeyTopicsDegradesOnError(t *testing.T) {
	client := &stubOpenAIClient{
		completions: func(model, prompt string) (string, error) {
			return "", errors.New("unavailable")
		},
	}
	s := newTestSummarizer(client)

	if topics := s.ExtractKeyTopics(context.Background(), longText(60), 3); topics != nil {
		t.Errorf("expected nil topics on failure, got %v", topics)
	}
}
