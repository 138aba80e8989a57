package internal

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

// MinSummaryWords is the smallest input the summarizer accepts. Shorter
// texts produce useless summaries and waste tokens.
const MinSummaryWords = 50

// ChunkSummaryMaxWords caps per-chunk summaries so the aggregation input
// stays small enough for one final pass.
const ChunkSummaryMaxWords = 200

// Summarizer turns transcript text into summaries using an OpenAI chat
// model. The API key is injected by the caller; nothing here reads the
// environment.
type Summarizer struct {
	client     OpenAIClientInterface
	model      string
	timeout    time.Duration
	verbose    bool
	ui         UIManager
	apiKey     string
	clientOnce sync.Once
}

// NewSummarizer creates a summarizer with an explicit client, used by tests
// and by callers that share a client with the transcriber.
func NewSummarizer(client OpenAIClientInterface, model string, timeout time.Duration, verbose bool, ui UIManager) *Summarizer {
	return &Summarizer{
		client:  client,
		model:   model,
		timeout: timeout,
		verbose: verbose,
		ui:      ui,
	}
}

// NewSummarizerWithKey creates a summarizer with lazy client initialization
func NewSummarizerWithKey(apiKey, model string, timeout time.Duration, verbose bool, ui UIManager) *Summarizer {
	return &Summarizer{
		model:   model,
		timeout: timeout,
		verbose: verbose,
		ui:      ui,
		apiKey:  apiKey,
	}
}

// ensureClient initializes the OpenAI client if needed
func (s *Summarizer) ensureClient() error {
	if s.client != nil {
		return nil
	}

	if s.apiKey == "" {
		return ValidateOpenAIAPIKey("")
	}

	s.clientOnce.Do(func() {
		s.client = NewOpenAIClient(s.apiKey)
	})

	return nil
}

// Summarize produces one summary of text. maxWords caps the summary length
// when positive. Inputs under MinSummaryWords fail with ErrTextTooShort.
func (s *Summarizer) Summarize(ctx context.Context, text string, summaryType SummaryType, maxWords int) (*Summary, error) {
	originalWords := WordCount(text)
	if originalWords < MinSummaryWords {
		return nil, fmt.Errorf("%w (minimum %d words, got %d)", ErrTextTooShort, MinSummaryWords, originalWords)
	}
	if _, err := ParseSummaryType(string(summaryType)); err != nil {
		return nil, err
	}
	if err := s.ensureClient(); err != nil {
		return nil, err
	}

	prompt := buildSummaryPrompt(text, summaryType, maxWords)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.client.CreateChatCompletion(ctx, s.model, prompt)
	if err != nil {
		return nil, fmt.Errorf("creating chat completion: %w", err)
	}

	response = strings.TrimSpace(response)
	if response == "" {
		return nil, fmt.Errorf("empty summary response from model")
	}

	summaryWords := WordCount(response)
	summary := &Summary{
		Text:             response,
		Model:            s.model,
		Type:             summaryType,
		OriginalWords:    originalWords,
		SummaryWords:     summaryWords,
		CompressionRatio: compressionRatio(originalWords, summaryWords),
	}
	if summaryType == SummaryBulletPoints {
		summary.BulletPoints = extractBulletPoints(response)
	}

	return summary, nil
}

// SummarizePrompt sends a fully built prompt to the model. sourceText is the
// original transcript, used only for word statistics.
func (s *Summarizer) SummarizePrompt(ctx context.Context, prompt string, summaryType SummaryType, sourceText string) (*Summary, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.client.CreateChatCompletion(ctx, s.model, prompt)
	if err != nil {
		return nil, fmt.Errorf("creating chat completion: %w", err)
	}

	response = strings.TrimSpace(response)
	if response == "" {
		return nil, fmt.Errorf("empty summary response from model")
	}

	originalWords := WordCount(sourceText)
	summaryWords := WordCount(response)
	return &Summary{
		Text:             response,
		Model:            s.model,
		Type:             summaryType,
		OriginalWords:    originalWords,
		SummaryWords:     summaryWords,
		CompressionRatio: compressionRatio(originalWords, summaryWords),
	}, nil
}

// SummarizeChunks summarizes each chunk independently and then aggregates
// the chunk summaries into one final summary. A failing chunk never aborts
// the batch: it is recorded with a placeholder embedding the error and
// processing continues. A failure of the final aggregation call, however,
// fails the whole operation.
func (s *Summarizer) SummarizeChunks(ctx context.Context, chunks []Chunk, chunkType, finalType SummaryType) (*AggregateResult, error) {
	if s.ui != nil {
		s.ui.Printf("Summarizing %d chunks...\n", len(chunks))
	}

	chunkSummaries := make([]ChunkSummary, 0, len(chunks))
	for i, chunk := range chunks {
		if s.verbose {
			fmt.Printf("Summarizing chunk %d/%d (%.0f-%.0fs)\n", i+1, len(chunks), chunk.StartTime, chunk.EndTime)
		}

		cs := ChunkSummary{
			ChunkID:       i,
			StartTime:     chunk.StartTime,
			EndTime:       chunk.EndTime,
			OriginalWords: WordCount(chunk.Text),
		}

		summary, err := s.Summarize(ctx, chunk.Text, chunkType, ChunkSummaryMaxWords)
		if err != nil {
			if s.ui != nil {
				s.ui.Printf("Warning: failed to summarize chunk %d: %v\n", i+1, err)
			}
			cs.Summary = fmt.Sprintf("[Failed to summarize: %v]", err)
		} else {
			cs.Summary = summary.Text
		}

		chunkSummaries = append(chunkSummaries, cs)
	}

	lines := make([]string, len(chunkSummaries))
	for i, cs := range chunkSummaries {
		lines[i] = fmt.Sprintf("Segment %.0f-%.0fs: %s", cs.StartTime, cs.EndTime, cs.Summary)
	}
	combined := strings.Join(lines, "\n\n")

	if s.ui != nil {
		s.ui.Println("Creating final summary...")
	}

	finalSummary, err := s.Summarize(ctx, combined, finalType, 0)
	if err != nil {
		return nil, fmt.Errorf("summarizing combined chunk summaries: %w", err)
	}

	return &AggregateResult{
		ChunkSummaries: chunkSummaries,
		FinalSummary:   finalSummary,
		TotalChunks:    len(chunks),
		ProcessingInfo: ProcessingInfo{
			ChunkSummaryType: chunkType,
			FinalSummaryType: finalType,
		},
	}, nil
}

// ExtractKeyTopics asks the model for the numTopics most important topics in
// the text, one short phrase each. Failures degrade to an empty list.
func (s *Summarizer) ExtractKeyTopics(ctx context.Context, text string, numTopics int) []string {
	if err := s.ensureClient(); err != nil {
		return nil
	}

	prompt := fmt.Sprintf(`Analyze the following podcast transcription and extract the %d most important topics or themes discussed.

TRANSCRIPTION:
%s

Please provide exactly %d key topics, one per line, in order of importance. Format each topic as a short phrase (2-5 words).

KEY TOPICS:`, numTopics, text, numTopics)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.client.CreateChatCompletion(ctx, s.model, prompt)
	if err != nil {
		if s.ui != nil {
			s.ui.Printf("Warning: failed to extract topics: %v\n", err)
		}
		return nil
	}

	var topics []string
	for line := range strings.SplitSeq(strings.TrimSpace(response), "\n") {
		topic := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "1234567890.-• "))
		if topic != "" && len(topics) < numTopics {
			topics = append(topics, topic)
		}
	}
	return topics
}

// buildSummaryPrompt composes the model prompt for one summarization call.
func buildSummaryPrompt(text string, summaryType SummaryType, maxWords int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `You are an expert at summarizing podcast content. Please analyze the following podcast transcription and provide a %s summary.

TRANSCRIPTION:
%s

`, summaryType, text)

	switch summaryType {
	case SummaryBrief:
		sb.WriteString("Please provide a BRIEF summary (2-3 sentences) that captures the main topic and key message of this podcast episode.")
	case SummaryComprehensive:
		sb.WriteString(`Please provide a COMPREHENSIVE summary that includes:
1. Main topic and theme
2. Key points and arguments presented
3. Important insights or takeaways
4. Notable quotes or memorable moments
5. Overall conclusions or call-to-action

Format your response in clear paragraphs with appropriate headings.`)
	case SummaryBulletPoints:
		sb.WriteString(`Please provide a summary in BULLET POINT format that includes:
• Main topic and theme
• Key points discussed (3-5 main points)
• Important insights or revelations
• Notable quotes or statistics mentioned
• Main conclusions or recommendations

Use clear, concise bullet points that are easy to scan.`)
	}

	if maxWords > 0 {
		fmt.Fprintf(&sb, "\n\nPlease keep the summary under %d words.", maxWords)
	}

	sb.WriteString("\n\nSUMMARY:")
	return sb.String()
}

// extractBulletPoints pulls the individual points out of a bullet-formatted
// model response.
func extractBulletPoints(response string) []string {
	var points []string
	for line := range strings.SplitSeq(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") || startsWithListNumber(line) {
			point := strings.TrimSpace(strings.TrimLeft(line, "•-*0123456789. "))
			if point != "" {
				points = append(points, point)
			}
		}
	}
	return points
}

func startsWithListNumber(line string) bool {
	if len(line) < 2 {
		return false
	}
	return line[0] >= '1' && line[0] <= '9' && line[1] == '.'
}

func compressionRatio(originalWords, summaryWords int) float64 {
	if summaryWords == 0 {
		return 0
	}
	return math.Round(float64(originalWords)/float64(summaryWords)*100) / 100
}
