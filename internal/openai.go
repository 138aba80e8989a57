package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// OpenAIClientInterface defines the OpenAI operations the pipeline needs.
// Tests substitute a stub implementation.
type OpenAIClientInterface interface {
	CreateTranscription(ctx context.Context, file *os.File) (*Transcription, error)
	CreateChatCompletion(ctx context.Context, model, prompt string) (string, error)
}

// OpenAIClient wraps the official OpenAI Go SDK
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{client: &client}
}

// verboseTranscription mirrors the verbose_json payload of the Whisper API.
// The SDK types the endpoint's response as plain text, so the segment list
// has to be decoded from the raw body.
type verboseTranscription struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Duration float64   `json:"duration"`
	Segments []Segment `json:"segments"`
}

// CreateTranscription transcribes an audio file with Whisper, requesting
// segment-level timestamps.
func (c *OpenAIClient) CreateTranscription(ctx context.Context, file *os.File) (*Transcription, error) {
	resp, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModelWhisper1,
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
	})
	if err != nil {
		return nil, err
	}

	var verbose verboseTranscription
	if err := json.Unmarshal([]byte(resp.RawJSON()), &verbose); err != nil {
		return nil, fmt.Errorf("parsing verbose transcription: %w", err)
	}

	return &Transcription{
		Text:     verbose.Text,
		Language: verbose.Language,
		Duration: verbose.Duration,
		Segments: verbose.Segments,
	}, nil
}

// CreateChatCompletion implements the chat completion method
func (c *OpenAIClient) CreateChatCompletion(ctx context.Context, model, prompt string) (string, error) {
	// Map model string to openai model constant
	var oaiModel openai.ChatModel
	switch model {
	case "gpt-4o":
		oaiModel = openai.ChatModelGPT4o
	case "gpt-4o-mini":
		oaiModel = openai.ChatModelGPT4oMini
	case "o4-mini":
		oaiModel = openai.ChatModelO4Mini
	case "gpt-4.1-nano":
		oaiModel = openai.ChatModelGPT4_1Nano
	default:
		return "", fmt.Errorf("unsupported model: %s", model)
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: oaiModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}
