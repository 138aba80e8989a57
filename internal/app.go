package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// App holds the application state and dependencies
type App struct {
	spotify       *Spotify
	downloader    *Downloader
	audio         *Audio
	transcriber   *Transcriber
	summarizer    *Summarizer
	promptManager *PromptManager
	config        *Config
	ui            UIManager
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) *App {
	cmdRunner := &DefaultCommandRunner{}

	promptManager := NewPromptManager(config.ConfigDir, config.Prompt)
	audio := NewAudio(cmdRunner, config.TempDir, config.Verbose)

	ui := NewUIManager(config.Verbose, config.Quiet)

	app := &App{
		spotify:       NewSpotify(config.Verbose),
		downloader:    NewDownloader(config.CacheDir, config.AutoConfirm, config.Verbose, ui),
		audio:         audio,
		transcriber:   NewTranscriberWithKey(config.OpenAIAPIKey, audio, WhisperLimit, config.WhisperTimeout, config.Verbose),
		summarizer:    NewSummarizerWithKey(config.OpenAIAPIKey, config.SummaryModel, config.SummaryTimeout, config.Verbose, ui),
		promptManager: promptManager,
		config:        config,
		ui:            ui,
	}

	// Apply any custom options
	for _, option := range options {
		option(app)
	}

	return app
}

// AppOption customizes App creation
type AppOption func(*App)

// WithSpotify sets a custom Spotify scraper
func WithSpotify(spotify *Spotify) AppOption {
	return func(a *App) {
		a.spotify = spotify
	}
}

// WithDownloader sets a custom audio downloader
func WithDownloader(downloader *Downloader) AppOption {
	return func(a *App) {
		a.downloader = downloader
	}
}

// WithTranscriber sets a custom transcriber
func WithTranscriber(transcriber *Transcriber) AppOption {
	return func(a *App) {
		a.transcriber = transcriber
	}
}

// WithSummarizer sets a custom summarizer
func WithSummarizer(summarizer *Summarizer) AppOption {
	return func(a *App) {
		a.summarizer = summarizer
	}
}

// SetPromptManager sets a new prompt manager
func (app *App) SetPromptManager(pm *PromptManager) {
	app.promptManager = pm
}

// Config exposes the application configuration
func (app *App) Config() *Config {
	return app.config
}

// Metadata scrapes episode metadata for a Spotify URL, using the cache when
// a previous run already fetched it.
func (app *App) Metadata(ctx context.Context, spotifyURL string) (*EpisodeMetadata, error) {
	_, spotifyID, err := ExtractSpotifyID(spotifyURL)
	if err != nil {
		return nil, err
	}

	if err := EnsureDirs(app.config.CacheDir); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	// Try to load cached metadata first
	if cached, err := LoadCachedMetadata(spotifyID, app.config.CacheDir); err == nil {
		if app.config.Verbose {
			fmt.Printf("Using cached metadata for %s\n", spotifyID)
		}
		return cached, nil
	}

	if app.config.Verbose {
		fmt.Printf("Scraping metadata for %s\n", spotifyID)
	}

	metadata, err := app.spotify.EpisodeMetadata(ctx, spotifyURL)
	if err != nil {
		return nil, err
	}

	// Cache the metadata for future use
	if err := SaveMetadata(spotifyID, metadata, app.config.CacheDir); err != nil {
		if app.config.Verbose {
			fmt.Printf("Warning: Failed to cache metadata: %v\n", err)
		}
	}

	return metadata, nil
}

// DownloadEpisodeAudio locates the episode on YouTube and downloads its audio.
func (app *App) DownloadEpisodeAudio(ctx context.Context, metadata *EpisodeMetadata) (string, error) {
	if err := EnsureDirs(app.config.CacheDir); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}

	audioFile, err := app.downloader.DownloadBySearch(ctx, metadata.Title, metadata.ShowName)
	if err != nil {
		return "", fmt.Errorf("downloading audio: %w", err)
	}
	return audioFile, nil
}

// TranscribeFile transcribes an audio file and buckets the transcript into
// time chunks. Cached transcripts are reused when slug is non-empty.
func (app *App) TranscribeFile(ctx context.Context, audioFile, slug string) (*ChunkedTranscription, error) {
	if slug != "" {
		if cached, err := LoadTranscript(slug, app.config.TranscriptsDir); err == nil {
			if app.config.Verbose {
				fmt.Printf("Using cached transcript for %s\n", slug)
			}
			return cached, nil
		}
	}

	if err := EnsureDirs(app.config.TempDir); err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}

	spinner := app.ui.NewSpinner("Transcribing with OpenAI Whisper...")
	result, err := app.transcriber.TranscribeWithChunks(ctx, audioFile, app.config.ChunkDuration)
	spinner.Finish()
	if err != nil {
		return nil, err
	}

	if slug != "" {
		if _, err := SaveTranscript(slug, result, app.config.TranscriptsDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	return result, nil
}

// SummarizeTranscription runs chunked summarization over a transcription and
// attaches key topics to the final summary.
func (app *App) SummarizeTranscription(ctx context.Context, transcription *ChunkedTranscription, summaryType SummaryType, numTopics int) (*AggregateResult, error) {
	result, err := app.summarizer.SummarizeChunks(ctx, transcription.Chunks, SummaryBrief, summaryType)
	if err != nil {
		return nil, err
	}

	if numTopics > 0 {
		result.FinalSummary.KeyTopics = app.summarizer.ExtractKeyTopics(ctx, transcription.Transcription.Text, numTopics)
	}

	return result, nil
}

// ProcessEpisode runs the complete pipeline for a Spotify episode URL:
// metadata -> audio download -> transcription -> chunked summarization ->
// saved reports. It returns the saved markdown report path.
func (app *App) ProcessEpisode(ctx context.Context, spotifyURL string, summaryType SummaryType, numTopics int) (string, error) {
	metadata, err := app.Metadata(ctx, spotifyURL)
	if err != nil {
		return "", fmt.Errorf("fetching episode metadata: %w", err)
	}

	app.ui.Printf("Episode: %s\n", metadata.Title)
	if metadata.ShowName != unknownField {
		app.ui.Printf("Show: %s\n", metadata.ShowName)
	}

	audioFile, err := app.DownloadEpisodeAudio(ctx, metadata)
	if err != nil {
		return "", err
	}

	slug := Slugify(metadata.Title)
	transcription, err := app.TranscribeFile(ctx, audioFile, slug)
	if err != nil {
		return "", fmt.Errorf("transcribing audio: %w", err)
	}

	return app.summarizeAndReport(ctx, metadata, transcription, slug, summaryType, numTopics)
}

// ProcessAudioFile runs the pipeline for a local audio file, skipping the
// Spotify and download stages. With noChunks the whole transcript is
// summarized in a single pass.
func (app *App) ProcessAudioFile(ctx context.Context, audioFile string, summaryType SummaryType, numTopics int, noChunks bool) (string, error) {
	slug := Slugify(filepath.Base(audioFile[:len(audioFile)-len(filepath.Ext(audioFile))]))

	transcription, err := app.TranscribeFile(ctx, audioFile, slug)
	if err != nil {
		return "", fmt.Errorf("transcribing audio: %w", err)
	}

	if noChunks {
		summary, err := app.summarizer.Summarize(ctx, transcription.Transcription.Text, summaryType, 0)
		if err != nil {
			return "", err
		}
		if numTopics > 0 {
			summary.KeyTopics = app.summarizer.ExtractKeyTopics(ctx, transcription.Transcription.Text, numTopics)
		}

		report := &Report{
			Transcription: transcription,
			Result: &AggregateResult{
				FinalSummary: summary,
				TotalChunks:  1,
				ProcessingInfo: ProcessingInfo{
					ChunkSummaryType: summaryType,
					FinalSummaryType: summaryType,
				},
			},
			GeneratedAt: time.Now(),
		}
		return app.saveReports(report, slug)
	}

	return app.summarizeAndReport(ctx, nil, transcription, slug, summaryType, numTopics)
}

// summarizeAndReport is the shared tail of both pipelines.
func (app *App) summarizeAndReport(ctx context.Context, metadata *EpisodeMetadata, transcription *ChunkedTranscription, slug string, summaryType SummaryType, numTopics int) (string, error) {
	app.ui.Printf("Summarizing %d transcript segments\n", transcription.TotalChunks)

	result, err := app.SummarizeTranscription(ctx, transcription, summaryType, numTopics)
	if err != nil {
		return "", fmt.Errorf("summarizing transcript: %w", err)
	}

	report := &Report{
		Metadata:      metadata,
		Transcription: transcription,
		Result:        result,
		GeneratedAt:   time.Now(),
	}
	return app.saveReports(report, slug)
}

func (app *App) saveReports(report *Report, slug string) (string, error) {
	reportsDir := filepath.Join(app.config.DataDir, "summaries")

	mdPath, err := SaveMarkdownReport(report, slug, reportsDir)
	if err != nil {
		return "", err
	}
	if _, err := SaveJSONReport(report, slug, reportsDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	rendered, err := RenderMarkdown(BuildMarkdownReport(report))
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	fmt.Println(rendered)

	app.ui.Printf("Saved summary to %s\n", mdPath)
	return mdPath, nil
}

// SummarizeText summarizes raw transcript text. A custom prompt template, if
// configured, replaces the built-in summary prompt for the final pass.
func (app *App) SummarizeText(ctx context.Context, text string, summaryType SummaryType, numTopics int) (*Summary, error) {
	if app.promptManager.HasCustomPrompt() {
		prompt, err := app.promptManager.CreatePrompt(text, nil)
		if err != nil {
			return nil, fmt.Errorf("creating prompt: %w", err)
		}
		return app.summarizer.SummarizePrompt(ctx, prompt, summaryType, text)
	}

	summary, err := app.summarizer.Summarize(ctx, text, summaryType, 0)
	if err != nil {
		return nil, err
	}
	if numTopics > 0 {
		summary.KeyTopics = app.summarizer.ExtractKeyTopics(ctx, text, numTopics)
	}
	return summary, nil
}
