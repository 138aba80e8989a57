package internal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// InputKind classifies the positional argument of the pipeline commands.
type InputKind int

const (
	InputUnknown InputKind = iota
	InputSpotifyURL
	InputAudioFile
)

// episode IDs are base62, 22 characters
var spotifyIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]{22}$`)

// audio extensions the pipeline accepts directly
var audioExtensions = []string{".mp3", ".m4a", ".wav", ".flac", ".ogg", ".webm", ".aac"}

// ParseInput classifies an argument as a Spotify URL, a local audio file, or
// unknown. Bare episode IDs are normalized into episode URLs.
func ParseInput(arg string) (InputKind, string) {
	arg = strings.TrimSpace(arg)

	if IsValidSpotifyURL(arg) {
		return InputSpotifyURL, arg
	}

	if spotifyIDPattern.MatchString(arg) {
		return InputSpotifyURL, "https://open.spotify.com/episode/" + arg
	}

	if FileExists(arg) && slices.Contains(audioExtensions, strings.ToLower(filepath.Ext(arg))) {
		return InputAudioFile, arg
	}

	return InputUnknown, arg
}

// AskUser is a variable that holds the function for asking user confirmation
// This allows it to be replaced in tests
var AskUser = func(message string) bool {
	fmt.Printf("%s (y/N): ", message)
	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		response := strings.ToLower(strings.TrimSpace(scanner.Text()))
		return strings.HasPrefix(response, "y")
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
	}
	return false
}

// CleanupTempDir purges files from a temporary directory
func CleanupTempDir(tempDir string) error {
	// Check if directory exists
	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		return nil // Directory doesn't exist, nothing to clean up
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return fmt.Errorf("reading temp directory: %w", err)
	}

	for _, entry := range entries {
		filePath := filepath.Join(tempDir, entry.Name())
		if err := os.Remove(filePath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove temporary file %s: %v\n", filePath, err)
		}
	}

	if err := os.Remove(tempDir); err != nil {
		fmt.Fprintf(os.Stderr, "Note: could not remove temp directory %s: %v\n", tempDir, err)
	}

	return nil
}

// getTerminalWidth gets terminal width with fallback
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}

	if width > 10 {
		return width - 4
	}

	return width
}

// RenderMarkdown renders markdown content with glamour when stdout is a
// terminal; non-TTY output gets the raw markdown.
func RenderMarkdown(content string) (string, error) {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return content, nil
	}

	width := getTerminalWidth()
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	renderedContent, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return renderedContent, nil
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// ValidateModel checks if the model is supported
func ValidateModel(model string) error {
	supportedModels := []string{"gpt-4o", "gpt-4o-mini", "o4-mini", "gpt-4.1-nano"}
	if slices.Contains(supportedModels, model) {
		return nil
	}
	return fmt.Errorf("unsupported model: %s (supported: %s)", model, strings.Join(supportedModels, ", "))
}

// EnsureDirs creates directories if needed
func EnsureDirs(dir ...string) error {
	for _, dir := range dir {
		if !FileExists(dir) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}

// cleanupFiles removes temporary files
func cleanupFiles(files ...string) {
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove file %s: %v\n", file, err)
		}
	}
}

// WordCount counts whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// FormatTimestamp renders seconds as MM:SS.
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns an episode title into a safe lowercase filename stem.
func Slugify(title string) string {
	slug := slugUnsafe.ReplaceAllString(strings.ToLower(title), "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		return "episode"
	}
	return slug
}

// ValidateOpenAIAPIKey checks if the OpenAI API key is set and returns a standardized error if not
func ValidateOpenAIAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("OpenAI API key is required - set it in config.toml or OPENAI_API_KEY environment variable")
	}
	return nil
}

// SaveTranscript saves a transcript JSON to the transcripts directory.
func SaveTranscript(slug string, result *ChunkedTranscription, transcriptsDir string) (string, error) {
	if err := EnsureDirs(transcriptsDir); err != nil {
		return "", fmt.Errorf("creating transcripts directory: %w", err)
	}

	transcriptPath := filepath.Join(transcriptsDir, slug+"_transcript.json")
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling transcript: %w", err)
	}
	if err := os.WriteFile(transcriptPath, data, 0644); err != nil {
		return "", fmt.Errorf("saving transcript: %w", err)
	}
	return transcriptPath, nil
}

// LoadTranscript loads a previously saved transcript JSON.
func LoadTranscript(slug, transcriptsDir string) (*ChunkedTranscription, error) {
	transcriptPath := filepath.Join(transcriptsDir, slug+"_transcript.json")
	data, err := os.ReadFile(transcriptPath)
	if err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}
	var result ChunkedTranscription
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing transcript: %w", err)
	}
	return &result, nil
}

// CachedEpisodeMetadata extends EpisodeMetadata with cache information
type CachedEpisodeMetadata struct {
	EpisodeMetadata
	CachedAt time.Time `json:"cached_at"`
}

// SaveMetadata saves episode metadata to cache as JSON
func SaveMetadata(spotifyID string, metadata *EpisodeMetadata, cacheDir string) error {
	cached := CachedEpisodeMetadata{
		EpisodeMetadata: *metadata,
		CachedAt:        time.Now(),
	}

	metadataPath := filepath.Join(cacheDir, spotifyID+".meta.json")
	data, err := json.MarshalIndent(cached, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}

	if err := os.WriteFile(metadataPath, data, 0644); err != nil {
		return fmt.Errorf("saving metadata: %w", err)
	}

	return nil
}

// LoadCachedMetadata loads episode metadata from cache
func LoadCachedMetadata(spotifyID, cacheDir string) (*EpisodeMetadata, error) {
	metadataPath := filepath.Join(cacheDir, spotifyID+".meta.json")

	if !FileExists(metadataPath) {
		return nil, fmt.Errorf("metadata cache not found")
	}

	data, err := os.ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("reading metadata cache: %w", err)
	}

	var cached CachedEpisodeMetadata
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("parsing metadata cache: %w", err)
	}

	metadata := cached.EpisodeMetadata
	return &metadata, nil
}
