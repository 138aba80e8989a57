package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// FoundVideo describes a YouTube search hit that may hold the episode audio.
type FoundVideo struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Uploader string  `json:"uploader"`
	URL      string  `json:"webpage_url"`
	Duration float64 `json:"duration"`
}

// Downloader locates and downloads episode audio from YouTube using yt-dlp.
type Downloader struct {
	cacheDir    string
	autoConfirm bool
	verbose     bool
	ui          UIManager
}

// NewDownloader creates a new audio downloader
func NewDownloader(cacheDir string, autoConfirm, verbose bool, ui UIManager) *Downloader {
	return &Downloader{
		cacheDir:    cacheDir,
		autoConfirm: autoConfirm,
		verbose:     verbose,
		ui:          ui,
	}
}

var (
	nonWordChars     = regexp.MustCompile(`[^\w\s-]`)
	nonWordCharsShow = regexp.MustCompile(`[^\w\s]`)
)

// stop words that carry no search signal in episode titles
var searchStopWords = []string{"the", "and", "vs", "with"}

// termSubstitutions rewrites episode-title jargon to terms YouTube uploads
// actually use. Ordered longest-first so "GPT-OSS" wins over "GPT".
var termSubstitutions = []struct {
	original, replacement string
}{
	{"GPT-OSS", "OpenAI"},
	{"GPT OSS", "OpenAI"},
	{"ChatGPT", "OpenAI"},
	{"GPT", "OpenAI"},
}

// SearchQueries builds the primary search query plus fallback variants for
// an episode. The show name leads each query since podcast uploads are
// usually titled by show. Fallbacks progressively shorten the title to its
// key words, with and without term substitutions.
func SearchQueries(title, show string) []string {
	queries := []string{strings.TrimSpace(show + " " + title)}

	titleWords := keyTitleWords(title)
	subWords := keyTitleWords(applyTermSubstitutions(title))
	showCleaned := strings.Join(strings.Fields(nonWordCharsShow.ReplaceAllString(show, " ")), " ")

	appendQuery := func(words []string, n int) {
		q := showCleaned + " " + strings.Join(words[:n], " ")
		if !slices.Contains(queries, q) {
			queries = append(queries, q)
		}
	}

	if len(subWords) > 3 {
		appendQuery(subWords, 3)
	}
	if len(titleWords) > 3 {
		appendQuery(titleWords, 3)
	}
	if len(subWords) >= 2 {
		appendQuery(subWords, 2)
	}
	if len(titleWords) >= 2 {
		appendQuery(titleWords, 2)
	}

	return queries
}

// keyTitleWords strips punctuation and stop words from an episode title
func keyTitleWords(title string) []string {
	cleaned := nonWordChars.ReplaceAllString(title, " ")
	var words []string
	for _, w := range strings.Fields(cleaned) {
		if len(w) > 2 && !slices.Contains(searchStopWords, strings.ToLower(w)) {
			words = append(words, w)
		}
	}
	return words
}

// applyTermSubstitutions rewrites jargon for better search matching
func applyTermSubstitutions(title string) string {
	result := title
	for _, sub := range termSubstitutions {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(sub.original) + `\b`)
		result = re.ReplaceAllString(result, sub.replacement)
	}
	return result
}

// Search runs each query through yt-dlp's ytsearch until one returns a hit.
func (d *Downloader) Search(ctx context.Context, queries []string) (*FoundVideo, error) {
	dl := ytdlp.New().
		DumpSingleJSON().
		SkipDownload()

	for i, query := range queries {
		if i > 0 && d.ui != nil {
			d.ui.Printf("Trying fallback query %d: %q\n", i, query)
		}

		result, err := dl.Run(ctx, "ytsearch1:"+query)
		if err != nil {
			if d.verbose {
				fmt.Printf("Search failed for %q: %v\n", query, err)
			}
			continue
		}

		video, err := parseSearchResult(result.Stdout)
		if err != nil {
			if d.verbose {
				fmt.Printf("No results for %q: %v\n", query, err)
			}
			continue
		}

		if i > 0 && d.ui != nil {
			d.ui.Printf("Found match with fallback query %q\n", query)
		}
		return video, nil
	}

	return nil, fmt.Errorf("%w (tried %d variations)", ErrNoSearchResults, len(queries))
}

// parseSearchResult extracts the first entry from a ytsearch JSON dump
func parseSearchResult(stdout string) (*FoundVideo, error) {
	var searchResult struct {
		Entries []FoundVideo `json:"entries"`
	}
	if err := json.Unmarshal([]byte(stdout), &searchResult); err != nil {
		return nil, fmt.Errorf("parsing search result: %w", err)
	}
	if len(searchResult.Entries) == 0 {
		return nil, fmt.Errorf("empty search result")
	}
	return &searchResult.Entries[0], nil
}

// DownloadBySearch locates the episode on YouTube via title and show name
// and downloads its audio as mp3. The found video is shown to the user for
// confirmation unless auto-confirm is enabled.
func (d *Downloader) DownloadBySearch(ctx context.Context, title, show string) (string, error) {
	queries := SearchQueries(title, show)
	if d.ui != nil {
		d.ui.Printf("Searching YouTube for: %s\n", queries[0])
		if len(queries) > 1 {
			d.ui.Printf("Fallback strategies prepared: %d alternatives\n", len(queries)-1)
		}
	}

	video, err := d.Search(ctx, queries)
	if err != nil {
		return "", err
	}

	if err := d.confirmVideo(video); err != nil {
		return "", err
	}

	return d.downloadAudio(ctx, video)
}

// DownloadFromURL downloads audio directly from a video URL.
func (d *Downloader) DownloadFromURL(ctx context.Context, videoURL string) (string, error) {
	dl := ytdlp.New().
		DumpSingleJSON().
		NoPlaylist().
		SkipDownload()

	result, err := dl.Run(ctx, videoURL)
	if err != nil {
		return "", fmt.Errorf("fetching video info: %w", err)
	}

	var video FoundVideo
	if err := json.Unmarshal([]byte(result.Stdout), &video); err != nil {
		return "", fmt.Errorf("parsing video info: %w", err)
	}

	if err := d.confirmVideo(&video); err != nil {
		return "", err
	}

	return d.downloadAudio(ctx, &video)
}

// confirmVideo shows the search hit and asks the user to confirm the
// download, unless auto-confirm is on.
func (d *Downloader) confirmVideo(video *FoundVideo) error {
	if d.ui != nil {
		d.ui.Printf("Found YouTube video:\n")
		d.ui.Printf("  Title: %s\n", video.Title)
		d.ui.Printf("  Channel: %s\n", video.Uploader)
		d.ui.Printf("  Duration: %s\n", formatDuration(video.Duration))
		d.ui.Printf("  URL: %s\n", video.URL)
	}

	if d.autoConfirm {
		if d.ui != nil {
			d.ui.Printf("Auto-confirming download of %q\n", video.Title)
		}
		return nil
	}

	if !AskUser(fmt.Sprintf("Is this the correct video? Download audio from %q?", video.Title)) {
		return fmt.Errorf("download not confirmed by user")
	}
	return nil
}

// downloadAudio extracts mp3 audio from the confirmed video
func (d *Downloader) downloadAudio(ctx context.Context, video *FoundVideo) (string, error) {
	if err := EnsureDirs(d.cacheDir); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}

	if d.ui != nil {
		d.ui.Println("Downloading audio...")
	}

	outputPath := filepath.Join(d.cacheDir, "%(id)s.%(ext)s")
	dl := ytdlp.New().
		Format("bestaudio").
		ExtractAudio().
		AudioFormat("mp3").
		AudioQuality("10").
		NoPlaylist().
		Output(outputPath)

	result, err := dl.Run(ctx, video.URL)
	if err != nil {
		if d.verbose && result != nil {
			fmt.Printf("Audio download error: %v\nStderr: %s\n", err, result.Stderr)
		}
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	audioFile := filepath.Join(d.cacheDir, video.ID+".mp3")
	if !FileExists(audioFile) {
		return "", fmt.Errorf("%w: no audio file found after download", ErrDownloadFailed)
	}

	if d.ui != nil {
		d.ui.Printf("Downloaded: %s\n", filepath.Base(audioFile))
	}
	return audioFile, nil
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return unknownField
	}
	return fmt.Sprintf("%d:%02d", int(seconds)/60, int(seconds)%60)
}
