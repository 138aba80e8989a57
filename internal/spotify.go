package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// EpisodeMetadata contains podcast episode information scraped from the
// episode's Spotify page.
type EpisodeMetadata struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ShowName    string `json:"show_name"`
	Publisher   string `json:"publisher"`
	Duration    string `json:"duration"`
	ReleaseDate string `json:"release_date"`
	ImageURL    string `json:"image_url,omitempty"`
}

// ShowMetadata contains podcast show information.
type ShowMetadata struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Publisher   string `json:"publisher"`
	ImageURL    string `json:"image_url,omitempty"`
}

const unknownField = "Unknown"

var spotifyURLPattern = regexp.MustCompile(`^https://open\.spotify\.com/(episode|show)/([a-zA-Z0-9]+)(?:\?.*)?$`)

// Spotify extracts podcast metadata from Spotify pages without
// authentication.
type Spotify struct {
	httpClient *http.Client
	verbose    bool
}

// NewSpotify creates a new metadata extractor
func NewSpotify(verbose bool) *Spotify {
	return &Spotify{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		verbose:    verbose,
	}
}

// IsValidSpotifyURL checks whether url points at a Spotify episode or show
func IsValidSpotifyURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Host != "open.spotify.com" && u.Host != "spotify.com" {
		return false
	}
	return strings.HasPrefix(u.Path, "/episode/") || strings.HasPrefix(u.Path, "/show/")
}

// ExtractSpotifyID extracts the content type and ID from a Spotify URL
func ExtractSpotifyID(rawURL string) (contentType, id string, err error) {
	match := spotifyURLPattern.FindStringSubmatch(strings.TrimSpace(rawURL))
	if match == nil {
		return "", "", fmt.Errorf("invalid Spotify URL format: %s", rawURL)
	}
	return match[1], match[2], nil
}

// EpisodeMetadata fetches and parses the metadata of a podcast episode.
func (sp *Spotify) EpisodeMetadata(ctx context.Context, spotifyURL string) (*EpisodeMetadata, error) {
	if !IsValidSpotifyURL(spotifyURL) {
		return nil, fmt.Errorf("invalid Spotify URL: %s", spotifyURL)
	}

	doc, err := sp.fetchPage(ctx, spotifyURL)
	if err != nil {
		return nil, err
	}

	metadata := &EpisodeMetadata{
		URL:         spotifyURL,
		Title:       unknownField,
		ShowName:    unknownField,
		Publisher:   unknownField,
		Duration:    unknownField,
		ReleaseDate: unknownField,
	}

	if sp.parseEpisodeJSONLD(doc, metadata) {
		return metadata, nil
	}

	// Fallback: open graph meta tags
	if title, ok := metaProperty(doc, "og:title"); ok {
		metadata.Title = title
	}
	if desc, ok := metaProperty(doc, "og:description"); ok {
		metadata.Description = desc
	}
	if image, ok := metaProperty(doc, "og:image"); ok {
		metadata.ImageURL = image
	}

	// Page titles look like "Episode Name | Show Name | Spotify"
	if metadata.Title == unknownField {
		pageTitle := strings.TrimSpace(doc.Find("title").First().Text())
		if parts := strings.Split(pageTitle, " | "); len(parts) >= 2 {
			metadata.Title = strings.TrimSpace(parts[0])
			metadata.ShowName = strings.TrimSpace(parts[1])
		}
	}

	// Descriptions often start with "Show Name · Episode"
	if metadata.ShowName == unknownField && metadata.Description != "" {
		if parts := strings.Split(metadata.Description, " · "); len(parts) >= 1 {
			show := strings.TrimSpace(parts[0])
			if show != "" && show != unknownField && len(show) > 3 {
				metadata.ShowName = show
			}
		}
	}

	return metadata, nil
}

// ShowMetadata fetches and parses the metadata of a podcast show.
func (sp *Spotify) ShowMetadata(ctx context.Context, spotifyURL string) (*ShowMetadata, error) {
	if !IsValidSpotifyURL(spotifyURL) {
		return nil, fmt.Errorf("invalid Spotify URL: %s", spotifyURL)
	}
	contentType, _, err := ExtractSpotifyID(spotifyURL)
	if err != nil {
		return nil, err
	}
	if contentType != "show" {
		return nil, fmt.Errorf("URL must be a show, not %s", contentType)
	}

	doc, err := sp.fetchPage(ctx, spotifyURL)
	if err != nil {
		return nil, err
	}

	metadata := &ShowMetadata{
		URL:       spotifyURL,
		Name:      unknownField,
		Publisher: unknownField,
	}

	if sp.parseShowJSONLD(doc, metadata) {
		return metadata, nil
	}

	if name, ok := metaProperty(doc, "og:title"); ok {
		metadata.Name = name
	}
	if desc, ok := metaProperty(doc, "og:description"); ok {
		metadata.Description = desc
	}
	if image, ok := metaProperty(doc, "og:image"); ok {
		metadata.ImageURL = image
	}

	return metadata, nil
}

// fetchPage downloads a Spotify page and parses it
func (sp *Spotify) fetchPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if sp.verbose {
		fmt.Printf("Fetching %s\n", pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := sp.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching webpage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching webpage: unexpected status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing webpage: %w", err)
	}
	return doc, nil
}

// jsonLDEntity models the subset of schema.org data Spotify embeds in its
// pages. Image and publisher appear both as plain strings and as objects.
type jsonLDEntity struct {
	Type          string          `json:"@type"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Duration      string          `json:"duration"`
	DatePublished string          `json:"datePublished"`
	Image         json.RawMessage `json:"image"`
	Publisher     json.RawMessage `json:"publisher"`
	PartOfSeries  *jsonLDSeries   `json:"partOfSeries"`
}

type jsonLDSeries struct {
	Name      string          `json:"name"`
	Publisher json.RawMessage `json:"publisher"`
}

// parseEpisodeJSONLD fills metadata from the page's JSON-LD blocks.
// Returns true when a PodcastEpisode entity was found.
func (sp *Spotify) parseEpisodeJSONLD(doc *goquery.Document, metadata *EpisodeMetadata) bool {
	found := false
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		entity, ok := decodeJSONLD(s.Text())
		if !ok || entity.Type != "PodcastEpisode" {
			return true
		}

		if entity.Name != "" {
			metadata.Title = entity.Name
		}
		if entity.Description != "" {
			metadata.Description = entity.Description
		}
		if entity.Duration != "" {
			metadata.Duration = entity.Duration
		}
		if entity.DatePublished != "" {
			metadata.ReleaseDate = entity.DatePublished
		}
		if entity.PartOfSeries != nil {
			if entity.PartOfSeries.Name != "" {
				metadata.ShowName = entity.PartOfSeries.Name
			}
			if publisher := rawName(entity.PartOfSeries.Publisher); publisher != "" {
				metadata.Publisher = publisher
			}
		}
		if image := rawImageURL(entity.Image); image != "" {
			metadata.ImageURL = image
		}

		found = true
		return false
	})
	return found
}

// parseShowJSONLD fills show metadata from the page's JSON-LD blocks.
func (sp *Spotify) parseShowJSONLD(doc *goquery.Document, metadata *ShowMetadata) bool {
	found := false
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		entity, ok := decodeJSONLD(s.Text())
		if !ok || entity.Type != "PodcastSeries" {
			return true
		}

		if entity.Name != "" {
			metadata.Name = entity.Name
		}
		if entity.Description != "" {
			metadata.Description = entity.Description
		}
		if publisher := rawName(entity.Publisher); publisher != "" {
			metadata.Publisher = publisher
		}
		if image := rawImageURL(entity.Image); image != "" {
			metadata.ImageURL = image
		}

		found = true
		return false
	})
	return found
}

// decodeJSONLD parses one JSON-LD script body, which may hold a single
// entity or a list of them.
func decodeJSONLD(text string) (*jsonLDEntity, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	var entity jsonLDEntity
	if err := json.Unmarshal([]byte(text), &entity); err == nil && entity.Type != "" {
		return &entity, true
	}

	var entities []jsonLDEntity
	if err := json.Unmarshal([]byte(text), &entities); err == nil && len(entities) > 0 {
		return &entities[0], true
	}

	return nil, false
}

// rawName extracts a name from a value that is either a plain string or an
// object with a "name" field.
func rawName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Name
	}
	return ""
}

// rawImageURL extracts an image URL from a string or an object with "url".
func rawImageURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.URL
	}
	return ""
}

func metaProperty(doc *goquery.Document, property string) (string, bool) {
	content, exists := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First().Attr("content")
	if !exists || strings.TrimSpace(content) == "" {
		return "", false
	}
	return content, true
}
