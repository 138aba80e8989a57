package internal

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const episodePageHTML = `<!DOCTYPE html>
<html>
<head>
<title>The Future of AI | Tech Talks | Spotify</title>
<meta property="og:title" content="The Future of AI" />
<meta property="og:description" content="Tech Talks · Episode" />
<meta property="og:image" content="https://i.scdn.co/image/og.jpg" />
<script type="application/ld+json">
{
  "@type": "PodcastEpisode",
  "name": "The Future of AI",
  "description": "A deep dive into machine learning trends.",
  "duration": "PT58M",
  "datePublished": "2026-03-14",
  "image": {"url": "https://i.scdn.co/image/episode.jpg"},
  "partOfSeries": {
    "name": "Tech Talks",
    "publisher": {"name": "Tech Talks Media"}
  }
}
</script>
</head>
<body></body>
</html>`

const showPageHTML = `<!DOCTYPE html>
<html>
<head>
<script type="application/ld+json">
[{
  "@type": "PodcastSeries",
  "name": "Tech Talks",
  "description": "Weekly conversations about technology.",
  "publisher": "Tech Talks Media",
  "image": "https://i.scdn.co/image/show.jpg"
}]
</script>
</head>
<body></body>
</html>`

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing test HTML: %v", err)
	}
	return doc
}

func TestIsValidSpotifyURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://open.spotify.com/episode/4rOoJ6Egrf8K2IrywzwOMk", true},
		{"https://open.spotify.com/episode/4rOoJ6Egrf8K2IrywzwOMk?si=xyz", true},
		{"https://open.spotify.com/show/4rOoJ6Egrf8K2IrywzwOMk", true},
		{"https://open.spotify.com/track/4rOoJ6Egrf8K2IrywzwOMk", false},
		{"https://example.com/episode/4rOoJ6Egrf8K2IrywzwOMk", false},
		{"not a url", false},
	}

	for _, tt := range tests {
		if got := IsValidSpotifyURL(tt.url); got != tt.want {
			t.Errorf("IsValidSpotifyURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestExtractSpotifyID(t *testing.T) {
	contentType, id, err := ExtractSpotifyID("https://open.spotify.com/episode/4rOoJ6Egrf8K2IrywzwOMk?si=xyz")
	if err != nil {
		t.Fatalf("ExtractSpotifyID: %v", err)
	}
	if contentType != "episode" {
		t.Errorf("expected content type episode, got %q", contentType)
	}
	if id != "4rOoJ6Egrf8K2IrywzwOMk" {
		t.Errorf("expected episode ID, got %q", id)
	}

	if _, _, err := ExtractSpotifyID("https://example.com/whatever"); err == nil {
		t.Error("expected error for non-Spotify URL")
	}
}

func TestParseEpisodeJSONLD(t *testing.T) {
	sp := NewSpotify(false)
	doc := docFromHTML(t, episodePageHTML)

	metadata := &EpisodeMetadata{
		Title:       unknownField,
		ShowName:    unknownField,
		Publisher:   unknownField,
		Duration:    unknownField,
		ReleaseDate: unknownField,
	}
	if !sp.parseEpisodeJSONLD(doc, metadata) {
		t.Fatal("expected JSON-LD episode entity to be found")
	}

	if metadata.Title != "The Future of AI" {
		t.Errorf("title = %q", metadata.Title)
	}
	if metadata.ShowName != "Tech Talks" {
		t.Errorf("show = %q", metadata.ShowName)
	}
	if metadata.Publisher != "Tech Talks Media" {
		t.Errorf("publisher = %q", metadata.Publisher)
	}
	if metadata.Duration != "PT58M" {
		t.Errorf("duration = %q", metadata.Duration)
	}
	if metadata.ReleaseDate != "2026-03-14" {
		t.Errorf("release date = %q", metadata.ReleaseDate)
	}
	if metadata.ImageURL != "https://i.scdn.co/image/episode.jpg" {
		t.Errorf("image = %q", metadata.ImageURL)
	}
}

func TestParseShowJSONLDArrayForm(t *testing.T) {
	sp := NewSpotify(false)
	doc := docFromHTML(t, showPageHTML)

	metadata := &ShowMetadata{Name: unknownField, Publisher: unknownField}
	if !sp.parseShowJSONLD(doc, metadata) {
		t.Fatal("expected JSON-LD show entity to be found")
	}

	if metadata.Name != "Tech Talks" {
		t.Errorf("name = %q", metadata.Name)
	}
	if metadata.Publisher != "Tech Talks Media" {
		t.Errorf("publisher = %q", metadata.Publisher)
	}
	if metadata.ImageURL != "https://i.scdn.co/image/show.jpg" {
		t.Errorf("image = %q", metadata.ImageURL)
	}
}

func TestMetaPropertyFallback(t *testing.T) {
	// Page without JSON-LD falls back to open graph tags and the title split.
	html := `<html><head>
<title>Episode Name | Show Name | Spotify</title>
<meta property="og:description" content="Show Name · Episode" />
</head><body></body></html>`
	doc := docFromHTML(t, html)

	if _, ok := metaProperty(doc, "og:title"); ok {
		t.Error("expected missing og:title")
	}
	desc, ok := metaProperty(doc, "og:description")
	if !ok || desc != "Show Name · Episode" {
		t.Errorf("og:description = %q, ok = %v", desc, ok)
	}

	sp := NewSpotify(false)
	metadata := &EpisodeMetadata{Title: unknownField, ShowName: unknownField}
	if sp.parseEpisodeJSONLD(doc, metadata) {
		t.Error("expected no JSON-LD entity on fallback page")
	}
}

func TestDecodeJSONLDRejectsGarbage(t *testing.T) {
	for _, text := range []string{"", "not json", "[]", `{"no":"type"}`} {
		if _, ok := decodeJSONLD(text); ok {
			t.Errorf("decodeJSONLD(%q) unexpectedly succeeded", text)
		}
	}
}
