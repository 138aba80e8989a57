package internal

import (
	"strings"
	"testing"
)

func TestSearchQueriesPrimaryFirst(t *testing.T) {
	queries := SearchQueries("The Future of AI Agents", "Tech Talks")

	if len(queries) == 0 {
		t.Fatal("expected at least one query")
	}
	if queries[0] != "Tech Talks The Future of AI Agents" {
		t.Errorf("unexpected primary query: %q", queries[0])
	}
}

func TestSearchQueriesFallbacksShortened(t *testing.T) {
	queries := SearchQueries("Building Distributed Systems From Scratch Today", "Tech Talks")

	if len(queries) < 2 {
		t.Fatalf("expected fallback queries, got %v", queries)
	}

	// Fallbacks use 3 then 2 key title words.
	if queries[1] != "Tech Talks Building Distributed Systems" {
		t.Errorf("unexpected 3-word fallback: %q", queries[1])
	}
	last := queries[len(queries)-1]
	if last != "Tech Talks Building Distributed" {
		t.Errorf("unexpected 2-word fallback: %q", last)
	}
}

func TestSearchQueriesDeduplicates(t *testing.T) {
	// Without substitutable terms the substituted variant equals the plain
	// one and must not be emitted twice.
	queries := SearchQueries("Building Distributed Systems From Scratch", "Show")
	seen := map[string]bool{}
	for _, q := range queries {
		if seen[q] {
			t.Errorf("duplicate query: %q", q)
		}
		seen[q] = true
	}
}

func TestSearchQueriesAppliesTermSubstitutions(t *testing.T) {
	queries := SearchQueries("ChatGPT Changes Everything Again Folks", "AI Weekly")

	var foundSubstituted bool
	for _, q := range queries {
		if strings.Contains(q, "OpenAI") {
			foundSubstituted = true
		}
	}
	if !foundSubstituted {
		t.Errorf("expected a substituted fallback query, got %v", queries)
	}
}

func TestApplyTermSubstitutions(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ChatGPT deep dive", "OpenAI deep dive"},
		{"chatgpt lowercase", "OpenAI lowercase"},
		{"GPT-OSS release", "OpenAI release"},
		{"keeping EGPT intact", "keeping EGPT intact"},
		{"nothing to change", "nothing to change"},
	}

	for _, tt := range tests {
		if got := applyTermSubstitutions(tt.in); got != tt.want {
			t.Errorf("applyTermSubstitutions(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKeyTitleWords(t *testing.T) {
	words := keyTitleWords("The Rise and Fall of a Startup, with Guests!")

	want := []string{"Rise", "Fall", "Startup", "Guests"}
	if len(words) != len(want) {
		t.Fatalf("expected %v, got %v", want, words)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("word %d: expected %q, got %q", i, want[i], words[i])
		}
	}
}

func TestParseSearchResult(t *testing.T) {
	stdout := `{"entries": [{"id": "abc123", "title": "Episode Video", "uploader": "Tech Talks", "webpage_url": "https://www.youtube.com/watch?v=abc123", "duration": 3480}]}`

	video, err := parseSearchResult(stdout)
	if err != nil {
		t.Fatalf("parseSearchResult: %v", err)
	}
	if video.ID != "abc123" || video.Title != "Episode Video" || video.Duration != 3480 {
		t.Errorf("unexpected video: %+v", video)
	}

	if _, err := parseSearchResult(`{"entries": []}`); err == nil {
		t.Error("expected error for empty entries")
	}
	if _, err := parseSearchResult("not json"); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestConfirmVideoAutoConfirm(t *testing.T) {
	d := NewDownloader(t.TempDir(), true, false, NewUIManager(false, true))

	video := &FoundVideo{ID: "abc", Title: "Some Video", URL: "https://youtu.be/abc"}
	if err := d.confirmVideo(video); err != nil {
		t.Errorf("auto-confirm should not error: %v", err)
	}
}

func TestConfirmVideoDeclined(t *testing.T) {
	orig := AskUser
	AskUser = func(message string) bool { return false }
	defer func() { AskUser = orig }()

	d := NewDownloader(t.TempDir(), false, false, NewUIManager(false, true))
	video := &FoundVideo{ID: "abc", Title: "Some Video"}
	if err := d.confirmVideo(video); err == nil {
		t.Error("expected error when user declines")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "Unknown"},
		{59, "0:59"},
		{3480, "58:00"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.seconds); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
