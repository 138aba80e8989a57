package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreatePromptFromString(t *testing.T) {
	pm := NewPromptManager(t.TempDir(), "Summarize {{.Title}} from {{.Show}}: {{.Transcript}}")

	metadata := &EpisodeMetadata{Title: "Episode One", ShowName: "Tech Talks"}
	prompt, err := pm.CreatePrompt("the transcript body", metadata)
	if err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}

	want := "Summarize Episode One from Tech Talks: the transcript body"
	if prompt != want {
		t.Errorf("expected %q, got %q", want, prompt)
	}
}

func TestCreatePromptFromFile(t *testing.T) {
	dir := t.TempDir()
	promptFile := filepath.Join(dir, "custom.txt")
	if err := os.WriteFile(promptFile, []byte("tldr: {{.Transcript}}"), 0644); err != nil {
		t.Fatal(err)
	}

	pm := NewPromptManager(dir, promptFile)
	if !pm.HasCustomPrompt() {
		t.Error("expected custom prompt to be detected")
	}

	prompt, err := pm.CreatePrompt("episode text", nil)
	if err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}
	if prompt != "tldr: episode text" {
		t.Errorf("unexpected prompt: %q", prompt)
	}
}

func TestCreatePromptDefaultTemplate(t *testing.T) {
	configDir := t.TempDir()
	if err := EnsureDefaultPrompt(configDir); err != nil {
		t.Fatalf("EnsureDefaultPrompt: %v", err)
	}

	pm := NewPromptManager(configDir, "")
	if pm.HasCustomPrompt() {
		t.Error("expected no custom prompt")
	}

	metadata := &EpisodeMetadata{Title: "Episode One", ShowName: "Tech Talks"}
	prompt, err := pm.CreatePrompt("the transcript body", metadata)
	if err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}

	if !strings.Contains(prompt, "the transcript body") {
		t.Error("prompt missing transcript")
	}
	if !strings.Contains(prompt, "Episode One") || !strings.Contains(prompt, "Tech Talks") {
		t.Error("prompt missing metadata")
	}
}

func TestCreatePromptInvalidTemplate(t *testing.T) {
	pm := NewPromptManager(t.TempDir(), "broken {{.Transcript")
	if _, err := pm.CreatePrompt("text", nil); err == nil {
		t.Error("expected template parse error")
	}
}
