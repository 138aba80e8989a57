package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/podsum/podsum/internal"
)

// readTranscriptFile reads transcript text from a file and validates it is
// not empty.
func readTranscriptFile(path string) (string, error) {
	if !internal.FileExists(path) {
		return "", fmt.Errorf("transcript file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading transcript file: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("transcript file is empty: %s", path)
	}

	return text, nil
}
