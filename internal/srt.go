package internal

import (
	"fmt"
	"strings"
)

// FormatSRT renders a transcription's segments as a SubRip subtitle file.
func FormatSRT(t *Transcription) string {
	var sb strings.Builder
	for i, seg := range t.Segments {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", srtTimestamp(seg.Start), srtTimestamp(seg.End)))
		sb.WriteString(strings.TrimSpace(seg.Text))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// srtTimestamp renders seconds as HH:MM:SS,mmm
func srtTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int(seconds*1000 + 0.5)
	h := millis / 3600000
	m := millis % 3600000 / 60000
	s := millis % 60000 / 1000
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
