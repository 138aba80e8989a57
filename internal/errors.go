package internal

import "errors"

var (
	// ErrTextTooShort is returned when input has too few words for a
	// meaningful summary (minimum enforced by the summarizer).
	ErrTextTooShort = errors.New("text too short for meaningful summarization")

	// ErrInvalidSummaryType is returned for unsupported summary type values.
	ErrInvalidSummaryType = errors.New("invalid summary type")

	// ErrInvalidChunkDuration is returned when the configured chunk duration
	// is not a positive number of seconds.
	ErrInvalidChunkDuration = errors.New("chunk duration must be positive")

	// ErrDownloadFailed marks a yt-dlp download failure that callers may
	// retry with a different search query.
	ErrDownloadFailed = errors.New("audio download failed")

	// ErrNoSearchResults is returned when every search query variation came
	// back empty.
	ErrNoSearchResults = errors.New("no videos found for any search query")
)
