package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/podsum/podsum/internal"
)

// transcribeCmd represents the transcribe command
var transcribeCmd = &cobra.Command{
	Use:   "transcribe [Spotify episode URL or audio file]",
	Short: "Transcribe episode audio with OpenAI Whisper",
	Example: `  # Transcribe a local recording
  podsum transcribe ./interview.mp3

  # Transcribe a Spotify episode (downloads audio first)
  podsum transcribe "https://open.spotify.com/episode/4rOoJ6Egrf8K2IrywzwOMk"

  # Save as subtitles
  podsum transcribe ./interview.mp3 --format srt -o interview.srt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateOpenAIAPIKey(config.OpenAIAPIKey); err != nil {
			return err
		}
		if yes, _ := cmd.Flags().GetBool("yes"); yes {
			config.AutoConfirm = true
		}
		if cmd.Flags().Changed("chunk-duration") {
			duration, _ := cmd.Flags().GetInt("chunk-duration")
			if duration <= 0 {
				return internal.ErrInvalidChunkDuration
			}
			config.ChunkDuration = duration
		}

		app := internal.NewApp(config)

		var audioFile, slug string
		kind, normalized := internal.ParseInput(args[0])
		switch kind {
		case internal.InputSpotifyURL:
			metadata, err := app.Metadata(cmd.Context(), normalized)
			if err != nil {
				return fmt.Errorf("fetching episode metadata: %w", err)
			}
			audioFile, err = app.DownloadEpisodeAudio(cmd.Context(), metadata)
			if err != nil {
				return err
			}
			slug = internal.Slugify(metadata.Title)
		case internal.InputAudioFile:
			audioFile = normalized
		default:
			return fmt.Errorf("'%s' doesn't look like a Spotify URL or audio file", args[0])
		}

		result, err := app.TranscribeFile(cmd.Context(), audioFile, slug)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		var output string
		switch format {
		case "json":
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding transcript: %w", err)
			}
			output = string(data)
		case "srt":
			output = internal.FormatSRT(result.Transcription)
		case "txt":
			output = internal.FormatTranscriptText(result.Transcription)
		default:
			return fmt.Errorf("unsupported format: %s (supported: txt, json, srt)", format)
		}

		// Handle output flag
		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			return os.WriteFile(outputFile, []byte(output), 0644)
		}

		fmt.Println(output)
		return nil
	},
}

func init() {
	internal.AddDownloadFlags(transcribeCmd)
	transcribeCmd.Flags().StringP("format", "f", "txt", "Output format (txt, json, srt)")
	transcribeCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	transcribeCmd.Flags().Int("chunk-duration", 0, "Transcript bucket size in seconds")
	rootCmd.AddCommand(transcribeCmd)
}
