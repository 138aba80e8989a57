package cmd

import (
	"github.com/spf13/cobra"

	"github.com/podsum/podsum/internal"
)

// processCmd runs the full pipeline, same as the bare root command
var processCmd = &cobra.Command{
	Use:   "process [Spotify episode URL or audio file]",
	Short: "Run the full pipeline: metadata, download, transcribe, summarize",
	Example: `  podsum process "https://open.spotify.com/episode/4rOoJ6Egrf8K2IrywzwOMk"
  podsum process ./interview.mp3 --type brief --topics 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd, args[0])
	},
}

func init() {
	internal.AddSummaryFlags(processCmd)
	internal.AddOpenAIFlags(processCmd)
	internal.AddDownloadFlags(processCmd)
	processCmd.Flags().Int("topics", 0, "Extract N key topics from the transcript")
	rootCmd.AddCommand(processCmd)
}
