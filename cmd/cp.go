package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/podsum/podsum/internal"
)

// cpCmd copies the summary of a transcript file to the system clipboard
// instead of printing to stdout.
var cpCmd = &cobra.Command{
	Use:   "cp [transcript file]",
	Short: "Summarize a transcript file and copy the summary to the clipboard",
	Example: `  # Copy summary to clipboard
  podsum cp transcript.txt

  # Brief summary
  podsum cp transcript.txt --type brief`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateOpenAIRequirements(cmd, config); err != nil {
			return err
		}

		summaryType, err := internal.HandleSummaryFlags(cmd, config)
		if err != nil {
			return err
		}

		app := internal.NewApp(config)
		if err := internal.HandlePromptFlag(cmd, app); err != nil {
			return err
		}

		text, err := readTranscriptFile(args[0])
		if err != nil {
			return err
		}

		summary, err := app.SummarizeText(cmd.Context(), text, summaryType, 0)
		if err != nil {
			return err
		}

		if err := clipboard.WriteAll(summary.Text); err != nil {
			return fmt.Errorf("copying summary to clipboard: %w", err)
		}

		if !config.Quiet {
			fmt.Println("Summary copied to clipboard")
		}

		return nil
	},
}

func init() {
	internal.AddSummaryFlags(cpCmd)
	internal.AddOpenAIFlags(cpCmd)
	rootCmd.AddCommand(cpCmd)
}
