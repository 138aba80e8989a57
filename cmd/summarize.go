package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/podsum/podsum/internal"
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize [transcript file]",
	Short: "Summarize an existing transcript text file",
	Example: `  # Summarize a transcript
  podsum summarize transcript.txt

  # Bullet points with key topics
  podsum summarize transcript.txt --type bullet_points --topics 5

  # Use custom prompt
  podsum summarize transcript.txt --prompt "tldr: {{.Transcript}}"`,
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

		text, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading transcript file: %w", err)
		}

		topics, _ := cmd.Flags().GetInt("topics")
		summary, err := app.SummarizeText(cmd.Context(), string(text), summaryType, topics)
		if err != nil {
			return err
		}

		rendered, err := internal.RenderMarkdown(summary.Text)
		if err != nil {
			return err
		}
		fmt.Println(rendered)

		if len(summary.KeyTopics) > 0 {
			fmt.Println("Key topics:")
			for _, topic := range summary.KeyTopics {
				fmt.Printf("  - %s\n", topic)
			}
		}

		return nil
	},
}

func init() {
	internal.AddSummaryFlags(summarizeCmd)
	internal.AddOpenAIFlags(summarizeCmd)
	summarizeCmd.Flags().Int("topics", 0, "Extract N key topics from the transcript")
	rootCmd.AddCommand(summarizeCmd)
}
