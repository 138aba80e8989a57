package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/podsum/podsum/internal"
)

// modelsCmd lists the OpenAI models the summarizer supports
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List supported OpenAI models",
	Example: `  # Show supported models
  podsum models`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Supported summary models:")
		for _, model := range []string{"gpt-4o", "gpt-4o-mini", "o4-mini", "gpt-4.1-nano"} {
			marker := " "
			if model == config.SummaryModel {
				marker = "*"
			}
			fmt.Printf("  %s %s\n", marker, model)
		}
		fmt.Println("\nTranscription always uses whisper-1.")
		if err := internal.ValidateModel(config.SummaryModel); err != nil {
			fmt.Printf("\nWarning: configured model is not supported: %s\n", config.SummaryModel)
		}
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
