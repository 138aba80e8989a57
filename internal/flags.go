package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddSummaryFlags adds flags related to summarization functionality
func AddSummaryFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("type", "t", string(SummaryComprehensive), "Summary type (brief, comprehensive, bullet_points)")
	cmd.Flags().Int("chunk-duration", 0, "Transcript bucket size in seconds")
	cmd.Flags().Bool("no-chunks", false, "Summarize the whole transcript in a single pass")
}

// AddOpenAIFlags adds flags related to OpenAI API functionality
func AddOpenAIFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("model", "m", "", "OpenAI model to use for summaries")
	cmd.Flags().StringP("prompt", "p", "", "Custom prompt (string or file path)")
}

// AddDownloadFlags adds flags related to audio download functionality
func AddDownloadFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("yes", "y", false, "Download the first search result without asking")
}

// HandlePromptFlag processes the --prompt flag to set custom prompt
func HandlePromptFlag(cmd *cobra.Command, app *App) error {
	// Check if prompt flag was explicitly set
	promptFlag := cmd.Flags().Lookup("prompt")
	if promptFlag == nil || !promptFlag.Changed {
		return nil
	}

	prompt, err := cmd.Flags().GetString("prompt")
	if err != nil {
		return fmt.Errorf("failed to get prompt flag: %w", err)
	}

	// If prompt is empty, nothing to do
	if prompt == "" {
		return nil
	}

	// Create a new PromptManager with the specified prompt
	app.SetPromptManager(NewPromptManager(app.config.ConfigDir, prompt))

	// Check if it's a file path or a prompt string for verbose output
	if IsLikelyFilePath(prompt) && FileExists(prompt) {
		if app.config.Verbose {
			fmt.Printf("Using custom prompt file: %s\n", prompt)
		}
	} else {
		if app.config.Verbose {
			fmt.Printf("Using custom prompt string\n")
		}
	}

	return nil
}

// HandleVerboseFlag processes the --verbose flag to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	config.Verbose = verbose
	return nil
}

// HandleSummaryFlags applies summary-related flags onto the config and
// returns the requested summary type.
func HandleSummaryFlags(cmd *cobra.Command, config *Config) (SummaryType, error) {
	typeFlag, err := cmd.Flags().GetString("type")
	if err != nil {
		return "", fmt.Errorf("failed to get type flag: %w", err)
	}
	summaryType, err := ParseSummaryType(typeFlag)
	if err != nil {
		return "", err
	}

	if cmd.Flags().Changed("chunk-duration") {
		duration, err := cmd.Flags().GetInt("chunk-duration")
		if err != nil {
			return "", fmt.Errorf("failed to get chunk-duration flag: %w", err)
		}
		if duration <= 0 {
			return "", ErrInvalidChunkDuration
		}
		config.ChunkDuration = duration
	}

	return summaryType, nil
}

// ValidateOpenAIRequirements validates OpenAI API key and model from command flags and config
func ValidateOpenAIRequirements(cmd *cobra.Command, config *Config) error {
	// Check OpenAI API key
	if err := ValidateOpenAIAPIKey(config.OpenAIAPIKey); err != nil {
		return err
	}

	// Handle model flag if provided
	modelFlag, _ := cmd.Flags().GetString("model")
	if modelFlag != "" {
		if err := ValidateModel(modelFlag); err != nil {
			return err
		}
		config.SummaryModel = modelFlag
	} else if err := ValidateModel(config.SummaryModel); err != nil {
		return fmt.Errorf("invalid model in config: %w", err)
	}

	return nil
}
