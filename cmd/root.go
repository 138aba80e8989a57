package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/podsum/podsum/internal"
)

var (
	config *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "podsum [Spotify episode URL or audio file]",
	Short: "Podcast episode summarizer",
	Long: `Podsum summarizes podcast episodes using AI.

Given a Spotify episode URL it scrapes the episode metadata, finds the
episode on YouTube, downloads the audio, transcribes it with OpenAI's
Whisper API, and summarizes the transcript in timed segments.

Local audio files skip the metadata and download stages.`,
	Example: `  # Summarize a Spotify episode
  podsum "https://open.spotify.com/episode/4rOoJ6Egrf8K2IrywzwOMk"

  # Summarize a local recording
  podsum ./interview.mp3

  # Bullet-point summary with a specific model
  podsum ./interview.mp3 --type bullet_points --model gpt-4o

  # Use 10 minute transcript segments
  podsum "https://open.spotify.com/episode/4rOoJ6Egrf8K2IrywzwOMk" --chunk-duration 600`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return internal.HandleVerboseFlag(cmd, config)
	},
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd, args[0])
	},
}

// runProcess runs the full pipeline for a Spotify URL or a local audio file.
// Shared by the root command and the process subcommand.
func runProcess(cmd *cobra.Command, arg string) error {
	if err := internal.ValidateOpenAIRequirements(cmd, config); err != nil {
		return err
	}

	summaryType, err := internal.HandleSummaryFlags(cmd, config)
	if err != nil {
		return err
	}
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		config.AutoConfirm = true
	}

	app := internal.NewApp(config)
	if err := internal.HandlePromptFlag(cmd, app); err != nil {
		return err
	}

	topics, _ := cmd.Flags().GetInt("topics")
	noChunks, _ := cmd.Flags().GetBool("no-chunks")

	kind, normalized := internal.ParseInput(arg)
	switch kind {
	case internal.InputSpotifyURL:
		_, err := app.ProcessEpisode(cmd.Context(), normalized, summaryType, topics)
		return err
	case internal.InputAudioFile:
		_, err := app.ProcessAudioFile(cmd.Context(), normalized, summaryType, topics, noChunks)
		return err
	default:
		if suggestions := commandSuggestions(arg); len(suggestions) > 0 {
			return fmt.Errorf("'%s' doesn't look like a Spotify URL or audio file. Did you mean: %s?", arg, strings.Join(suggestions, ", "))
		}
		return fmt.Errorf("'%s' doesn't look like a Spotify URL or audio file. Use --help to see available commands", arg)
	}
}

// commandSuggestions matches a mistyped argument against subcommand names.
func commandSuggestions(arg string) []string {
	availableCommands := []string{"process", "transcribe", "summarize", "info", "models", "mcp", "version", "paths", "help"}
	var suggestions []string
	for _, cmdName := range availableCommands {
		if strings.Contains(cmdName, arg) || (len(arg) <= len(cmdName) && strings.Contains(arg, cmdName[:len(arg)])) {
			suggestions = append(suggestions, cmdName)
		}
	}
	return suggestions
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Create a cancellable context for the entire application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize configuration with Viper
	config = internal.InitConfig()

	// Ensure XDG directories exist
	if err := internal.EnsureDirs(config.ConfigDir, config.DataDir, config.CacheDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating XDG directories: %v\n", err)
		os.Exit(1)
	}

	// Ensure default config exists in XDG config directory
	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
	}

	// Ensure default prompt exists in XDG config directory
	if err := internal.EnsureDefaultPrompt(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default prompt: %v\n", err)
	}

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Handle shutdown signal in a separate goroutine
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt signal. Cleaning up and shutting down...")

		// Cancel the main context to signal all operations to stop
		cancel()

		// Create a context with timeout for cleanup operations
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cleanupCancel()

		// Run cleanup with timeout context
		cleanupDone := make(chan struct{})
		go func() {
			if err := internal.CleanupTempDir(config.TempDir); err != nil {
				fmt.Fprintf(os.Stderr, "Error cleaning up temporary files: %v\n", err)
			}
			close(cleanupDone)
		}()

		// Wait for either cleanup to complete or timeout
		select {
		case <-cleanupDone:
			// Cleanup completed successfully
		case <-cleanupCtx.Done():
			// Timeout occurred
			fmt.Fprintln(os.Stderr, "Warning: Cleanup timed out, forcing exit")
		}

		// Exit the program
		os.Exit(0)
	}()

	// Set context on root command
	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	internal.AddSummaryFlags(rootCmd)
	internal.AddOpenAIFlags(rootCmd)
	internal.AddDownloadFlags(rootCmd)
	rootCmd.Flags().Int("topics", 0, "Extract N key topics from the transcript")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $XDG_CONFIG_HOME/podsum/config.toml)")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}
