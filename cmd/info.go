package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/podsum/podsum/internal"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [Spotify episode or show URL]",
	Short: "Get podcast metadata from Spotify",
	Example: `  # Get episode metadata
  podsum info "https://open.spotify.com/episode/4rOoJ6Egrf8K2IrywzwOMk"

  # Get show metadata
  podsum info "https://open.spotify.com/show/4rOoJ6Egrf8K2IrywzwOMk"

  # Save metadata to file
  podsum info "https://open.spotify.com/episode/4rOoJ6Egrf8K2IrywzwOMk" -o metadata.json

  # Format output as pretty JSON
  podsum info "https://open.spotify.com/episode/4rOoJ6Egrf8K2IrywzwOMk" --pretty`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contentType, _, err := internal.ExtractSpotifyID(args[0])
		if err != nil {
			return err
		}

		app := internal.NewApp(config)

		var result any
		if contentType == "show" {
			result, err = internal.NewSpotify(config.Verbose).ShowMetadata(cmd.Context(), args[0])
		} else {
			result, err = app.Metadata(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}

		// Convert metadata to JSON
		var jsonData []byte
		pretty, _ := cmd.Flags().GetBool("pretty")
		if pretty {
			jsonData, err = json.MarshalIndent(result, "", "  ")
		} else {
			jsonData, err = json.Marshal(result)
		}
		if err != nil {
			return fmt.Errorf("error converting metadata to JSON: %w", err)
		}

		// Handle output flag
		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			return os.WriteFile(outputFile, jsonData, 0644)
		}

		fmt.Println(string(jsonData))

		return nil
	},
}

func init() {
	infoCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	infoCmd.Flags().Bool("pretty", false, "Format output as pretty JSON")
	rootCmd.AddCommand(infoCmd)
}
