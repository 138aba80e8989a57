package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App) *MCPServer {
	mcpServer := server.NewMCPServer(
		"podsum-server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	// get_episode_metadata tool
	s.mcpServer.AddTool(mcp.NewTool("get_episode_metadata",
		mcp.WithDescription("Scrape podcast episode metadata (title, show, description, duration, release date) from a Spotify episode URL. Free and fast; results are cached."),
		mcp.WithString("url",
			mcp.Description("Spotify episode URL"),
			mcp.Required(),
		),
	), s.handleGetMetadata)

	// transcribe_audio tool (paid - Whisper transcription)
	s.mcpServer.AddTool(mcp.NewTool("transcribe_audio",
		mcp.WithDescription("Transcribe a local audio file using OpenAI Whisper API (PAID). Requires OPENAI_API_KEY to be set. Returns the timestamped transcript. Always ask user for confirmation before calling this tool."),
		mcp.WithString("file",
			mcp.Description("Path to a local audio file"),
			mcp.Required(),
		),
	), s.handleTranscribeAudio)

	// summarize_episode tool (paid - runs the whole pipeline)
	s.mcpServer.AddTool(mcp.NewTool("summarize_episode",
		mcp.WithDescription("Run the full pipeline for a Spotify episode: scrape metadata, download audio from YouTube, transcribe with Whisper (PAID), and produce a segmented summary. Requires OPENAI_API_KEY. Always ask user for confirmation before calling this tool."),
		mcp.WithString("url",
			mcp.Description("Spotify episode URL"),
			mcp.Required(),
		),
		mcp.WithString("summary_type",
			mcp.Description("Summary style: brief, comprehensive, or bullet_points (default comprehensive)"),
		),
	), s.handleSummarizeEpisode)
}

// handleGetMetadata implements the get_episode_metadata tool
func (s *MCPServer) handleGetMetadata(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}

	MCPLogInfo("get_episode_metadata %s", url)
	metadata, err := s.app.Metadata(ctx, url)
	if err != nil {
		MCPLogError("metadata error for %s: %v", url, err)
		return mcp.NewToolResultErrorFromErr("metadata error", err), nil
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("Title: %s\n", metadata.Title))
	buf.WriteString(fmt.Sprintf("Show: %s\n", metadata.ShowName))
	if metadata.Publisher != "" && metadata.Publisher != "Unknown" {
		buf.WriteString(fmt.Sprintf("Publisher: %s\n", metadata.Publisher))
	}
	buf.WriteString(fmt.Sprintf("Duration: %s\n", metadata.Duration))
	buf.WriteString(fmt.Sprintf("Released: %s\n", metadata.ReleaseDate))
	buf.WriteString(fmt.Sprintf("Description: %s\n", metadata.Description))

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// handleTranscribeAudio implements the transcribe_audio tool
func (s *MCPServer) handleTranscribeAudio(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := request.RequireString("file")
	if err != nil {
		return mcp.NewToolResultError("file parameter is required and must be a string"), nil
	}
	if !FileExists(file) {
		return mcp.NewToolResultError(fmt.Sprintf("audio file not found: %s", file)), nil
	}

	MCPLogInfo("transcribe_audio %s", file)
	result, err := s.app.TranscribeFile(ctx, file, "")
	if err != nil {
		MCPLogError("transcription error for %s: %v", file, err)
		return mcp.NewToolResultErrorFromErr("failed to transcribe audio with Whisper", err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(FormatTranscriptText(result.Transcription))},
	}, nil
}

// handleSummarizeEpisode implements the summarize_episode tool
func (s *MCPServer) handleSummarizeEpisode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}

	summaryType := SummaryComprehensive
	if typeArg := request.GetString("summary_type", ""); typeArg != "" {
		summaryType, err = ParseSummaryType(typeArg)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("invalid summary_type", err), nil
		}
	}

	MCPLogInfo("summarize_episode %s type=%s", url, summaryType)
	metadata, err := s.app.Metadata(ctx, url)
	if err != nil {
		MCPLogError("metadata error for %s: %v", url, err)
		return mcp.NewToolResultErrorFromErr("metadata error", err), nil
	}

	audioFile, err := s.app.DownloadEpisodeAudio(ctx, metadata)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to download audio", err), nil
	}

	transcription, err := s.app.TranscribeFile(ctx, audioFile, Slugify(metadata.Title))
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to transcribe audio with Whisper", err), nil
	}

	result, err := s.app.SummarizeTranscription(ctx, transcription, summaryType, 0)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to summarize transcript", err), nil
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to encode result", err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(data))},
	}, nil
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httpServer.Start(addr)
	}

	// Default to stdio transport
	return server.ServeStdio(s.mcpServer)
}

// GetServer returns the underlying MCP server for advanced configuration
func (s *MCPServer) GetServer() *server.MCPServer {
	return s.mcpServer
}
