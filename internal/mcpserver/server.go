// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the Dagaz journal tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/dagaz/internal/api"
	"github.com/starford/dagaz/internal/journal"
	"github.com/starford/dagaz/internal/models"
)

// minInsightEntries mirrors the API-side policy: insight generation is
// withheld until the journal holds enough entries to correlate.
const minInsightEntries = 3

// Server wraps the MCP server with Dagaz tools.
type Server struct {
	mcp      *server.MCPServer
	repo     *journal.Repository
	analyzer api.Analyzer
}

// New creates a new MCP server with all Dagaz tools registered.
func New(repo *journal.Repository, analyzer api.Analyzer) *Server {
	s := &Server{repo: repo, analyzer: analyzer}

	s.mcp = server.NewMCPServer(
		"Dagaz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_entries",
		mcp.WithDescription("List all journal entries, newest first, as JSON."),
	), s.listEntries)

	s.mcp.AddTool(mcp.NewTool("add_entry",
		mcp.WithDescription("Add a journal entry. The mood must be one of the labels "+
			"returned by get_moods; activity metrics are optional and non-negative."),
		mcp.WithString("mood", mcp.Required(), mcp.Description("Mood label (e.g. Happy)")),
		mcp.WithString("text", mcp.Description("Optional free-text reflection")),
		mcp.WithNumber("steps", mcp.Description("Optional step count for the day")),
		mcp.WithNumber("screen_time", mcp.Description("Optional screen time in minutes")),
		mcp.WithString("weather", mcp.Description("Optional weather description")),
	), s.addEntry)

	s.mcp.AddTool(mcp.NewTool("analyze_sentiment",
		mcp.WithDescription("Classify the sentiment of free text as a label plus a "+
			"strength score in [-1, 1]."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to analyze")),
	), s.analyzeSentiment)

	s.mcp.AddTool(mcp.NewTool("generate_insights",
		mcp.WithDescription("Generate natural-language observations about correlations "+
			"between mood, activities, and weather across all entries. Requires at "+
			"least 3 entries."),
	), s.generateInsights)

	s.mcp.AddTool(mcp.NewTool("get_moods",
		mcp.WithDescription("Return the fixed set of moods an entry may carry."),
	), s.getMoods)

	// Resource: the fixed mood set.
	s.mcp.AddResource(
		mcp.NewResource("dagaz://moods", "Mood Set",
			mcp.WithResourceDescription("The closed set of moods, each with a display glyph and label."),
			mcp.WithMIMEType("application/json"),
		),
		s.readMoodsResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listEntries(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(s.repo.Entries(), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, err := req.RequireString("mood")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mood, ok := models.MoodByLabel(label)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown mood: %s", label)), nil
	}

	input := models.JournalEntryInput{Mood: mood}
	if text, textErr := req.RequireString("text"); textErr == nil {
		input.Text = text
	}
	if weather, weatherErr := req.RequireString("weather"); weatherErr == nil {
		input.Weather = weather
	}

	var activities models.Activities
	hasActivities := false
	if steps, stepsErr := req.RequireFloat("steps"); stepsErr == nil {
		activities.Steps = int(steps)
		hasActivities = true
	}
	if screen, screenErr := req.RequireFloat("screen_time"); screenErr == nil {
		activities.ScreenTime = int(screen)
		hasActivities = true
	}
	if hasActivities {
		input.Activities = &activities
	}

	entry, err := s.repo.Add(ctx, input)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created entry %s", entry.ID)), nil
}

func (s *Server) analyzeSentiment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := s.analyzer.AnalyzeSentiment(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.Marshal(result)
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) generateInsights(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := s.repo.Entries()
	if len(entries) < minInsightEntries {
		return mcp.NewToolResultError(
			fmt.Sprintf("need at least %d entries, have %d", minInsightEntries, len(entries))), nil
	}
	insights, err := s.analyzer.GenerateInsights(ctx, entries)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(insights) == 0 {
		return mcp.NewToolResultText("no insights generated"), nil
	}
	return mcp.NewToolResultText(strings.Join(insights, "\n")), nil
}

func (s *Server) getMoods(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(models.Moods, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readMoodsResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	out, err := json.Marshal(models.Moods)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "dagaz://moods",
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}
