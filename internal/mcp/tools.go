// ABOUTME: MCP tools for prompt library operations.
// ABOUTME: Maps CLI functionality to MCP tool interface.

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/harper/promptlib/internal/query"
	"github.com/harper/promptlib/internal/store"
	"github.com/harper/promptlib/internal/transfer"
)

func (s *Server) registerTools() {
	// add_prompt
	s.server.AddTool(&mcp.Tool{
		Name:        "add_prompt",
		Description: "Save a new prompt with title and content",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"title": {"type": "string", "description": "Prompt title (max 80 characters)"},
				"content": {"type": "string", "description": "Prompt text (max 8000 characters)"}
			},
			"required": ["title", "content"]
		}`),
	}, s.handleAddPrompt)

	// list_prompts
	s.server.AddTool(&mcp.Tool{
		Name:        "list_prompts",
		Description: "List prompts with optional search, rating filter, and sort",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Case-insensitive text matched against title or content"},
				"rating": {"type": ["string", "integer"], "description": "all, or an exact rating 1-5"},
				"sort": {"type": "string", "enum": ["updatedDesc", "createdDesc", "ratingDesc", "titleAsc", "titleDesc"]},
				"limit": {"type": "integer", "description": "Max results", "default": 20}
			}
		}`),
	}, s.handleListPrompts)

	// get_prompt
	s.server.AddTool(&mcp.Tool{
		Name:        "get_prompt",
		Description: "Get a prompt by ID or ID prefix",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Prompt ID or prefix (6+ chars)"}
			},
			"required": ["id"]
		}`),
	}, s.handleGetPrompt)

	// rate_prompt
	s.server.AddTool(&mcp.Tool{
		Name:        "rate_prompt",
		Description: "Set a prompt's rating from 0 (unrated) to 5",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Prompt ID or prefix"},
				"rating": {"type": "integer", "minimum": 0, "maximum": 5}
			},
			"required": ["id", "rating"]
		}`),
	}, s.handleRatePrompt)

	// delete_prompt
	s.server.AddTool(&mcp.Tool{
		Name:        "delete_prompt",
		Description: "Permanently delete a prompt",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Prompt ID or prefix"}
			},
			"required": ["id"]
		}`),
	}, s.handleDeletePrompt)

	// export_prompts
	s.server.AddTool(&mcp.Tool{
		Name:        "export_prompts",
		Description: "Export the whole library as a JSON envelope or markdown",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"format": {"type": "string", "description": "Format: json or md", "default": "json"}
			}
		}`),
	}, s.handleExportPrompts)

	// import_prompts
	s.server.AddTool(&mcp.Tool{
		Name:        "import_prompts",
		Description: "Import prompts from an exported JSON envelope or a bare JSON array. Newer records win.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"payload": {"type": "string", "description": "JSON text to import"}
			},
			"required": ["payload"]
		}`),
	}, s.handleImportPrompts)
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
		IsError: true,
	}
}

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// withPersistNote appends a warning when err is a persistence failure.
// Any other error is returned unchanged for the caller to report.
func (s *Server) withPersistNote(text string, err error) (string, error) {
	if err == nil {
		return text, nil
	}
	if errors.Is(err, store.ErrPersist) {
		s.log.Warn("mcp change not persisted", zap.Error(err))
		return text + "\nWarning: the change may not survive a restart: " + err.Error(), nil
	}
	return text, err
}

// Tool handlers.
func (s *Server) handleAddPrompt(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	p, err := s.store.Create(params.Title, params.Content)
	var verr *store.ValidationError
	if errors.As(err, &verr) {
		return toolError("%s", verr.Msg), nil
	}
	text, err := s.withPersistNote(fmt.Sprintf("Created prompt %s", p.ID), err)
	if err != nil {
		return toolError("failed to create prompt: %v", err), nil
	}
	return toolText(text), nil
}

func (s *Server) handleListPrompts(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Query  string `json:"query"`
		Rating any    `json:"rating"`
		Sort   string `json:"sort"`
		Limit  int    `json:"limit"`
	}
	params.Limit = 20 // default
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return nil, err
		}
	}

	var ratingText string
	if params.Rating != nil {
		ratingText = fmt.Sprint(params.Rating)
	}
	rating, err := query.ParseRatingFilter(ratingText)
	if err != nil {
		return toolError("%v", err), nil
	}

	defaults := s.queryDefaults()
	sortName := params.Sort
	if sortName == "" {
		sortName = defaults.Sort
	}

	prompts := query.Run(s.store.Snapshot(), query.Options{
		Text:   params.Query,
		Rating: rating,
		Sort:   query.ParseSort(sortName),
		Limit:  params.Limit,
		Locale: defaults.Locale,
	})

	data, _ := json.MarshalIndent(prompts, "", "  ")
	return toolText(string(data)), nil
}

func (s *Server) handleGetPrompt(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	p, err := s.store.Resolve(params.ID)
	if err != nil {
		return toolError("failed to get prompt: %v", err), nil
	}

	data, _ := json.MarshalIndent(p, "", "  ")
	return toolText(string(data)), nil
}

func (s *Server) handleRatePrompt(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID     string `json:"id"`
		Rating int    `json:"rating"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	p, err := s.store.Resolve(params.ID)
	if err != nil {
		return toolError("failed to find prompt: %v", err), nil
	}

	ok, err := s.store.Rate(p.ID, params.Rating)
	if !ok && err == nil {
		return toolError("prompt %s no longer exists", p.ID), nil
	}
	updated, _ := s.store.Get(p.ID)
	text, err := s.withPersistNote(fmt.Sprintf("Rated prompt %s: %d", p.ID, updated.Rating), err)
	if err != nil {
		return toolError("failed to rate prompt: %v", err), nil
	}
	return toolText(text), nil
}

func (s *Server) handleDeletePrompt(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	p, err := s.store.Resolve(params.ID)
	if err != nil {
		return toolError("failed to find prompt: %v", err), nil
	}

	ok, err := s.store.Delete(p.ID)
	if !ok && err == nil {
		return toolError("prompt %s no longer exists", p.ID), nil
	}
	text, err := s.withPersistNote(fmt.Sprintf("Deleted prompt %s", p.ID), err)
	if err != nil {
		return toolError("failed to delete prompt: %v", err), nil
	}
	return toolText(text), nil
}

func (s *Server) handleExportPrompts(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Format string `json:"format"`
	}
	params.Format = "json" // default
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return nil, err
		}
	}

	prompts := query.Run(s.store.Snapshot(), query.Options{Sort: query.UpdatedDesc})
	if len(prompts) == 0 {
		return toolText("Nothing to export yet."), nil
	}

	if params.Format == "md" {
		var sb strings.Builder
		for _, p := range prompts {
			_, data, err := transfer.MarkdownFile(p)
			if err != nil {
				return toolError("failed to export prompt %s: %v", p.ID, err), nil
			}
			sb.Write(data)
			sb.WriteString("\n")
		}
		return toolText(sb.String()), nil
	}

	data, err := transfer.NewEnvelope(prompts, s.now()).Encode()
	if err != nil {
		return toolError("failed to export: %v", err), nil
	}
	return toolText(string(data)), nil
}

func (s *Server) handleImportPrompts(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Payload string `json:"payload"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	incoming, err := transfer.Parse([]byte(params.Payload))
	switch {
	case errors.Is(err, transfer.ErrImportParse):
		return toolError("Could not parse the import payload: %v", err), nil
	case errors.Is(err, transfer.ErrNothingToImport):
		return toolError("Nothing to import."), nil
	case err != nil:
		return toolError("failed to import: %v", err), nil
	}

	res, err := s.store.Merge(incoming)
	text, err := s.withPersistNote(fmt.Sprintf("Imported: %d added, %d updated.", res.Added, res.Updated), err)
	if err != nil {
		return toolError("failed to import: %v", err), nil
	}
	return toolText(text), nil
}
