// ABOUTME: MCP prompts built from the stored library.
// ABOUTME: use-prompt hands a saved prompt's text to the agent as a user message.

package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerPrompts() {
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "use-prompt",
		Description: "Send a saved prompt from the library",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "id",
				Description: "Prompt ID or prefix (6+ chars)",
				Required:    true,
			},
		},
	}, s.getUsePrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "curate-library",
		Description: "Review the library and suggest ratings and cleanups",
	}, s.getCuratePrompt)
}

func (s *Server) getUsePrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	id, ok := req.Params.Arguments["id"]
	if !ok || id == "" {
		return nil, fmt.Errorf("id argument is required")
	}

	p, err := s.store.Resolve(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get prompt: %w", err)
	}

	return &mcp.GetPromptResult{
		Description: p.Title,
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: p.Content,
				},
			},
		},
	}, nil
}

func (s *Server) getCuratePrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	template := `Help me curate my prompt library:

1. Use the list_prompts tool with sort "ratingDesc" to see every prompt
2. Identify near-duplicates and prompts that could be merged
3. Suggest a 1-5 rating for unrated prompts based on clarity and reuse value
4. Point out prompts that are too vague to be useful

Refer to prompts by ID. Apply ratings with the rate_prompt tool only after I confirm.`

	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: template,
				},
			},
		},
	}, nil
}
