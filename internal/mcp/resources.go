// ABOUTME: MCP resources exposing prompts as readable documents.
// ABOUTME: Allows AI agents to access prompt content via URI scheme.

package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const resourcePrefix = "promptlib://prompt/"

func (s *Server) registerResources() {
	// The SDK handles listing based on the template
	s.server.AddResourceTemplate(
		&mcp.ResourceTemplate{
			URITemplate: resourcePrefix + "{id}",
			Name:        "Prompt",
			Description: "Access individual prompts by ID",
			MIMEType:    "text/markdown",
		},
		s.handleReadResource,
	)
}

func (s *Server) handleReadResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	ref, ok := strings.CutPrefix(req.Params.URI, resourcePrefix)
	if !ok || ref == "" {
		return nil, fmt.Errorf("invalid resource URI: %s", req.Params.URI)
	}

	p, err := s.store.Resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get prompt: %w", err)
	}

	content := fmt.Sprintf("# %s\n\n**Rating:** %d/5\n\n%s", p.Title, p.Rating, p.Content)

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     content,
			},
		},
	}, nil
}
