// ABOUTME: MCP server exposing the prompt library to AI agents.
// ABOUTME: Provides tools, a prompt resource template, and a use-prompt prompt.

package mcp

import (
	"context"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/harper/promptlib/internal/config"
	"github.com/harper/promptlib/internal/store"
)

type Server struct {
	server *mcp.Server
	store  *store.Store
	log    *zap.Logger
	now    func() time.Time

	mu       sync.RWMutex
	defaults config.QueryConfig
}

func NewServer(st *store.Store, defaults config.QueryConfig, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{store: st, log: log, now: time.Now, defaults: defaults}

	s.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "promptlib",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			HasTools:     true,
			HasResources: true,
			HasPrompts:   true,
		},
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// SetQueryDefaults replaces the sort and locale used when a tool call omits them.
func (s *Server) SetQueryDefaults(q config.QueryConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults = q
	s.log.Info("query defaults updated", zap.String("sort", q.Sort), zap.String("locale", q.Locale))
}

func (s *Server) queryDefaults() config.QueryConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaults
}

func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("mcp server starting", zap.Int("prompts", s.store.Len()))
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
