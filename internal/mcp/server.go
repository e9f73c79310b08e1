package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"yamen/internal/command"
	"yamen/internal/store"
)

type Server struct {
	policy *command.Policy
	db     store.Store
	mcp    *sdk.Server
}

// NewServer builds the MCP server the AI layer talks to. db may be nil when
// no database is configured; tools that need one report an error.
func NewServer(policy *command.Policy, db store.Store, version string) *Server {
	s := &Server{
		policy: policy,
		db:     db,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "yamen",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
