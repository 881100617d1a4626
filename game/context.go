package game

import (
	"context"

	"github.com/rs/zerolog"
)

// Command sources
const (
	SourceREPL      = "repl"
	SourceHTTP      = "http"
	SourceWebSocket = "ws"
)

// CommandContext carries per-command metadata from the transport to the dispatcher.
// It is set by the REPL loop or by the session middleware.
// Use game.FromContext(ctx) to get it safely (returns nil if not found).
type CommandContext struct {
	// Logger for logging (always available)
	Logger zerolog.Logger

	// TraceID correlates the command with its log lines and audit event
	TraceID string

	// Username of the acting account
	Username string

	// Source is the transport the command arrived on (repl, http, ws)
	Source string
}

// NewCommandContext creates a new CommandContext
func NewCommandContext(logger zerolog.Logger, traceID, username, source string) *CommandContext {
	return &CommandContext{
		Logger:   logger,
		TraceID:  traceID,
		Username: username,
		Source:   source,
	}
}

// WithContext attaches CommandContext to a context
func WithContext(ctx context.Context, cc *CommandContext) context.Context {
	return context.WithValue(ctx, contextKeyCommandContext, cc)
}

// FromContext extracts CommandContext from context.
// Returns nil if not found.
func FromContext(ctx context.Context) *CommandContext {
	if cc, ok := ctx.Value(contextKeyCommandContext).(*CommandContext); ok {
		return cc
	}
	return nil
}

// MustFromContext extracts CommandContext from context, panics if not found
func MustFromContext(ctx context.Context) *CommandContext {
	cc := FromContext(ctx)
	if cc == nil {
		panic("CommandContext not found in context")
	}
	return cc
}

type contextKey string

const contextKeyCommandContext contextKey = "command_context"
