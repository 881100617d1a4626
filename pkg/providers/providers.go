package providers

import (
	"context"
	"errors"
	"time"
)

// ErrStateNotFound is returned by StateProvider.Load when nothing has been saved yet
var ErrStateNotFound = errors.New("state not found")

// StateProvider persists the whole account store as one opaque blob
type StateProvider interface {
	// Load returns the last saved blob, or ErrStateNotFound
	Load(ctx context.Context) ([]byte, error)
	// Save overwrites the blob
	Save(ctx context.Context, data []byte) error
	// Close releases the underlying connection or file handle
	Close() error
}

// AuditProvider records resolved commands
type AuditProvider interface {
	LogCommand(ctx context.Context, log *CommandLog) error
}

// CommandLog represents one resolved command
type CommandLog struct {
	TraceID   string        `json:"traceId"`
	Username  string        `json:"username"`
	Source    string        `json:"source"`
	Command   string        `json:"command"`
	Args      []string      `json:"args"`
	Outcome   string        `json:"outcome"`
	Cue       string        `json:"cue,omitempty"`
	Code      int           `json:"code,omitempty"`
	Message   string        `json:"message"`
	Balance   int64         `json:"balance"`
	Bank      int64         `json:"bank"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}
