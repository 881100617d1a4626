//go:build wireinject

package wire

import (
	"github.com/Digital-Creators-Team/stakes-engine/config"
	"github.com/google/wire"
)

// InitializeRuntime builds the runtime for cfg. Call cleanup on exit.
func InitializeRuntime(cfg *config.Config) (*Runtime, func(), error) {
	wire.Build(RuntimeSet)
	return nil, nil, nil
}
