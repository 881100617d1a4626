package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Digital-Creators-Team/stakes-engine/pkg/providers"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
)

// FileStateProvider keeps the blob in a zstd-compressed file.
// Saves go to a temp file first and are renamed into place.
type FileStateProvider struct {
	path   string
	logger zerolog.Logger
}

// NewFileStateProvider creates a file-backed state provider
func NewFileStateProvider(path string, logger zerolog.Logger) *FileStateProvider {
	return &FileStateProvider{
		path:   path,
		logger: logger.With().Str("component", "state_provider").Str("backend", "file").Logger(),
	}
}

// Load reads and decompresses the snapshot file
func (p *FileStateProvider) Load(ctx context.Context) ([]byte, error) {
	f, err := os.Open(p.path)
	if errors.Is(err, os.ErrNotExist) {
		p.logger.Debug().Str("path", p.path).Msg("No snapshot file")
		return nil, providers.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to open zstd reader: %w", err)
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return data, nil
}

// Save compresses data and atomically replaces the snapshot file
func (p *FileStateProvider) Save(ctx context.Context, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.path), filepath.Base(p.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc, err := zstd.NewWriter(tmp, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to open zstd writer: %w", err)
	}
	if _, err := enc.Write(data); err != nil {
		_ = enc.Close()
		_ = tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Close is a no-op; the file is opened per call
func (p *FileStateProvider) Close() error {
	return nil
}
