package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Digital-Creators-Team/stakes-engine/game"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SnapshotVersion is written into every saved blob
const SnapshotVersion = 1

//go:embed snapshot.schema.json
var snapshotSchemaJSON string

var snapshotSchema = jsonschema.MustCompileString("snapshot.schema.json", snapshotSchemaJSON)

// Snapshot is the persisted form of the whole account store
type Snapshot struct {
	Version  int                      `json:"version"`
	SavedAt  time.Time                `json:"savedAt"`
	Accounts map[string]*game.Account `json:"accounts"`
	Listings []game.CatalogItem       `json:"listings"`
}

// EncodeSnapshot serializes snap as JSON
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

// DecodeSnapshot validates data against the snapshot schema and decodes it
func DecodeSnapshot(data []byte) (Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot is not valid JSON: %w", err)
	}
	if err := snapshotSchema.Validate(raw); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot failed validation: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snap.Version > SnapshotVersion {
		return Snapshot{}, fmt.Errorf("snapshot version %d is newer than supported %d", snap.Version, SnapshotVersion)
	}
	if snap.Accounts == nil {
		snap.Accounts = map[string]*game.Account{}
	}
	return snap, nil
}
