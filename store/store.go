package store

import (
	"context"
	stderrors "errors"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Digital-Creators-Team/stakes-engine/errors"
	"github.com/Digital-Creators-Team/stakes-engine/game"
	"github.com/Digital-Creators-Team/stakes-engine/pkg/providers"
	"github.com/rs/zerolog"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,32}$`)

// Store owns every account for the life of the process and persists them as
// one blob through a state provider. Lookups ignore case and a leading @.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*game.Account
	catalog  *game.Catalog
	provider providers.StateProvider
	logger   zerolog.Logger
	now      func() time.Time
}

// New creates an empty store. catalog receives minted listings on Load and is
// written back on Save.
func New(provider providers.StateProvider, catalog *game.Catalog, logger zerolog.Logger) *Store {
	return &Store{
		accounts: make(map[string]*game.Account),
		catalog:  catalog,
		provider: provider,
		logger:   logger.With().Str("component", "store").Logger(),
		now:      time.Now,
	}
}

func key(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}

// ValidateUsername checks the allowed username shape
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return errors.New(errors.ErrInvalidRequest,
			"Usernames are 1-32 letters, digits, dots, dashes or underscores.")
	}
	return nil
}

// Create adds a new account
func (s *Store) Create(acc *game.Account) error {
	if err := ValidateUsername(acc.Username); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(acc.Username)
	if _, exists := s.accounts[k]; exists {
		return errors.Newf(errors.ErrAccountExists, "Account %s already exists.", acc.Username)
	}
	s.accounts[k] = acc
	return nil
}

// Get returns the live account for username
func (s *Store) Get(username string) (*game.Account, error) {
	acc, ok := s.Lookup(username)
	if !ok {
		return nil, errors.Newf(errors.ErrAccountNotFound, "No account named %s.", username)
	}
	return acc, nil
}

// Lookup returns the live account for username
func (s *Store) Lookup(username string) (*game.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[key(username)]
	return acc, ok
}

// All returns copies of every account ordered by username
func (s *Store) All() []*game.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*game.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, acc.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// Len returns the number of accounts
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

// Snapshot captures the store and minted listings
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make(map[string]*game.Account, len(s.accounts))
	for _, acc := range s.accounts {
		accounts[acc.Username] = acc.Clone()
	}

	var listings []game.CatalogItem
	if s.catalog != nil {
		listings = s.catalog.Minted()
	}
	if listings == nil {
		listings = []game.CatalogItem{}
	}

	return Snapshot{
		Version:  SnapshotVersion,
		SavedAt:  s.now().UTC(),
		Accounts: accounts,
		Listings: listings,
	}
}

// Load replaces the in-memory accounts with the persisted blob. A missing blob
// leaves the store empty.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.provider.Load(ctx)
	if stderrors.Is(err, providers.ErrStateNotFound) {
		s.logger.Info().Msg("No saved state, starting empty")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreError, "Failed to load saved state.")
	}

	snap, err := DecodeSnapshot(data)
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreError, "Saved state is corrupt.")
	}

	accounts := make(map[string]*game.Account, len(snap.Accounts))
	for name, acc := range snap.Accounts {
		if acc == nil {
			continue
		}
		if acc.Username == "" {
			acc.Username = name
		}
		acc.Normalize()
		accounts[key(acc.Username)] = acc
	}

	s.mu.Lock()
	s.accounts = accounts
	s.mu.Unlock()

	if s.catalog != nil {
		s.catalog.Restore(snap.Listings)
	}

	s.logger.Info().
		Int("accounts", len(accounts)).
		Int("listings", len(snap.Listings)).
		Msg("State loaded")
	return nil
}

// Save writes the whole store through the provider
func (s *Store) Save(ctx context.Context) error {
	data, err := EncodeSnapshot(s.Snapshot())
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreError, "Failed to encode state.")
	}
	if err := s.provider.Save(ctx, data); err != nil {
		return errors.Wrap(err, errors.ErrStoreError, "Failed to save state.")
	}
	return nil
}

// Close releases the state provider
func (s *Store) Close() error {
	return s.provider.Close()
}
