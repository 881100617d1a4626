package game

import (
	"strings"
	"sync"

	"github.com/Digital-Creators-Team/stakes-engine/errors"
	"github.com/samber/lo"
)

// CategoryCustom marks listings created by the mint
const CategoryCustom = "custom"

// CatalogItem is a shop listing
type CatalogItem struct {
	Name     string   `mapstructure:"name" json:"name" yaml:"name"`
	Category string   `mapstructure:"category" json:"category" yaml:"category"`
	Price    int64    `mapstructure:"price" json:"price" yaml:"price"`
	Aliases  []string `mapstructure:"aliases" json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// Matches reports whether name refers to this listing, by name or alias
func (c CatalogItem) Matches(name string) bool {
	if strings.EqualFold(c.Name, name) {
		return true
	}
	return lo.ContainsBy(c.Aliases, func(alias string) bool {
		return strings.EqualFold(alias, name)
	})
}

// Catalog is the shop listing shared by every account. The mint appends to
// it at runtime, everything else only reads.
type Catalog struct {
	mu     sync.RWMutex
	items  []CatalogItem
	minted []CatalogItem
}

// NewCatalog creates a catalog seeded with items
func NewCatalog(items []CatalogItem) *Catalog {
	return &Catalog{
		items: append([]CatalogItem(nil), items...),
	}
}

// Find looks up a listing by name or alias, ignoring case
func (c *Catalog) Find(name string) (CatalogItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return lo.Find(c.items, func(item CatalogItem) bool {
		return item.Matches(name)
	})
}

// Add appends a minted listing. Names must be unique across names and aliases.
func (c *Catalog) Add(item CatalogItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := lo.Find(c.items, func(existing CatalogItem) bool {
		return existing.Matches(item.Name)
	}); exists {
		return errors.Newf(errors.ErrItemExists, "An item named %s already exists.", item.Name)
	}

	c.items = append(c.items, item)
	c.minted = append(c.minted, item)
	return nil
}

// Items returns a copy of every listing in insertion order
func (c *Catalog) Items() []CatalogItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]CatalogItem(nil), c.items...)
}

// Minted returns the listings added at runtime
func (c *Catalog) Minted() []CatalogItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]CatalogItem(nil), c.minted...)
}

// Restore re-adds minted listings from a snapshot, skipping names already listed
func (c *Catalog) Restore(listings []CatalogItem) {
	for _, item := range listings {
		_ = c.Add(item)
	}
}
