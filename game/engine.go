package game

import (
	"time"
)

// Engine applies game rules to accounts. It holds no per-account state; the
// caller owns the accounts and serializes commands.
type Engine struct {
	rules   Rules
	catalog *Catalog
	recipes RecipeBook
	rng     RandomSource
	now     func() time.Time
}

// NewEngine creates an engine over rules. The catalog is seeded from rules.Catalog.
func NewEngine(rules Rules, rng RandomSource) *Engine {
	if rng == nil {
		rng = NewRandomSource(0)
	}
	return &Engine{
		rules:   rules,
		catalog: NewCatalog(rules.Catalog),
		recipes: rules.Recipes,
		rng:     rng,
		now:     time.Now,
	}
}

// Rules returns the rules the engine runs with
func (e *Engine) Rules() Rules {
	return e.rules
}

// Catalog returns the shared shop catalog
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Recipes returns the recipe table
func (e *Engine) Recipes() RecipeBook {
	return e.recipes
}

// NewAccount creates an account with the engine's starting rules
func (e *Engine) NewAccount(username string) *Account {
	return NewAccount(username, e.rules, e.now())
}
