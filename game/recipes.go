package game

import (
	"strings"

	"github.com/samber/lo"
)

// Ingredient is one input of a recipe
type Ingredient struct {
	Item  string `mapstructure:"item" json:"item" yaml:"item"`
	Count int    `mapstructure:"count" json:"count" yaml:"count"`
}

// Recipe turns ingredients into one result item with some probability.
// Ingredients are checked in order; the first one missing is reported.
type Recipe struct {
	Result      string       `mapstructure:"result" json:"result" yaml:"result"`
	Ingredients []Ingredient `mapstructure:"ingredients" json:"ingredients" yaml:"ingredients"`
	SuccessRate float64      `mapstructure:"success_rate" json:"successRate" yaml:"success_rate"`
}

// RecipeBook is the static recipe table
type RecipeBook []Recipe

// Find looks up a recipe by result name, ignoring case
func (b RecipeBook) Find(name string) (Recipe, bool) {
	return lo.Find(b, func(r Recipe) bool {
		return strings.EqualFold(r.Result, name)
	})
}
