package game

import (
	"github.com/Digital-Creators-Team/stakes-engine/errors"
)

// CraftResult reports a resolved craft attempt
type CraftResult struct {
	Recipe   Recipe
	Success  bool
	Consumed []Ingredient
}

// Craft checks every ingredient, consumes them all, then rolls against the
// recipe's success rate. Ingredients are gone even when the roll fails.
func (e *Engine) Craft(acc *Account, name string) (CraftResult, error) {
	recipe, ok := e.recipes.Find(name)
	if !ok {
		return CraftResult{}, errors.New(errors.ErrRecipeNotFound, "Unknown crafting item.")
	}

	for _, in := range recipe.Ingredients {
		if acc.CountItem(in.Item) < in.Count {
			return CraftResult{}, errors.Newf(errors.ErrInsufficientIngredients,
				"Not enough %s to craft %s (need %d).", in.Item, recipe.Result, in.Count)
		}
	}

	for _, in := range recipe.Ingredients {
		acc.removeItems(in.Item, in.Count)
	}

	success := e.rng.Float64() < recipe.SuccessRate
	if success {
		acc.Inventory = append(acc.Inventory, recipe.Result)
	}

	return CraftResult{
		Recipe:   recipe,
		Success:  success,
		Consumed: append([]Ingredient(nil), recipe.Ingredients...),
	}, nil
}
