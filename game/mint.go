package game

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Digital-Creators-Team/stakes-engine/errors"
)

var (
	mintEffectPattern = regexp.MustCompile(`(?i)effect:\s*"([^"]*)"`)
	mintCostPattern   = regexp.MustCompile(`(?i)cost:\s*(\S+)`)
	mintNamePattern   = regexp.MustCompile(`"([^"]*)"`)
	digitsPattern     = regexp.MustCompile(`^[0-9]+$`)
)

const mintUsage = `Usage: -customitem "<name>" effect:"<description>" cost:<amount>`

// MintPayload is the parsed body of a custom item command
type MintPayload struct {
	Name   string
	Effect string
	Cost   int64
}

// MintResult reports a minted item
type MintResult struct {
	Item    CustomItem
	Listing CatalogItem
	Cost    int64
	Balance int64
}

// ParseMintPayload extracts name, effect and cost. Each clause is matched on
// its own, so they may appear in any order.
func ParseMintPayload(payload string) (MintPayload, error) {
	malformed := errors.New(errors.ErrMalformedPayload, mintUsage)

	effectMatch := mintEffectPattern.FindStringSubmatch(payload)
	if effectMatch == nil || strings.TrimSpace(effectMatch[1]) == "" {
		return MintPayload{}, malformed
	}

	// cost is only read outside quoted text
	rest := mintEffectPattern.ReplaceAllString(payload, " ")
	costMatch := mintCostPattern.FindStringSubmatch(mintNamePattern.ReplaceAllString(rest, " "))
	if costMatch == nil || !digitsPattern.MatchString(costMatch[1]) {
		return MintPayload{}, malformed
	}
	cost, err := strconv.ParseInt(costMatch[1], 10, 64)
	if err != nil {
		return MintPayload{}, malformed
	}

	var name string
	for _, m := range mintNamePattern.FindAllStringSubmatch(rest, -1) {
		if n := strings.TrimSpace(m[1]); n != "" {
			name = n
			break
		}
	}
	if name == "" {
		return MintPayload{}, malformed
	}

	return MintPayload{
		Name:   name,
		Effect: strings.TrimSpace(effectMatch[1]),
		Cost:   cost,
	}, nil
}

// Mint creates a custom item and lists it in the shared catalog at twice its cost
func (e *Engine) Mint(acc *Account, payload string) (MintResult, error) {
	p, err := ParseMintPayload(payload)
	if err != nil {
		return MintResult{}, err
	}
	if p.Cost < e.rules.MintFloor {
		return MintResult{}, errors.Newf(errors.ErrCostTooLow,
			"Custom items cost at least %d Gcoins.", e.rules.MintFloor)
	}
	if p.Cost > acc.Balance {
		return MintResult{}, errors.New(errors.ErrInsufficientFunds, "Insufficient balance.")
	}

	listing := CatalogItem{
		Name:     p.Name,
		Category: CategoryCustom,
		Price:    2 * p.Cost,
	}
	if p.Cost > math.MaxInt64/2 {
		listing.Price = math.MaxInt64
	}
	if err := e.catalog.Add(listing); err != nil {
		return MintResult{}, err
	}

	item := MintedItem(p.Name, p.Effect, e.rules.MintUses, e.rules.MintCooldown)
	acc.Balance -= p.Cost
	acc.CustomItems = append(acc.CustomItems, item)
	acc.Inventory = append(acc.Inventory, p.Name)

	return MintResult{Item: item, Listing: listing, Cost: p.Cost, Balance: acc.Balance}, nil
}
