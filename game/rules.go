package game

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rules holds every tunable number of the economy
type Rules struct {
	StartingBalance   int64    `mapstructure:"starting_balance" yaml:"starting_balance"`
	StartingBank      int64    `mapstructure:"starting_bank" yaml:"starting_bank"`
	StartingInventory []string `mapstructure:"starting_inventory" yaml:"starting_inventory"`

	DailyBonus    int64 `mapstructure:"daily_bonus" yaml:"daily_bonus"`
	BegMin        int64 `mapstructure:"beg_min" yaml:"beg_min"`
	BegMax        int64 `mapstructure:"beg_max" yaml:"beg_max"`
	ExploreReward int64 `mapstructure:"explore_reward" yaml:"explore_reward"`

	Jobs             map[string]int64 `mapstructure:"jobs" yaml:"jobs"`
	DefaultJobReward int64            `mapstructure:"default_job_reward" yaml:"default_job_reward"`

	SellFallbackPrice int64 `mapstructure:"sell_fallback_price" yaml:"sell_fallback_price"`
	MaxTradeQuantity  int   `mapstructure:"max_trade_quantity" yaml:"max_trade_quantity"`

	MintFloor    int64 `mapstructure:"mint_floor" yaml:"mint_floor"`
	MintUses     int   `mapstructure:"mint_uses" yaml:"mint_uses"`
	MintCooldown int   `mapstructure:"mint_cooldown" yaml:"mint_cooldown"`

	BaseWinChance   float64 `mapstructure:"base_win_chance" yaml:"base_win_chance"`
	LuckWeight      float64 `mapstructure:"luck_weight" yaml:"luck_weight"`
	LuckStep        float64 `mapstructure:"luck_step" yaml:"luck_step"`
	StreakThreshold int     `mapstructure:"streak_threshold" yaml:"streak_threshold"`

	LeaderboardSize int `mapstructure:"leaderboard_size" yaml:"leaderboard_size"`

	Catalog []CatalogItem `mapstructure:"catalog" yaml:"catalog"`
	Recipes RecipeBook    `mapstructure:"recipes" yaml:"recipes"`
}

// DefaultRules returns the stock economy
func DefaultRules() Rules {
	return Rules{
		StartingBalance: 1000,
		StartingInventory: []string{
			"herb", "herb", "herb", "bottle",
			"iron ore", "iron ore", "iron ore", "iron ore", "iron ore", "leather strap",
			"wood plank", "wood plank", "wood plank", "wood plank", "wood plank",
			"wood plank", "wood plank", "wood plank", "wood plank", "wood plank",
			"iron nail",
		},
		DailyBonus:    200,
		BegMin:        10,
		BegMax:        59,
		ExploreReward: 150,
		Jobs: map[string]int64{
			"farmer": 100,
			"miner":  150,
			"fisher": 80,
		},
		DefaultJobReward:  50,
		SellFallbackPrice: 10,
		MaxTradeQuantity:  1000,
		MintFloor:         1_000_000,
		MintUses:          1,
		MintCooldown:      3,
		BaseWinChance:     0.5,
		LuckWeight:        0.02,
		LuckStep:          0.1,
		StreakThreshold:   10,
		LeaderboardSize:   5,
		Catalog: []CatalogItem{
			{Name: "bodyguard", Category: "protection", Price: 500},
			{Name: "flower crown", Category: "cosmetic", Price: 300, Aliases: []string{"flower"}},
			{Name: "bunny ears", Category: "cosmetic", Price: 200, Aliases: []string{"bunny"}},
			{Name: "golden throne", Category: "luxury", Price: 5000, Aliases: []string{"throne"}},
		},
		Recipes: RecipeBook{
			{
				Result:      "Healing Potion",
				Ingredients: []Ingredient{{Item: "herb", Count: 3}, {Item: "bottle", Count: 1}},
				SuccessRate: 0.9,
			},
			{
				Result:      "Iron Sword",
				Ingredients: []Ingredient{{Item: "iron ore", Count: 5}, {Item: "leather strap", Count: 1}},
				SuccessRate: 0.75,
			},
			{
				Result:      "Wooden Shield",
				Ingredients: []Ingredient{{Item: "wood plank", Count: 10}, {Item: "iron nail", Count: 1}},
				SuccessRate: 0.85,
			},
		},
	}
}

// fillDefaults copies stock values into fields a rules file left empty
func (r *Rules) fillDefaults() {
	d := DefaultRules()
	if r.StartingBalance == 0 {
		r.StartingBalance = d.StartingBalance
	}
	if r.StartingInventory == nil {
		r.StartingInventory = d.StartingInventory
	}
	if r.DailyBonus == 0 {
		r.DailyBonus = d.DailyBonus
	}
	if r.BegMin == 0 && r.BegMax == 0 {
		r.BegMin, r.BegMax = d.BegMin, d.BegMax
	}
	if r.ExploreReward == 0 {
		r.ExploreReward = d.ExploreReward
	}
	if r.Jobs == nil {
		r.Jobs = d.Jobs
	}
	if r.DefaultJobReward == 0 {
		r.DefaultJobReward = d.DefaultJobReward
	}
	if r.SellFallbackPrice == 0 {
		r.SellFallbackPrice = d.SellFallbackPrice
	}
	if r.MaxTradeQuantity == 0 {
		r.MaxTradeQuantity = d.MaxTradeQuantity
	}
	if r.MintFloor == 0 {
		r.MintFloor = d.MintFloor
	}
	if r.MintUses == 0 {
		r.MintUses = d.MintUses
	}
	if r.MintCooldown == 0 {
		r.MintCooldown = d.MintCooldown
	}
	if r.BaseWinChance == 0 {
		r.BaseWinChance = d.BaseWinChance
	}
	if r.LuckWeight == 0 {
		r.LuckWeight = d.LuckWeight
	}
	if r.LuckStep == 0 {
		r.LuckStep = d.LuckStep
	}
	if r.StreakThreshold == 0 {
		r.StreakThreshold = d.StreakThreshold
	}
	if r.LeaderboardSize == 0 {
		r.LeaderboardSize = d.LeaderboardSize
	}
	if r.Catalog == nil {
		r.Catalog = d.Catalog
	}
	if r.Recipes == nil {
		r.Recipes = d.Recipes
	}
}

// Validate rejects rules that would break account invariants
func (r Rules) Validate() error {
	if r.StartingBalance < 0 || r.StartingBank < 0 {
		return fmt.Errorf("starting balance and bank must not be negative")
	}
	if r.BegMin < 0 || r.BegMax < r.BegMin {
		return fmt.Errorf("beg range [%d, %d] is invalid", r.BegMin, r.BegMax)
	}
	if r.StreakThreshold <= 0 {
		return fmt.Errorf("streak_threshold must be positive")
	}
	if r.MintFloor <= 0 {
		return fmt.Errorf("mint_floor must be positive")
	}
	if r.BaseWinChance < 0 || r.BaseWinChance > 1 {
		return fmt.Errorf("base_win_chance must be within [0, 1]")
	}
	for _, item := range r.Catalog {
		if item.Name == "" || item.Price <= 0 {
			return fmt.Errorf("catalog item %q needs a name and a positive price", item.Name)
		}
	}
	for _, recipe := range r.Recipes {
		if recipe.Result == "" || len(recipe.Ingredients) == 0 {
			return fmt.Errorf("recipe %q needs a result and ingredients", recipe.Result)
		}
		if recipe.SuccessRate < 0 || recipe.SuccessRate > 1 {
			return fmt.Errorf("recipe %q success_rate must be within [0, 1]", recipe.Result)
		}
		for _, in := range recipe.Ingredients {
			if in.Item == "" || in.Count <= 0 {
				return fmt.Errorf("recipe %q has an invalid ingredient", recipe.Result)
			}
		}
	}
	return nil
}

// luckStep returns LuckStep as a decimal so repeated increments stay exact
func (r Rules) luckStep() decimal.Decimal {
	return decimal.NewFromFloat(r.LuckStep)
}
