package game

import (
	"github.com/Digital-Creators-Team/stakes-engine/errors"
	"github.com/shopspring/decimal"
)

// Wager kinds
const (
	WagerGamble = "gamble"
	WagerBet    = "bet"
)

// WagerResult reports a resolved gamble or bet
type WagerResult struct {
	Kind      string
	Amount    int64
	Won       bool
	Balance   int64
	LeveledUp bool
	Level     int
	Luck      decimal.Decimal
	Streak    int
}

// Gamble wagers a literal amount. Keywords are rejected.
func (e *Engine) Gamble(acc *Account, spec string) (WagerResult, error) {
	amount, err := ResolveAmount(WagerGamble, spec, acc.Balance, false)
	if err != nil {
		return WagerResult{}, err
	}
	if amount > acc.Balance {
		return WagerResult{}, errors.New(errors.ErrInsufficientFunds, "Insufficient balance.")
	}
	return e.resolveWager(acc, WagerGamble, amount), nil
}

// Bet wagers an amount or keyword and advances the wager streak
func (e *Engine) Bet(acc *Account, spec string) (WagerResult, error) {
	amount, err := ResolveAmount(WagerBet, spec, acc.Balance, true)
	if err != nil {
		return WagerResult{}, err
	}
	if amount > acc.Balance {
		return WagerResult{}, errors.New(errors.ErrInsufficientFunds, "Insufficient balance for bet.")
	}

	res := e.resolveWager(acc, WagerBet, amount)

	acc.WagerStreak++
	if acc.WagerStreak >= e.rules.StreakThreshold {
		acc.WagerStreak = 0
		acc.Luck = acc.Luck.Add(e.rules.luckStep())
		acc.Level++
		res.LeveledUp = true
	}
	res.Level = acc.Level
	res.Luck = acc.Luck
	res.Streak = acc.WagerStreak
	return res, nil
}

func (e *Engine) resolveWager(acc *Account, kind string, amount int64) WagerResult {
	acc.LastWager = amount
	won := e.rng.Float64() < e.WinChance(acc.Luck)
	if won {
		acc.Balance = addCapped(acc.Balance, amount)
		acc.Stats.BetsWon++
	} else {
		acc.Balance -= amount
	}
	return WagerResult{
		Kind:    kind,
		Amount:  amount,
		Won:     won,
		Balance: acc.Balance,
		Level:   acc.Level,
		Luck:    acc.Luck,
		Streak:  acc.WagerStreak,
	}
}

// WinChance returns base + weight*(luck-1), clamped to [0, 1]
func (e *Engine) WinChance(luck decimal.Decimal) float64 {
	base := decimal.NewFromFloat(e.rules.BaseWinChance)
	weight := decimal.NewFromFloat(e.rules.LuckWeight)
	chance := base.Add(weight.Mul(luck.Sub(decimal.NewFromInt(1))))

	switch {
	case chance.LessThan(decimal.Zero):
		return 0
	case chance.GreaterThan(decimal.NewFromInt(1)):
		return 1
	}
	return chance.InexactFloat64()
}
