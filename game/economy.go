package game

import (
	"math"
	"strings"

	"github.com/Digital-Creators-Team/stakes-engine/errors"
)

// Income sources
const (
	IncomeWork    = "work"
	IncomeBeg     = "beg"
	IncomeDaily   = "daily"
	IncomeExplore = "explore"
)

// TransferResult reports a move between wallet and bank
type TransferResult struct {
	Amount  int64
	Balance int64
	Bank    int64
}

// PayResult reports a payment to another account
type PayResult struct {
	Target  string
	Amount  int64
	Balance int64
}

// IncomeResult reports unconditional income
type IncomeResult struct {
	Source  string
	Job     string
	Amount  int64
	Balance int64
}

// TradeResult reports a shop purchase or sale
type TradeResult struct {
	Item     string
	Quantity int
	Total    int64
	Balance  int64
}

// Deposit moves money from balance to bank
func (e *Engine) Deposit(acc *Account, spec string) (TransferResult, error) {
	amount, err := ResolveAmount("deposit", spec, acc.Balance, true)
	if err != nil {
		return TransferResult{}, err
	}
	if amount > acc.Balance {
		return TransferResult{}, errors.New(errors.ErrInsufficientFunds, "Insufficient balance.")
	}

	acc.Balance -= amount
	acc.Bank = addCapped(acc.Bank, amount)
	return TransferResult{Amount: amount, Balance: acc.Balance, Bank: acc.Bank}, nil
}

// Withdraw moves money from bank to balance
func (e *Engine) Withdraw(acc *Account, spec string) (TransferResult, error) {
	amount, err := ResolveAmount("withdraw", spec, acc.Bank, true)
	if err != nil {
		return TransferResult{}, err
	}
	if amount > acc.Bank {
		return TransferResult{}, errors.New(errors.ErrInsufficientBank, "Insufficient bank balance.")
	}

	acc.Bank -= amount
	acc.Balance = addCapped(acc.Balance, amount)
	return TransferResult{Amount: amount, Balance: acc.Balance, Bank: acc.Bank}, nil
}

// Pay debits acc and credits the target account found in dir
func (e *Engine) Pay(acc *Account, dir Directory, target, spec string) (PayResult, error) {
	target = strings.TrimPrefix(strings.TrimSpace(target), "@")
	if target == "" {
		return PayResult{}, errors.New(errors.ErrInvalidTarget, "You need to name who to pay.")
	}
	if strings.EqualFold(target, acc.Username) {
		return PayResult{}, errors.New(errors.ErrInvalidTarget, "You can't pay yourself.")
	}

	var recipient *Account
	if dir != nil {
		recipient, _ = dir.Lookup(target)
	}
	if recipient == nil {
		return PayResult{}, errors.Newf(errors.ErrTargetNotFound, "No player named @%s.", target)
	}

	amount, err := ResolveAmount("", spec, acc.Balance, false)
	if err != nil {
		return PayResult{}, err
	}
	if amount > acc.Balance {
		return PayResult{}, errors.New(errors.ErrInsufficientFunds, "Insufficient balance.")
	}
	if amount > math.MaxInt64-recipient.Balance {
		return PayResult{}, errors.Newf(errors.ErrInvalidAmount, "@%s cannot hold that many Gcoins.", recipient.Username)
	}

	acc.Balance -= amount
	recipient.Balance += amount
	acc.Stats.Trades++
	return PayResult{Target: recipient.Username, Amount: amount, Balance: acc.Balance}, nil
}

// Work pays the reward for job, or the default reward for unknown jobs
func (e *Engine) Work(acc *Account, job string) IncomeResult {
	reward, ok := e.rules.Jobs[strings.ToLower(job)]
	if !ok {
		reward = e.rules.DefaultJobReward
	}

	acc.Balance = addCapped(acc.Balance, reward)
	acc.ActiveJob = job
	acc.Stats.JobsCompleted++
	return IncomeResult{Source: IncomeWork, Job: job, Amount: reward, Balance: acc.Balance}
}

// Beg pays a random amount within the beg range
func (e *Engine) Beg(acc *Account) IncomeResult {
	amount := e.rules.BegMin + e.rng.Int63n(e.rules.BegMax-e.rules.BegMin+1)
	acc.Balance = addCapped(acc.Balance, amount)
	return IncomeResult{Source: IncomeBeg, Amount: amount, Balance: acc.Balance}
}

// Daily pays the fixed daily bonus
func (e *Engine) Daily(acc *Account) IncomeResult {
	acc.Balance = addCapped(acc.Balance, e.rules.DailyBonus)
	return IncomeResult{Source: IncomeDaily, Amount: e.rules.DailyBonus, Balance: acc.Balance}
}

// Explore pays the fixed treasure reward
func (e *Engine) Explore(acc *Account) IncomeResult {
	acc.Balance = addCapped(acc.Balance, e.rules.ExploreReward)
	return IncomeResult{Source: IncomeExplore, Amount: e.rules.ExploreReward, Balance: acc.Balance}
}

// Buy purchases qty units of a catalog item
func (e *Engine) Buy(acc *Account, name string, qty int) (TradeResult, error) {
	item, ok := e.catalog.Find(name)
	if !ok {
		return TradeResult{}, errors.New(errors.ErrItemNotFound, "Item not available.")
	}
	if err := e.checkQuantity(qty); err != nil {
		return TradeResult{}, err
	}
	// qty > balance/price avoids overflowing price*qty
	if item.Price > 0 && int64(qty) > acc.Balance/item.Price {
		return TradeResult{}, errors.New(errors.ErrInsufficientFunds, "Insufficient balance.")
	}

	total := item.Price * int64(qty)
	acc.Balance -= total
	acc.addItems(item.Name, qty)
	acc.Stats.Trades++
	return TradeResult{Item: item.Name, Quantity: qty, Total: total, Balance: acc.Balance}, nil
}

// Sell sells qty held units. Catalog items fetch half their total price rounded
// down, others the fallback price per unit.
func (e *Engine) Sell(acc *Account, name string, qty int) (TradeResult, error) {
	if err := e.checkQuantity(qty); err != nil {
		return TradeResult{}, err
	}

	item, listed := e.catalog.Find(name)
	held := name
	if acc.CountItem(held) == 0 && listed {
		// sold by alias, inventory holds the catalog name
		held = item.Name
	}

	count := acc.CountItem(held)
	if count == 0 {
		return TradeResult{}, errors.Newf(errors.ErrItemNotFound, "You don't have any %s.", name)
	}
	if count < qty {
		return TradeResult{}, errors.Newf(errors.ErrInsufficientItems, "You only have %d %s.", count, held)
	}

	total := e.rules.SellFallbackPrice * int64(qty)
	if listed {
		total = halfOf(item.Price, qty)
	}

	acc.removeItems(held, qty)
	acc.removeCustomItems(held, qty)
	acc.Balance = addCapped(acc.Balance, total)
	acc.Stats.Trades++
	return TradeResult{Item: held, Quantity: qty, Total: total, Balance: acc.Balance}, nil
}

func (e *Engine) checkQuantity(qty int) error {
	if qty <= 0 || qty > e.rules.MaxTradeQuantity {
		return errors.Newf(errors.ErrInvalidAmount, "Quantity must be between 1 and %d.", e.rules.MaxTradeQuantity)
	}
	return nil
}
