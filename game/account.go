package game

import (
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Stats holds per-account counters
type Stats struct {
	JobsCompleted   int `json:"jobsCompleted"`
	BattlesWon      int `json:"battlesWon"`
	Trades          int `json:"trades"`
	BetsWon         int `json:"betsWon"`
	QuestsCompleted int `json:"questsCompleted"`
}

// Account is one player's persistent record.
//
// Balance and Bank never go negative: every operation validates before it
// mutates, so a failed command leaves the account untouched.
type Account struct {
	Username    string          `json:"username"`
	Balance     int64           `json:"balance"`
	Bank        int64           `json:"bank"`
	Inventory   []string        `json:"inventory"`
	CustomItems []CustomItem    `json:"customItems"`
	Luck        decimal.Decimal `json:"luck"`
	Level       int             `json:"level"`
	WagerStreak int             `json:"wagerStreak"`
	Stats       Stats           `json:"stats"`
	ActiveJob   string          `json:"activeJob,omitempty"`
	LastWager   int64           `json:"lastWager"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewAccount creates an account with the starting balance and inventory from rules
func NewAccount(username string, rules Rules, now time.Time) *Account {
	inventory := make([]string, len(rules.StartingInventory))
	copy(inventory, rules.StartingInventory)

	return &Account{
		Username:    username,
		Balance:     rules.StartingBalance,
		Bank:        rules.StartingBank,
		Inventory:   inventory,
		CustomItems: []CustomItem{},
		Luck:        decimal.NewFromInt(1),
		Level:       1,
		CreatedAt:   now.UTC(),
	}
}

// Wealth returns balance plus bank
func (a *Account) Wealth() int64 {
	return a.Balance + a.Bank
}

// CountItem counts inventory entries matching name, ignoring case
func (a *Account) CountItem(name string) int {
	return lo.CountBy(a.Inventory, func(item string) bool {
		return strings.EqualFold(item, name)
	})
}

// removeItems drops the first n entries matching name (case-insensitive).
// Callers check CountItem first.
func (a *Account) removeItems(name string, n int) {
	if n <= 0 {
		return
	}
	kept := a.Inventory[:0]
	for _, item := range a.Inventory {
		if n > 0 && strings.EqualFold(item, name) {
			n--
			continue
		}
		kept = append(kept, item)
	}
	a.Inventory = kept
}

// removeCustomItems drops up to n custom items named name
func (a *Account) removeCustomItems(name string, n int) {
	kept := a.CustomItems[:0]
	for _, item := range a.CustomItems {
		if n > 0 && strings.EqualFold(item.Name, name) {
			n--
			continue
		}
		kept = append(kept, item)
	}
	a.CustomItems = kept
}

func (a *Account) addItems(name string, n int) {
	for i := 0; i < n; i++ {
		a.Inventory = append(a.Inventory, name)
	}
}

// Clone returns a deep copy safe to hand to readers outside the store lock
func (a *Account) Clone() *Account {
	c := *a
	c.Inventory = append([]string(nil), a.Inventory...)
	c.CustomItems = append([]CustomItem(nil), a.CustomItems...)
	return &c
}

// Normalize repairs fields that older snapshots may have left empty
func (a *Account) Normalize() {
	if a.Inventory == nil {
		a.Inventory = []string{}
	}
	if a.CustomItems == nil {
		a.CustomItems = []CustomItem{}
	}
	if a.Luck.IsZero() {
		a.Luck = decimal.NewFromInt(1)
	}
	if a.Level < 1 {
		a.Level = 1
	}
}

// Directory resolves other accounts by username
type Directory interface {
	Lookup(username string) (*Account, bool)
}
