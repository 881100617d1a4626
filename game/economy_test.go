package game

import (
	"math"
	"testing"

	"github.com/Digital-Creators-Team/stakes-engine/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccountStartingState(t *testing.T) {
	e := newTestEngine(alwaysRoll(0))
	acc := e.NewAccount("alice")

	assert.Equal(t, "alice", acc.Username)
	assert.Equal(t, int64(1000), acc.Balance)
	assert.Equal(t, int64(0), acc.Bank)
	assert.Equal(t, 1, acc.Level)
	assert.Equal(t, "1", acc.Luck.String())
	assert.Equal(t, 3, acc.CountItem("herb"))
	assert.Equal(t, 1, acc.CountItem("bottle"))
	assert.Equal(t, 5, acc.CountItem("iron ore"))
	assert.Equal(t, 1, acc.CountItem("leather strap"))
	assert.Equal(t, 10, acc.CountItem("wood plank"))
	assert.Equal(t, 1, acc.CountItem("iron nail"))
	assert.Equal(t, testNow, acc.CreatedAt)
}

func TestDepositWithdrawScript(t *testing.T) {
	e := newTestEngine(alwaysRoll(0))
	acc := e.NewAccount("alice")

	res, err := e.Deposit(acc, "500")
	require.NoError(t, err)
	assert.Equal(t, TransferResult{Amount: 500, Balance: 500, Bank: 500}, res)

	res, err = e.Withdraw(acc, "half")
	require.NoError(t, err)
	assert.Equal(t, TransferResult{Amount: 250, Balance: 750, Bank: 250}, res)
}

func TestDepositWithdrawErrors(t *testing.T) {
	tests := []struct {
		name     string
		deposit  bool
		bank     int64
		spec     string
		wantCode int
	}{
		{name: "zero", deposit: true, spec: "0", wantCode: errors.ErrInvalidAmount},
		{name: "negative", deposit: true, spec: "-5", wantCode: errors.ErrInvalidAmount},
		{name: "not a number", deposit: true, spec: "lots", wantCode: errors.ErrInvalidAmount},
		{name: "fraction", deposit: true, spec: "1.5", wantCode: errors.ErrInvalidAmount},
		{name: "trailing garbage", deposit: true, spec: "10abc", wantCode: errors.ErrInvalidAmount},
		{name: "above balance", deposit: true, spec: "1001", wantCode: errors.ErrInsufficientFunds},
		{name: "withdraw all of empty bank", spec: "all", wantCode: errors.ErrInvalidAmount},
		{name: "withdraw half of one", bank: 1, spec: "half", wantCode: errors.ErrInvalidAmount},
		{name: "withdraw above bank", bank: 10, spec: "11", wantCode: errors.ErrInsufficientBank},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(alwaysRoll(0))
			acc := e.NewAccount("alice")
			acc.Bank = tt.bank
			before := acc.Clone()

			var err error
			if tt.deposit {
				_, err = e.Deposit(acc, tt.spec)
			} else {
				_, err = e.Withdraw(acc, tt.spec)
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
			assert.Equal(t, before, acc)
		})
	}
}

func TestTransfersConserveWealth(t *testing.T) {
	e := newTestEngine(alwaysRoll(0))
	acc := e.NewAccount("alice")
	wealth := acc.Wealth()

	steps := []struct {
		deposit bool
		spec    string
	}{
		{true, "half"}, {true, "123"}, {false, "all"}, {true, "all"},
		{false, "half"}, {false, "7"}, {true, "9999"}, {false, "abc"},
	}
	for _, s := range steps {
		if s.deposit {
			_, _ = e.Deposit(acc, s.spec)
		} else {
			_, _ = e.Withdraw(acc, s.spec)
		}
		assert.Equal(t, wealth, acc.Wealth())
		assert.GreaterOrEqual(t, acc.Balance, int64(0))
		assert.GreaterOrEqual(t, acc.Bank, int64(0))
	}
}

func TestDepositAllWithdrawAllRoundTrip(t *testing.T) {
	e := newTestEngine(alwaysRoll(0))
	acc := e.NewAccount("alice")
	acc.Bank = 40

	_, err := e.Deposit(acc, "ALL")
	require.NoError(t, err)
	assert.Equal(t, int64(0), acc.Balance)

	_, err = e.Withdraw(acc, "all")
	require.NoError(t, err)
	assert.Equal(t, int64(1040), acc.Balance)
	assert.Equal(t, int64(0), acc.Bank)
}

func TestPay(t *testing.T) {
	e := newTestEngine(alwaysRoll(0))
	alice := e.NewAccount("alice")
	bob := e.NewAccount("bob")
	dir := mapDirectory{"alice": alice, "bob": bob}

	res, err := e.Pay(alice, dir, "@bob", "300")
	require.NoError(t, err)
	assert.Equal(t, "bob", res.Target)
	assert.Equal(t, int64(700), alice.Balance)
	assert.Equal(t, int64(1300), bob.Balance)
	assert.Equal(t, 1, alice.Stats.Trades)

	tests := []struct {
		name     string
		target   string
		spec     string
		wantCode int
	}{
		{name: "unknown target", target: "@carol", spec: "1", wantCode: errors.ErrTargetNotFound},
		{name: "self", target: "@Alice", spec: "1", wantCode: errors.ErrInvalidTarget},
		{name: "keyword amount", target: "bob", spec: "all", wantCode: errors.ErrInvalidAmount},
		{name: "zero", target: "bob", spec: "0", wantCode: errors.ErrInvalidAmount},
		{name: "too much", target: "bob", spec: "701", wantCode: errors.ErrInsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Pay(alice, dir, tt.target, tt.spec)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
			assert.Equal(t, int64(700), alice.Balance)
			assert.Equal(t, int64(1300), bob.Balance)
		})
	}

	_, err = e.Pay(alice, nil, "bob", "1")
	assert.Equal(t, errors.ErrTargetNotFound, errors.GetCode(err))
}

func TestIncome(t *testing.T) {
	rng := &scriptedRandom{intValue: 0}
	e := newTestEngine(rng)
	acc := e.NewAccount("alice")

	res := e.Work(acc, "Miner")
	assert.Equal(t, int64(150), res.Amount)
	assert.Equal(t, "Miner", acc.ActiveJob)

	res = e.Work(acc, "astronaut")
	assert.Equal(t, int64(50), res.Amount)
	assert.Equal(t, 2, acc.Stats.JobsCompleted)

	res = e.Beg(acc)
	assert.Equal(t, int64(10), res.Amount)
	assert.Equal(t, []int64{50}, rng.intCalls)

	rng.intValue = 1000
	res = e.Beg(acc)
	assert.Equal(t, int64(59), res.Amount)

	res = e.Daily(acc)
	assert.Equal(t, int64(200), res.Amount)

	res = e.Explore(acc)
	assert.Equal(t, int64(150), res.Amount)

	assert.Equal(t, int64(1000+150+50+10+59+200+150), acc.Balance)
}

func TestBuy(t *testing.T) {
	e := newTestEngine(alwaysRoll(0))
	acc := e.NewAccount("alice")

	res, err := e.Buy(acc, "Bodyguard", 1)
	require.NoError(t, err)
	assert.Equal(t, "bodyguard", res.Item)
	assert.Equal(t, int64(500), acc.Balance)
	assert.Equal(t, 1, acc.CountItem("bodyguard"))

	res, err = e.Buy(acc, "bunny", 2)
	require.NoError(t, err)
	assert.Equal(t, "bunny ears", res.Item)
	assert.Equal(t, int64(400), res.Total)
	assert.Equal(t, int64(100), acc.Balance)
	assert.Equal(t, 2, acc.CountItem("bunny ears"))
	assert.Equal(t, 2, acc.Stats.Trades)

	before := acc.Clone()
	tests := []struct {
		name     string
		item     string
		qty      int
		wantCode int
	}{
		{name: "priced above balance", item: "golden throne", qty: 1, wantCode: errors.ErrInsufficientFunds},
		{name: "quantity above balance", item: "flower crown", qty: 1, wantCode: errors.ErrInsufficientFunds},
		{name: "unknown item", item: "dragon", qty: 1, wantCode: errors.ErrItemNotFound},
		{name: "zero quantity", item: "bodyguard", qty: 0, wantCode: errors.ErrInvalidAmount},
		{name: "huge quantity", item: "bodyguard", qty: 1_000_000, wantCode: errors.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Buy(acc, tt.item, tt.qty)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
			assert.Equal(t, before, acc)
		})
	}
}

func TestSell(t *testing.T) {
	e := newTestEngine(alwaysRoll(0))
	acc := e.NewAccount("alice")

	_, err := e.Buy(acc, "flower crown", 1)
	require.NoError(t, err)
	require.Equal(t, int64(700), acc.Balance)

	res, err := e.Sell(acc, "flower", 1)
	require.NoError(t, err)
	assert.Equal(t, "flower crown", res.Item)
	assert.Equal(t, int64(150), res.Total)
	assert.Equal(t, int64(850), acc.Balance)
	assert.Equal(t, 0, acc.CountItem("flower crown"))

	res, err = e.Sell(acc, "HERB", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(20), res.Total)
	assert.Equal(t, 1, acc.CountItem("herb"))

	before := acc.Clone()
	_, err = e.Sell(acc, "herb", 2)
	assert.Equal(t, errors.ErrInsufficientItems, errors.GetCode(err))
	_, err = e.Sell(acc, "dragon", 1)
	assert.Equal(t, errors.ErrItemNotFound, errors.GetCode(err))
	_, err = e.Sell(acc, "herb", -1)
	assert.Equal(t, errors.ErrInvalidAmount, errors.GetCode(err))
	assert.Equal(t, before, acc)
}

func TestSellRoundsTotalDown(t *testing.T) {
	e := newTestEngine(alwaysRoll(0))
	require.NoError(t, e.Catalog().Add(CatalogItem{Name: "lantern", Category: "tool", Price: 75}))
	acc := e.NewAccount("alice")
	acc.Inventory = append(acc.Inventory, "lantern", "lantern", "lantern")

	res, err := e.Sell(acc, "lantern", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(75), res.Total)

	res, err = e.Sell(acc, "lantern", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(37), res.Total)
	assert.Equal(t, int64(1112), acc.Balance)
}

func TestCreditsSaturate(t *testing.T) {
	e := newTestEngine(alwaysRoll(0))
	alice := e.NewAccount("alice")
	bob := e.NewAccount("bob")
	bob.Balance = math.MaxInt64 - 10
	dir := mapDirectory{"alice": alice, "bob": bob}

	_, err := e.Pay(alice, dir, "bob", "11")
	assert.Equal(t, errors.ErrInvalidAmount, errors.GetCode(err))
	assert.Equal(t, int64(1000), alice.Balance)
	assert.Equal(t, int64(math.MaxInt64-10), bob.Balance)

	_, err = e.Pay(alice, dir, "bob", "10")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), bob.Balance)

	e.Daily(bob)
	assert.Equal(t, int64(math.MaxInt64), bob.Balance)

	_, err = e.Bet(bob, "half")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), bob.Balance)
}

func TestResolveAmount(t *testing.T) {
	tests := []struct {
		spec     string
		pool     int64
		keywords bool
		want     int64
		wantErr  bool
	}{
		{spec: "all", pool: 90, keywords: true, want: 90},
		{spec: "Half", pool: 91, keywords: true, want: 45},
		{spec: " 42 ", pool: 0, keywords: true, want: 42},
		{spec: "all", pool: 90, keywords: false, wantErr: true},
		{spec: "half", pool: 1, keywords: true, wantErr: true},
		{spec: "99999999999999999999", pool: 1, keywords: true, wantErr: true},
		{spec: "", pool: 1, keywords: true, wantErr: true},
	}
	for _, tt := range tests {
		got, err := ResolveAmount("test", tt.spec, tt.pool, tt.keywords)
		if tt.wantErr {
			assert.Equal(t, errors.ErrInvalidAmount, errors.GetCode(err), tt.spec)
			continue
		}
		require.NoError(t, err, tt.spec)
		assert.Equal(t, tt.want, got, tt.spec)
	}
}
