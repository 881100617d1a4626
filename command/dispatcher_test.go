package command

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"

	"github.com/Digital-Creators-Team/stakes-engine/errors"
	"github.com/Digital-Creators-Team/stakes-engine/game"
	"github.com/Digital-Creators-Team/stakes-engine/pkg/providers"
	"github.com/Digital-Creators-Team/stakes-engine/provider"
	"github.com/Digital-Creators-Team/stakes-engine/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRandom struct {
	roll float64
}

func (r *fixedRandom) Float64() float64     { return r.roll }
func (r *fixedRandom) Int63n(n int64) int64 { return 0 }

type recordingAudit struct {
	mu   sync.Mutex
	logs []*providers.CommandLog
}

func (a *recordingAudit) LogCommand(ctx context.Context, log *providers.CommandLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logs = append(a.logs, log)
	return nil
}

type failingState struct {
	*provider.MemoryStateProvider
}

func (f failingState) Save(ctx context.Context, data []byte) error {
	return stderrors.New("disk full")
}

type fixture struct {
	d     *Dispatcher
	rng   *fixedRandom
	state *provider.MemoryStateProvider
	audit *recordingAudit
}

func newFixture(t *testing.T, state providers.StateProvider) *fixture {
	t.Helper()
	rng := &fixedRandom{roll: 0.99}
	engine := game.NewEngine(game.DefaultRules(), rng)
	st := store.New(state, engine.Catalog(), zerolog.Nop())
	audit := &recordingAudit{}

	f := &fixture{
		d:     NewDispatcher(engine, st, audit, zerolog.Nop()),
		rng:   rng,
		audit: audit,
	}
	if mem, ok := state.(*provider.MemoryStateProvider); ok {
		f.state = mem
	}
	return f
}

func (f *fixture) run(t *testing.T, user, line string) game.Result {
	t.Helper()
	res, err := f.d.Execute(context.Background(), user, line)
	require.NoError(t, err)
	return res
}

func TestDispatcherScript(t *testing.T) {
	f := newFixture(t, provider.NewMemoryStateProvider())
	ctx := context.Background()

	acc, err := f.d.CreateAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), acc.Balance)
	assert.Equal(t, int64(0), acc.Bank)

	res := f.run(t, "alice", "-dep 500")
	assert.Equal(t, game.OutcomePlain, res.Outcome)
	assert.Equal(t, "Deposited 500 Gcoins. New Balance: 500, Bank: 500", res.Message)

	res = f.run(t, "alice", "-with half")
	assert.Equal(t, "Withdrew 250 Gcoins. New Balance: 750, Bank: 250", res.Message)

	res = f.run(t, "alice", `-buy "golden throne"`)
	assert.Equal(t, game.OutcomeError, res.Outcome)
	assert.Equal(t, errors.ErrInsufficientFunds, res.Code)

	res = f.run(t, "alice", "-bal")
	assert.Equal(t, "Balance: 750 Gcoins", res.Message)

	// account creation plus one save per command
	assert.Equal(t, 5, f.state.Saves())
	assert.Len(t, f.audit.logs, 4)
	assert.Equal(t, "-buy", f.audit.logs[2].Command)
	assert.Equal(t, "error", f.audit.logs[2].Outcome)
}

func TestDispatcherCraft(t *testing.T) {
	tests := []struct {
		name    string
		roll    float64
		outcome game.Outcome
		cue     game.Cue
		message string
		potions int
	}{
		{name: "success", roll: 0.1, outcome: game.OutcomeEvent, cue: game.CueCraftSuccess, message: "You crafted a Healing Potion!", potions: 1},
		{name: "failure", roll: 0.95, outcome: game.OutcomeLoss, cue: game.CueCraftFailure, message: "Crafting Healing Potion failed. The materials were lost.", potions: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, provider.NewMemoryStateProvider())
			_, err := f.d.CreateAccount(context.Background(), "alice")
			require.NoError(t, err)
			f.rng.roll = tt.roll

			res := f.run(t, "alice", `-craft "Healing Potion"`)
			assert.Equal(t, tt.outcome, res.Outcome)
			assert.Equal(t, tt.cue, res.Cue)
			assert.Equal(t, tt.message, res.Message)

			acc, err := f.d.Account("alice")
			require.NoError(t, err)
			assert.Equal(t, 0, acc.CountItem("herb"))
			assert.Equal(t, 0, acc.CountItem("bottle"))
			assert.Equal(t, tt.potions, acc.CountItem("Healing Potion"))
		})
	}
}

func TestDispatcherUsageAndUnknown(t *testing.T) {
	f := newFixture(t, provider.NewMemoryStateProvider())
	_, err := f.d.CreateAccount(context.Background(), "alice")
	require.NoError(t, err)

	tests := []struct {
		line    string
		code    int
		message string
	}{
		{line: "-dep", code: errors.ErrMissingArgument, message: "Usage: -dep <amount/all/half>"},
		{line: "-with", code: errors.ErrMissingArgument, message: "Usage: -with <amount/all/half>"},
		{line: "-pay @bob", code: errors.ErrMissingArgument, message: "Usage: -pay <@user> <amount>"},
		{line: "-work", code: errors.ErrMissingArgument, message: "Usage: -work <job>"},
		{line: "-gamble", code: errors.ErrMissingArgument, message: "Usage: -gamble <amount>"},
		{line: "-bet", code: errors.ErrMissingArgument, message: "Usage: -bet <amount/all/half>"},
		{line: "-buy", code: errors.ErrMissingArgument, message: "Usage: -buy <item> [amount] (e.g., -buy bodyguard 1)"},
		{line: "-sell", code: errors.ErrMissingArgument, message: "Usage: -sell <item> [amount]"},
		{line: "-craft", code: errors.ErrMissingArgument, message: "Usage: -craft <item>"},
		{line: "-customitem", code: errors.ErrMissingArgument, message: `Usage: -customitem "<name>" effect:"<description>" cost:<amount>`},
		{line: "-fly", code: errors.ErrUnknownCommand, message: "Unknown command. Type -help for available commands."},
		{line: "-gamble all", code: errors.ErrInvalidAmount, message: "Invalid gamble amount."},
		{line: "-dep 5000", code: errors.ErrInsufficientFunds, message: "Insufficient balance."},
		{line: "-leaderboard gold", code: errors.ErrInvalidArgument, message: "Usage: -leaderboard [wealth|level]"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			res := f.run(t, "alice", tt.line)
			assert.Equal(t, game.OutcomeError, res.Outcome)
			assert.Equal(t, tt.code, res.Code)
			assert.Equal(t, tt.message, res.Message)
		})
	}

	acc, err := f.d.Account("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), acc.Balance)
	assert.Equal(t, int64(0), acc.Bank)
}

func TestDispatcherWagers(t *testing.T) {
	f := newFixture(t, provider.NewMemoryStateProvider())
	_, err := f.d.CreateAccount(context.Background(), "alice")
	require.NoError(t, err)

	f.rng.roll = 0.1
	res := f.run(t, "alice", "-gamble 100")
	assert.Equal(t, game.OutcomeWin, res.Outcome)
	assert.Equal(t, game.CueWagerWin, res.Cue)
	assert.Equal(t, "You gambled 100 Gcoins and won! New Balance: 1100", res.Message)

	f.rng.roll = 0.9
	for i := 0; i < 9; i++ {
		res = f.run(t, "alice", "-bet 10")
		assert.Equal(t, game.OutcomeLoss, res.Outcome)
		assert.Equal(t, game.CueWagerLoss, res.Cue)
	}

	res = f.run(t, "alice", "-bet 10")
	assert.Equal(t, game.OutcomeLoss, res.Outcome)
	assert.Equal(t, game.CueLevelUp, res.Cue)
	assert.True(t, strings.HasSuffix(res.Message, "\nYou've leveled up and gained extra luck!"))

	acc, err := f.d.Account("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), acc.Balance)
	assert.Equal(t, 2, acc.Level)
	assert.Equal(t, 0, acc.WagerStreak)
	assert.Equal(t, "1.1", acc.Luck.String())
}

func TestDispatcherPayAndLeaderboard(t *testing.T) {
	f := newFixture(t, provider.NewMemoryStateProvider())
	ctx := context.Background()
	for _, name := range []string{"alice", "bob"} {
		_, err := f.d.CreateAccount(ctx, name)
		require.NoError(t, err)
	}

	res := f.run(t, "alice", "-pay @Bob 300")
	assert.Equal(t, "Paid 300 Gcoins to @bob. New Balance: 700", res.Message)

	res = f.run(t, "alice", "-pay @carol 1")
	assert.Equal(t, errors.ErrTargetNotFound, res.Code)

	res = f.run(t, "alice", "-leaderboard")
	assert.Equal(t, "Leaderboard (wealth):\n1. bob - 1300\n2. alice - 700", res.Message)

	category, entries, err := f.d.Leaderboard("level")
	require.NoError(t, err)
	assert.Equal(t, game.RankLevel, category)
	require.Len(t, entries, 2)
	assert.Equal(t, "alice", entries[0].Username)

	_, _, err = f.d.Leaderboard("gold")
	assert.Equal(t, errors.ErrInvalidArgument, errors.GetCode(err))
}

func TestDispatcherMint(t *testing.T) {
	f := newFixture(t, provider.NewMemoryStateProvider())
	_, err := f.d.CreateAccount(context.Background(), "alice")
	require.NoError(t, err)

	res := f.run(t, "alice", `-customitem "Aegis" effect:"shield" cost:999999`)
	assert.Equal(t, errors.ErrCostTooLow, res.Code)
	assert.Equal(t, "Custom items cost at least 1000000 Gcoins.", res.Message)

	res = f.run(t, "alice", `-customitem "Aegis" effect:"shield" cost:1000000`)
	assert.Equal(t, errors.ErrInsufficientFunds, res.Code)

	res = f.run(t, "alice", `-customitem Aegis`)
	assert.Equal(t, errors.ErrMalformedPayload, res.Code)
}

func TestDispatcherExecuteErrors(t *testing.T) {
	f := newFixture(t, provider.NewMemoryStateProvider())
	ctx := context.Background()

	_, err := f.d.Execute(ctx, "alice", "   ")
	assert.Equal(t, errors.ErrInvalidRequest, errors.GetCode(err))

	_, err = f.d.Execute(ctx, "ghost", "-bal")
	assert.Equal(t, errors.ErrAccountNotFound, errors.GetCode(err))
	assert.Equal(t, 0, f.state.Saves())
}

func TestDispatcherSaveFailureKeepsResult(t *testing.T) {
	mem := provider.NewMemoryStateProvider()
	f := newFixture(t, failingState{mem})
	ctx := context.Background()

	_, err := f.d.CreateAccount(ctx, "alice")
	assert.Equal(t, errors.ErrStoreError, errors.GetCode(err))

	res, err := f.d.Execute(ctx, "alice", "-daily")
	assert.Equal(t, errors.ErrStoreError, errors.GetCode(err))
	assert.Equal(t, "You collected your daily bonus of 200 Gcoins!", res.Message)

	acc, err := f.d.Account("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1200), acc.Balance)
}

func TestDispatcherUsesCommandContext(t *testing.T) {
	f := newFixture(t, provider.NewMemoryStateProvider())
	_, err := f.d.CreateAccount(context.Background(), "alice")
	require.NoError(t, err)

	cc := game.NewCommandContext(zerolog.Nop(), "trace-1", "alice", game.SourceHTTP)
	_, err = f.d.Execute(game.WithContext(context.Background(), cc), "alice", "-status")
	require.NoError(t, err)

	require.Len(t, f.audit.logs, 1)
	assert.Equal(t, "trace-1", f.audit.logs[0].TraceID)
	assert.Equal(t, game.SourceHTTP, f.audit.logs[0].Source)
}

func TestInventoryFormatting(t *testing.T) {
	assert.Equal(t, "Empty", formatItems(nil))
	assert.Equal(t, "herb x3, bottle, iron ore x2", formatItems([]string{"herb", "bottle", "herb", "iron ore", "herb", "iron ore"}))
}
