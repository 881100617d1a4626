package command

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/Digital-Creators-Team/stakes-engine/errors"
	"github.com/Digital-Creators-Team/stakes-engine/game"
	"github.com/Digital-Creators-Team/stakes-engine/logging"
	"github.com/Digital-Creators-Team/stakes-engine/pkg/providers"
	"github.com/Digital-Creators-Team/stakes-engine/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrEmptyCommand is returned for blank input; nothing runs and nothing is saved
var ErrEmptyCommand = errors.New(errors.ErrInvalidRequest, "empty command")

var integerPattern = regexp.MustCompile(`^[+-]?[0-9]+$`)

type handlerFunc func(d *Dispatcher, acc *game.Account, cmd Command) (game.Result, error)

type route struct {
	usage   string
	minArgs int
	handler handlerFunc
}

// Dispatcher resolves command lines against the store. Commands run one at a
// time: the catalog is shared, so a single lock covers every mutation.
type Dispatcher struct {
	mu     sync.Mutex
	engine *game.Engine
	store  *store.Store
	audit  providers.AuditProvider
	logger zerolog.Logger
	routes map[string]route
}

// NewDispatcher creates a dispatcher. audit may be nil.
func NewDispatcher(engine *game.Engine, st *store.Store, audit providers.AuditProvider, logger zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		engine: engine,
		store:  st,
		audit:  audit,
		logger: logging.WithComponent(logger, "dispatcher"),
	}
	d.routes = d.buildRoutes()
	return d
}

func (d *Dispatcher) buildRoutes() map[string]route {
	deposit := route{usage: "Usage: -dep <amount/all/half>", minArgs: 1, handler: handleDeposit}
	withdraw := route{usage: "Usage: -with <amount/all/half>", minArgs: 1, handler: handleWithdraw}
	balance := route{handler: handleBalance}
	inventory := route{handler: handleInventory}

	return map[string]route{
		"-info":        {handler: handleInfo},
		"-balance":     balance,
		"-bal":         balance,
		"-deposit":     deposit,
		"-dep":         deposit,
		"-withdraw":    withdraw,
		"-with":        withdraw,
		"-pay":         {usage: "Usage: -pay <@user> <amount>", minArgs: 2, handler: handlePay},
		"-daily":       {handler: handleDaily},
		"-beg":         {handler: handleBeg},
		"-jobs":        {handler: handleJobs},
		"-work":        {usage: "Usage: -work <job>", minArgs: 1, handler: handleWork},
		"-explore":     {handler: handleExplore},
		"-gamble":      {usage: "Usage: -gamble <amount>", minArgs: 1, handler: handleGamble},
		"-bet":         {usage: "Usage: -bet <amount/all/half>", minArgs: 1, handler: handleBet},
		"-shop":        {handler: handleShop},
		"-buy":         {usage: "Usage: -buy <item> [amount] (e.g., -buy bodyguard 1)", minArgs: 1, handler: handleBuy},
		"-sell":        {usage: "Usage: -sell <item> [amount]", minArgs: 1, handler: handleSell},
		"-inventory":   inventory,
		"-inv":         inventory,
		"-craftables":  {handler: handleCraftables},
		"-craft":       {usage: "Usage: -craft <item>", minArgs: 1, handler: handleCraft},
		"-customitem":  {usage: `Usage: -customitem "<name>" effect:"<description>" cost:<amount>`, minArgs: 1, handler: handleMint},
		"-leaderboard": {handler: handleLeaderboard},
		"-status":      {handler: handleStatus},
		"-help":        {handler: handleHelp},
	}
}

// Engine returns the engine commands run against
func (d *Dispatcher) Engine() *game.Engine {
	return d.engine
}

// CreateAccount registers a new account with the starting rules and saves the store
func (d *Dispatcher) CreateAccount(ctx context.Context, username string) (*game.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	acc := d.engine.NewAccount(username)
	if err := d.store.Create(acc); err != nil {
		return nil, err
	}
	if err := d.store.Save(ctx); err != nil {
		d.logger.Error().Err(err).Str("username", username).Msg("Failed to persist new account")
		return acc.Clone(), err
	}
	d.logger.Info().Str("username", acc.Username).Msg("Account created")
	return acc.Clone(), nil
}

// Account returns a copy of the named account
func (d *Dispatcher) Account(username string) (*game.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	acc, err := d.store.Get(username)
	if err != nil {
		return nil, err
	}
	return acc.Clone(), nil
}

// Leaderboard ranks every account by category
func (d *Dispatcher) Leaderboard(category string) (game.RankCategory, []game.RankEntry, error) {
	c, err := game.ParseRankCategory(category)
	if err != nil {
		return "", nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return c, game.Rank(d.store.All(), c, d.engine.Rules().LeaderboardSize), nil
}

// Execute parses and resolves one line for username, then persists the store.
//
// Game rule failures come back as a Result with OutcomeError and a nil error.
// A non-nil error means the command could not run (unknown account) or its
// result could not be saved; in the latter case the returned Result is still
// the command's outcome.
func (d *Dispatcher) Execute(ctx context.Context, username, line string) (game.Result, error) {
	cmd, ok := Parse(line)
	if !ok {
		return game.Result{}, ErrEmptyCommand
	}

	start := time.Now()
	logger := d.logger
	traceID := ""
	source := game.SourceREPL
	if cc := game.FromContext(ctx); cc != nil {
		logger = logging.WithComponent(cc.Logger, "dispatcher")
		traceID = cc.TraceID
		source = cc.Source
	}
	if traceID == "" {
		traceID = uuid.New().String()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	acc, err := d.store.Get(username)
	if err != nil {
		return game.Result{}, err
	}

	logger = logging.WithCommand(logger, cmd.Name)
	result := d.resolve(acc, cmd)
	duration := time.Since(start)

	logger.Info().
		Str("trace_id", traceID).
		Str("username", acc.Username).
		Str("outcome", string(result.Outcome)).
		Int("code", result.Code).
		Dur("duration", duration).
		Msg("Command resolved")

	d.recordAudit(ctx, logger, &providers.CommandLog{
		TraceID:   traceID,
		Username:  acc.Username,
		Source:    source,
		Command:   cmd.Name,
		Args:      cmd.Args,
		Outcome:   string(result.Outcome),
		Cue:       string(result.Cue),
		Code:      result.Code,
		Message:   result.Message,
		Balance:   acc.Balance,
		Bank:      acc.Bank,
		Duration:  duration,
		Timestamp: start.UTC(),
	})

	if err := d.store.Save(ctx); err != nil {
		logger.Error().Err(err).Str("trace_id", traceID).Msg("Failed to persist state")
		return result, err
	}
	return result, nil
}

func (d *Dispatcher) resolve(acc *game.Account, cmd Command) game.Result {
	r, ok := d.routes[cmd.Name]
	if !ok {
		return game.ErrorResult(errors.New(errors.ErrUnknownCommand, unknownCommandText))
	}
	if len(cmd.Args) < r.minArgs {
		return game.ErrorResult(errors.New(errors.ErrMissingArgument, r.usage))
	}

	result, err := r.handler(d, acc, cmd)
	if err != nil {
		return game.ErrorResult(err)
	}
	return result
}

func (d *Dispatcher) recordAudit(ctx context.Context, logger zerolog.Logger, log *providers.CommandLog) {
	if d.audit == nil {
		return
	}
	if err := d.audit.LogCommand(ctx, log); err != nil {
		logger.Warn().Err(err).Str("trace_id", log.TraceID).Msg("Failed to record command audit")
	}
}

// splitQuantity reads "<item words...> [qty]". A trailing integer is the
// quantity when there is at least one word before it.
func splitQuantity(args []string) (string, int, error) {
	if len(args) >= 2 && integerPattern.MatchString(args[len(args)-1]) {
		qty, err := strconv.Atoi(args[len(args)-1])
		if err != nil {
			return "", 0, errors.New(errors.ErrInvalidAmount, "Invalid amount.")
		}
		return Command{Args: args[:len(args)-1]}.Rest(0), qty, nil
	}
	return Command{Args: args}.Rest(0), 1, nil
}

func handleInfo(d *Dispatcher, acc *game.Account, _ Command) (game.Result, error) {
	return game.Plain(formatInfo(acc, d.engine.Rules())), nil
}

func handleBalance(_ *Dispatcher, acc *game.Account, _ Command) (game.Result, error) {
	return game.Plain(fmt.Sprintf("Balance: %d Gcoins", acc.Balance)), nil
}

func handleDeposit(d *Dispatcher, acc *game.Account, cmd Command) (game.Result, error) {
	res, err := d.engine.Deposit(acc, cmd.Arg(0))
	if err != nil {
		return game.Result{}, err
	}
	return game.Plain(fmt.Sprintf("Deposited %d Gcoins. New Balance: %d, Bank: %d", res.Amount, res.Balance, res.Bank)), nil
}

func handleWithdraw(d *Dispatcher, acc *game.Account, cmd Command) (game.Result, error) {
	res, err := d.engine.Withdraw(acc, cmd.Arg(0))
	if err != nil {
		return game.Result{}, err
	}
	return game.Plain(fmt.Sprintf("Withdrew %d Gcoins. New Balance: %d, Bank: %d", res.Amount, res.Balance, res.Bank)), nil
}

func handlePay(d *Dispatcher, acc *game.Account, cmd Command) (game.Result, error) {
	res, err := d.engine.Pay(acc, d.store, cmd.Arg(0), cmd.Arg(1))
	if err != nil {
		return game.Result{}, err
	}
	return game.Plain(fmt.Sprintf("Paid %d Gcoins to @%s. New Balance: %d", res.Amount, res.Target, res.Balance)), nil
}

func handleDaily(d *Dispatcher, acc *game.Account, _ Command) (game.Result, error) {
	res := d.engine.Daily(acc)
	return game.Plain(fmt.Sprintf("You collected your daily bonus of %d Gcoins!", res.Amount)), nil
}

func handleBeg(d *Dispatcher, acc *game.Account, _ Command) (game.Result, error) {
	res := d.engine.Beg(acc)
	return game.Plain(fmt.Sprintf("You begged and received %d Gcoins!", res.Amount)), nil
}

func handleJobs(d *Dispatcher, _ *game.Account, _ Command) (game.Result, error) {
	return game.Plain(formatJobs(d.engine.Rules())), nil
}

func handleWork(d *Dispatcher, acc *game.Account, cmd Command) (game.Result, error) {
	res := d.engine.Work(acc, cmd.Arg(0))
	return game.Plain(fmt.Sprintf("You worked as a %s and earned %d Gcoins!", res.Job, res.Amount)), nil
}

func handleExplore(d *Dispatcher, acc *game.Account, _ Command) (game.Result, error) {
	res := d.engine.Explore(acc)
	return game.Plain(fmt.Sprintf("You explore the area and discover a hidden treasure chest containing %d Gcoins!", res.Amount)), nil
}

func wagerResult(verb string, res game.WagerResult) game.Result {
	if !res.Won {
		r := game.Result{
			Outcome: game.OutcomeLoss,
			Cue:     game.CueWagerLoss,
			Message: fmt.Sprintf("You %s %d Gcoins and lost. New Balance: %d", verb, res.Amount, res.Balance),
		}
		if res.LeveledUp {
			r.Cue = game.CueLevelUp
			r.Message += "\nYou've leveled up and gained extra luck!"
		}
		return r
	}

	r := game.Result{
		Outcome: game.OutcomeWin,
		Cue:     game.CueWagerWin,
		Message: fmt.Sprintf("You %s %d Gcoins and won! New Balance: %d", verb, res.Amount, res.Balance),
	}
	if res.LeveledUp {
		r.Cue = game.CueLevelUp
		r.Message += "\nYou've leveled up and gained extra luck!"
	}
	return r
}

func handleGamble(d *Dispatcher, acc *game.Account, cmd Command) (game.Result, error) {
	res, err := d.engine.Gamble(acc, cmd.Arg(0))
	if err != nil {
		return game.Result{}, err
	}
	return wagerResult("gambled", res), nil
}

func handleBet(d *Dispatcher, acc *game.Account, cmd Command) (game.Result, error) {
	res, err := d.engine.Bet(acc, cmd.Arg(0))
	if err != nil {
		return game.Result{}, err
	}
	return wagerResult("bet", res), nil
}

func handleShop(d *Dispatcher, _ *game.Account, _ Command) (game.Result, error) {
	return game.Plain(formatShop(d.engine.Catalog().Items())), nil
}

func handleBuy(d *Dispatcher, acc *game.Account, cmd Command) (game.Result, error) {
	name, qty, err := splitQuantity(cmd.Args)
	if err != nil {
		return game.Result{}, err
	}
	res, err := d.engine.Buy(acc, name, qty)
	if err != nil {
		return game.Result{}, err
	}
	return game.Plain(fmt.Sprintf("Bought %d %s(s) for %d Gcoins.", res.Quantity, res.Item, res.Total)), nil
}

func handleSell(d *Dispatcher, acc *game.Account, cmd Command) (game.Result, error) {
	name, qty, err := splitQuantity(cmd.Args)
	if err != nil {
		return game.Result{}, err
	}
	res, err := d.engine.Sell(acc, name, qty)
	if err != nil {
		return game.Result{}, err
	}
	return game.Plain(fmt.Sprintf("Sold %d %s(s) for %d Gcoins. New Balance: %d", res.Quantity, res.Item, res.Total, res.Balance)), nil
}

func handleInventory(_ *Dispatcher, acc *game.Account, _ Command) (game.Result, error) {
	return game.Plain("Inventory: " + formatItems(acc.Inventory)), nil
}

func handleCraftables(d *Dispatcher, _ *game.Account, _ Command) (game.Result, error) {
	return game.Plain(formatRecipes(d.engine.Recipes())), nil
}

func handleCraft(d *Dispatcher, acc *game.Account, cmd Command) (game.Result, error) {
	res, err := d.engine.Craft(acc, cmd.Rest(0))
	if err != nil {
		return game.Result{}, err
	}
	if res.Success {
		return game.Event(game.CueCraftSuccess, fmt.Sprintf("You crafted a %s!", res.Recipe.Result)), nil
	}
	return game.Result{
		Outcome: game.OutcomeLoss,
		Cue:     game.CueCraftFailure,
		Message: fmt.Sprintf("Crafting %s failed. The materials were lost.", res.Recipe.Result),
	}, nil
}

func handleMint(d *Dispatcher, acc *game.Account, cmd Command) (game.Result, error) {
	res, err := d.engine.Mint(acc, cmd.Payload)
	if err != nil {
		return game.Result{}, err
	}
	return game.Event(game.CueMint, fmt.Sprintf(
		"You minted %s (%s) for %d Gcoins. It is now sold in the shop for %d Gcoins. New Balance: %d",
		res.Item.Name, res.Item.Effect, res.Cost, res.Listing.Price, res.Balance)), nil
}

func handleLeaderboard(d *Dispatcher, _ *game.Account, cmd Command) (game.Result, error) {
	category, err := game.ParseRankCategory(cmd.Arg(0))
	if err != nil {
		return game.Result{}, err
	}
	entries := game.Rank(d.store.All(), category, d.engine.Rules().LeaderboardSize)
	return game.Plain(formatLeaderboard(category, entries)), nil
}

func handleStatus(d *Dispatcher, _ *game.Account, _ Command) (game.Result, error) {
	return game.Plain(fmt.Sprintf("%s Players: %d, Shop Items: %d.",
		statusText, d.store.Len(), len(d.engine.Catalog().Items()))), nil
}

func handleHelp(_ *Dispatcher, _ *game.Account, _ Command) (game.Result, error) {
	return game.Plain(helpText), nil
}
