package server

import (
	"github.com/Digital-Creators-Team/stakes-engine/errors"
	"github.com/Digital-Creators-Team/stakes-engine/game"
	"github.com/Digital-Creators-Team/stakes-engine/types"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CommandHandler handles the HTTP side of the command surface
//
// Flow: HTTP Request -> CommandHandler -> command.Dispatcher -> game.Engine
//
// Game rule failures are not HTTP failures: a rejected -buy answers 200 with
// outcome "error" and the rule's code.
type CommandHandler struct {
	app    *App
	logger zerolog.Logger
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(app *App) *CommandHandler {
	return &CommandHandler{
		app:    app,
		logger: app.logger.With().Str("handler", "command").Logger(),
	}
}

// AccountView is the public JSON shape of an account
type AccountView struct {
	Username    string          `json:"username"`
	Balance     int64           `json:"balance"`
	Bank        int64           `json:"bank"`
	Wealth      int64           `json:"wealth"`
	Luck        decimal.Decimal `json:"luck"`
	Level       int             `json:"level"`
	WagerStreak int             `json:"wagerStreak"`
	Inventory   []string        `json:"inventory"`
	CustomItems []string        `json:"customItems"`
	Stats       game.Stats      `json:"stats"`
}

func newAccountView(acc *game.Account) AccountView {
	custom := make([]string, 0, len(acc.CustomItems))
	for _, item := range acc.CustomItems {
		custom = append(custom, item.Name)
	}
	return AccountView{
		Username:    acc.Username,
		Balance:     acc.Balance,
		Bank:        acc.Bank,
		Wealth:      acc.Wealth(),
		Luck:        acc.Luck,
		Level:       acc.Level,
		WagerStreak: acc.WagerStreak,
		Inventory:   acc.Inventory,
		CustomItems: custom,
		Stats:       acc.Stats,
	}
}

// CommandResponse carries the result of one command
type CommandResponse struct {
	TraceID string      `json:"traceId"`
	Result  game.Result `json:"result"`
}

// LeaderboardResponse carries one ranking
type LeaderboardResponse struct {
	Category game.RankCategory `json:"category"`
	Entries  []game.RankEntry  `json:"entries"`
}

// CreateAccount registers a new account.
// Route: POST /api/accounts {"username": "alice"}
func (h *CommandHandler) CreateAccount(c *gin.Context) {
	var req types.AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, errors.Wrap(err, errors.ErrInvalidRequest, "username is required"))
		return
	}

	acc, err := h.app.dispatcher.CreateAccount(c.Request.Context(), req.Username)
	if err != nil {
		h.logger.Warn().Err(err).Str("username", req.Username).Msg("Account not created")
		HandleAppError(c, err)
		return
	}
	Created(c, newAccountView(acc))
}

// GetAccount returns an account.
// Route: GET /api/accounts/:username
func (h *CommandHandler) GetAccount(c *gin.Context) {
	acc, err := h.app.dispatcher.Account(c.Param("username"))
	if err != nil {
		HandleAppError(c, err)
		return
	}
	OK(c, newAccountView(acc))
}

// Execute runs one command line for the session user.
// Route: POST /api/commands {"command": "-dep 500"}
func (h *CommandHandler) Execute(c *gin.Context) {
	cc := game.MustFromContext(c.Request.Context())

	var req types.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, errors.Wrap(err, errors.ErrInvalidRequest, "command is required"))
		return
	}

	result, err := h.app.dispatcher.Execute(c.Request.Context(), cc.Username, req.Command)
	if err != nil {
		cc.Logger.Error().Err(err).Str("command", req.Command).Msg("Command failed")
		HandleAppError(c, err)
		return
	}
	OK(c, CommandResponse{TraceID: cc.TraceID, Result: result})
}

// Leaderboard ranks accounts.
// Route: GET /api/leaderboard?category=level
func (h *CommandHandler) Leaderboard(c *gin.Context) {
	category, entries, err := h.app.dispatcher.Leaderboard(c.Query("category"))
	if err != nil {
		BadRequest(c, err)
		return
	}
	if entries == nil {
		entries = []game.RankEntry{}
	}
	OK(c, LeaderboardResponse{Category: category, Entries: entries})
}
