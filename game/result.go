package game

import (
	"github.com/Digital-Creators-Team/stakes-engine/errors"
)

// Outcome tells the renderer how to present a result
type Outcome string

const (
	OutcomePlain Outcome = "plain"
	OutcomeWin   Outcome = "win"
	OutcomeLoss  Outcome = "loss"
	OutcomeEvent Outcome = "event"
	OutcomeError Outcome = "error"
)

// Cue names a side effect the renderer may play (sound, flash)
type Cue string

const (
	CueNone         Cue = ""
	CueCraftSuccess Cue = "craft_success"
	CueCraftFailure Cue = "craft_failure"
	CueWagerWin     Cue = "wager_win"
	CueWagerLoss    Cue = "wager_loss"
	CueLevelUp      Cue = "level_up"
	CueMint         Cue = "mint"
)

// Result is the single response produced by one command
type Result struct {
	Outcome Outcome `json:"outcome"`
	Cue     Cue     `json:"cue,omitempty"`
	Code    int     `json:"code,omitempty"`
	Message string  `json:"message"`
}

// Plain builds a result with no side effect
func Plain(message string) Result {
	return Result{Outcome: OutcomePlain, Message: message}
}

// Event builds a notable result with a cue
func Event(cue Cue, message string) Result {
	return Result{Outcome: OutcomeEvent, Cue: cue, Message: message}
}

// ErrorResult renders err for the player. Non-application errors get a generic message.
func ErrorResult(err error) Result {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		return Result{Outcome: OutcomeError, Code: appErr.Code, Message: appErr.Message}
	}
	return Result{
		Outcome: OutcomeError,
		Code:    errors.ErrInternalServerError,
		Message: "Something went wrong. Try again.",
	}
}

// Failed reports whether the result is an error
func (r Result) Failed() bool {
	return r.Outcome == OutcomeError
}
