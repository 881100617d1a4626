package main

import (
	"github.com/Digital-Creators-Team/stakes-engine/game"
)

var cueBanners = map[game.Cue]string{
	game.CueCraftSuccess: "** CRAFTED **",
	game.CueCraftFailure: "** CRAFT FAILED **",
	game.CueWagerWin:     "$$ WIN $$",
	game.CueWagerLoss:    "-- LOSS --",
	game.CueLevelUp:      "^^ LEVEL UP ^^",
	game.CueMint:         "** MINTED **",
}

// render formats a result for the terminal. Effects come from the outcome and
// cue only; the message text is printed as is.
func render(r game.Result) string {
	msg := r.Message
	if r.Outcome == game.OutcomeError {
		return "! " + msg
	}
	if banner, ok := cueBanners[r.Cue]; ok {
		return banner + "\n" + msg
	}
	return msg
}
