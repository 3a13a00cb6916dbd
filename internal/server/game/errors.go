package game

import "errors"

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrIllegalMove   = errors.New("illegal move")
	ErrNotYourTurn   = errors.New("not this player's turn")
	ErrWrongPhase    = errors.New("action not allowed in this phase")
	ErrNotHuman      = errors.New("seat is played by the AI")
	ErrNotAI         = errors.New("seat is not played by the AI")
	ErrSetupDone     = errors.New("all pieces already placed")
	ErrStaleResult   = errors.New("search result is stale")
	ErrBadPlayer     = errors.New("player is not active")
	ErrBadPlayerKind = errors.New("unknown player kind")
)
