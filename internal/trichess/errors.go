package trichess

import "errors"

var (
	ErrInvalidFEN     = errors.New("invalid position string")
	ErrNoSetupRoom    = errors.New("not enough free cells in home zone")
	ErrNotHomeZone    = errors.New("square is not in the player's home zone")
	ErrSquareOccupied = errors.New("square is occupied")
)
