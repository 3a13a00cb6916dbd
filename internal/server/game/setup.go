package game

import (
	"fmt"

	"trichess/internal/trichess"
)

// PlaceSetupPiece 人类布子：按 SetupPieces 的顺序把下一个子放到 sq
func (g *GameState) PlaceSetupPiece(side trichess.Player, sq int) (trichess.PieceType, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Phase != PhaseSetup {
		return trichess.PieceNone, ErrWrongPhase
	}
	if err := g.checkSeat(side); err != nil {
		return trichess.PieceNone, err
	}
	if g.Kinds[side].IsAI() {
		return trichess.PieceNone, ErrNotHuman
	}
	next := g.setupNext[side]
	if next >= len(trichess.SetupPieces) {
		return trichess.PieceNone, ErrSetupDone
	}
	pt := trichess.SetupPieces[next]
	if err := g.Pos.PlaceSetupPiece(side, pt, sq); err != nil {
		return trichess.PieceNone, fmt.Errorf("place %v: %w", pt, err)
	}
	g.setupNext[side]++
	g.maybeStartPlayLocked()
	g.touch()
	return pt, nil
}

// AutoSetup 把 side 剩下的子随机放好
func (g *GameState) AutoSetup(side trichess.Player) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Phase != PhaseSetup {
		return ErrWrongPhase
	}
	if err := g.checkSeat(side); err != nil {
		return err
	}
	if err := g.autoSetupLocked(side); err != nil {
		return err
	}
	g.maybeStartPlayLocked()
	g.touch()
	return nil
}

func (g *GameState) autoSetupLocked(side trichess.Player) error {
	remaining := trichess.SetupPieces[g.setupNext[side]:]
	if len(remaining) == 0 {
		return nil
	}
	pos, err := trichess.RandomSetup(g.Pos, side, remaining, g.rng)
	if err != nil {
		return err
	}
	g.Pos = pos
	g.setupNext[side] = len(trichess.SetupPieces)
	return nil
}

// 三方都布完子就开始行棋，白方先走
func (g *GameState) maybeStartPlayLocked() {
	for _, p := range trichess.TurnOrder {
		if g.setupNext[p] < len(trichess.SetupPieces) {
			return
		}
	}
	g.Phase = PhasePlay
	g.Pos.SetToMove(trichess.White)
	g.History = append(g.History[:0], g.Pos.Hash)
}

func (g *GameState) checkSeat(side trichess.Player) error {
	switch side {
	case trichess.White, trichess.Black, trichess.Gray:
		return nil
	}
	return fmt.Errorf("%w: %d", ErrBadPlayer, side)
}
