package game

import (
	"fmt"

	"trichess/internal/trichess"
)

// 吃子得分
var capturePoints = [...]int{
	trichess.PiecePawn:   1,
	trichess.PieceRook:   5,
	trichess.PieceKnight: 3,
	trichess.PieceBishop: 3,
	trichess.PieceQueen:  9,
	trichess.PieceKing:   0,
}

// 将死或逼和一方得分
const eliminationPoints = 13

// Play side 走一步。mv 只看 From/To；走进升变区时 mv.Promotion
// 可以选后、车、象、马，其它值一律按后处理。返回实际走的着法。
func (g *GameState) Play(side trichess.Player, mv trichess.Move) (trichess.Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playLocked(side, mv)
}

func (g *GameState) playLocked(side trichess.Player, mv trichess.Move) (trichess.Move, error) {
	if g.Phase != PhasePlay {
		return trichess.NullMove, ErrWrongPhase
	}
	if side != g.Pos.ToMove {
		return trichess.NullMove, ErrNotYourTurn
	}
	legal, ok := g.findLegal(side, mv)
	if !ok {
		return trichess.NullMove, fmt.Errorf("%w: %d -> %d", ErrIllegalMove, mv.From, mv.To)
	}
	if legal.Promotion != trichess.PieceNone && mv.Promotion.CanPromoteTo() {
		legal.Promotion = mv.Promotion
	}
	legal.Score = 0

	if captured := g.Pos.At(legal.To); !captured.IsEmpty() {
		g.Scores[side] += capturePoints[captured.Type()]
		g.Captured[side] = append(g.Captured[side], captured.Type())
	}
	g.Pos.MakeMove(legal)
	g.LastMove = legal
	g.endTurnLocked(side)
	g.touch()
	return legal, nil
}

func (g *GameState) findLegal(side trichess.Player, mv trichess.Move) (trichess.Move, bool) {
	if !trichess.IsPlayable(mv.From) || g.Pos.At(mv.From).Owner() != side {
		return trichess.NullMove, false
	}
	for _, lm := range g.Pos.LegalMoves(mv.From) {
		if lm.To == mv.To {
			return lm, true
		}
	}
	return trichess.NullMove, false
}

// LegalMoves 当前行棋方的全部合法着法；不在行棋阶段时为空
func (g *GameState) LegalMoves() []trichess.Move {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != PhasePlay {
		return nil
	}
	return g.Pos.AllLegalMoves(g.Pos.ToMove)
}

// endTurnLocked 走完一步之后：处理所有被将死、被逼和的对手，
// 判断是否结束，再按回合规则决定下一个走的人。
func (g *GameState) endTurnLocked(mover trichess.Player) {
	g.Turn++

	before := g.Pos.ActiveSet()
	checkmated := false
	for _, o := range before.Players() {
		if o == mover || !g.Pos.IsActive(o) {
			continue
		}
		switch {
		case g.Pos.IsCheckmate(o):
			g.Scores[mover] += eliminationPoints
			checkmated = true
		case g.Pos.IsStalemate(o):
			if w, ok := g.Pos.StalemateWinner(o, before.Remove(o).Players()); ok {
				g.Scores[w] += eliminationPoints
			}
		default:
			continue
		}
		g.eliminateLocked(o)
	}

	if g.finishIfOverLocked() {
		return
	}
	next, duel := g.Pos.NextTurn(mover, g.Duel, checkmated)
	g.Duel = duel
	g.Pos.SetToMove(next)
	g.History = append(g.History, g.Pos.Hash)
}

// 出局：只要还剩不止一方就把它的子清掉
func (g *GameState) eliminateLocked(side trichess.Player) {
	g.Pos.Out = g.Pos.Out.Add(side)
	if g.Pos.ActiveSet().Len() > 1 {
		g.Pos.RemovePieces(side)
	}
}

func (g *GameState) finishIfOverLocked() bool {
	if !g.Pos.GameOver() {
		return false
	}
	if w, ok := g.Pos.Winner(); ok {
		g.Winner = w
	}
	g.Phase = PhaseOver
	g.Duel = trichess.Duel{}
	return true
}

// Resign side 认输出局
func (g *GameState) Resign(side trichess.Player) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.leaveCheck(side); err != nil {
		return err
	}
	g.resignLocked(side)
	g.touch()
	return nil
}

func (g *GameState) resignLocked(side trichess.Player) {
	g.leaveLocked(side, func() { g.eliminateLocked(side) })
}

// Withdraw side 离开对局：不再行棋，但留在棋盘上的子照样起作用
func (g *GameState) Withdraw(side trichess.Player) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.leaveCheck(side); err != nil {
		return err
	}
	g.leaveLocked(side, func() { g.Pos.Withdrawn = g.Pos.Withdrawn.Add(side) })
	g.touch()
	return nil
}

func (g *GameState) leaveCheck(side trichess.Player) error {
	if g.Phase != PhasePlay {
		return ErrWrongPhase
	}
	if err := g.checkSeat(side); err != nil {
		return err
	}
	if !g.Pos.IsActive(side) {
		return fmt.Errorf("%w: %v", ErrBadPlayer, side)
	}
	return nil
}

func (g *GameState) leaveLocked(side trichess.Player, remove func()) {
	wasToMove := g.Pos.ToMove == side
	remove()
	g.Turn++
	if g.finishIfOverLocked() {
		return
	}
	if wasToMove {
		g.Duel = trichess.Duel{}
		g.Pos.SetToMove(trichess.CyclicNext(side, g.Pos.ActiveSet()))
		g.History = append(g.History, g.Pos.Hash)
	}
}
