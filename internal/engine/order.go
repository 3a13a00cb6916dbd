package engine

import (
	"sort"

	"trichess/internal/trichess"
)

// 排序优先级（从高到低）
const (
	orderPromotion = 1 << 24
	orderCapture   = 1 << 23
	orderHash      = 1 << 22
	orderKiller    = 1 << 21
)

// scoreMoves 给 moves 打排序分，写进 Move.Score
func (e *Engine) scoreMoves(ply int, moves []trichess.Move, hashMove trichess.Move) {
	board := &e.pos.Board
	for i := range moves {
		mv := &moves[i]
		pc := board.Squares[mv.From]
		target := board.Squares[mv.To]

		switch {
		case mv.Promotion != trichess.PieceNone:
			mv.Score = orderPromotion + pieceValue[mv.Promotion] + pieceValue[target.Type()]
		case !target.IsEmpty():
			// MVV-LVA
			mv.Score = orderCapture + pieceValue[target.Type()]*16 - pieceValue[pc.Type()]/16
		case mv.Same(hashMove):
			mv.Score = orderHash
		case ply <= maxPly && (mv.Same(e.killers[ply][0]) || mv.Same(e.killers[ply][1])):
			mv.Score = orderKiller
		default:
			mv.Score = int(e.history[mv.From][mv.To])
			if pc.Is(trichess.PiecePawn) {
				mv.Score += pawnAdvanceBonus(pc.Owner(), mv.To)
			}
		}
		// 吃子里也让哈希着法靠前
		if mv.Same(hashMove) && mv.Score < orderHash {
			mv.Score = orderHash
		}
	}
}

// pickMove 选择排序：把 moves[i:] 里分最高的换到 i
func pickMove(moves []trichess.Move, i int) {
	best := i
	for j := i + 1; j < len(moves); j++ {
		if moves[j].Score > moves[best].Score {
			best = j
		}
	}
	if best != i {
		moves[i], moves[best] = moves[best], moves[i]
	}
}

// 非吃子着法造成剪枝：记杀手、加历史分
func (e *Engine) recordCutoff(ply, depth int, mv trichess.Move) {
	if !e.pos.Board.Squares[mv.To].IsEmpty() || mv.Promotion != trichess.PieceNone {
		return
	}
	if ply <= maxPly && !mv.Same(e.killers[ply][0]) {
		e.killers[ply][1] = e.killers[ply][0]
		e.killers[ply][0] = mv
	}
	h := &e.history[mv.From][mv.To]
	*h += int32(depth * depth)
	if *h > 1<<20 {
		for i := range e.history {
			for j := range e.history[i] {
				e.history[i][j] /= 2
			}
		}
	}
}

// orderRoot 根节点整体排一次序；两人残局里大幅领先时，让王靠近对方王的走法靠前
func (e *Engine) orderRoot(moves []trichess.Move, hashMove trichess.Move) {
	e.scoreMoves(0, moves, hashMove)

	if e.active.Len() == 2 && IsEndgame(e.pos, e.active) &&
		MaterialBalance(e.pos, e.perspective, e.active) >= mateProbeMargin {
		opp := e.active.Remove(e.perspective).Players()[0]
		target := e.pos.KingSquare(opp)
		if target >= 0 {
			for i := range moves {
				mv := &moves[i]
				if !e.pos.Board.Squares[mv.From].Is(trichess.PieceKing) {
					continue
				}
				before := squareDistance(mv.From, target)
				after := squareDistance(mv.To, target)
				if after < before {
					mv.Score += (before - after) * 64
				}
			}
		}
	}

	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Score > moves[j].Score
	})
}

// 切比雪夫距离
func squareDistance(a, b int) int {
	dr := abs(trichess.RowOf(a) - trichess.RowOf(b))
	dc := abs(trichess.ColOf(a) - trichess.ColOf(b))
	return max(dr, dc)
}
