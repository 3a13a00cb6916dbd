package trichess

import (
	"math/rand"
	"testing"
)

func hasMoveTo(moves []Move, to int) bool {
	for _, mv := range moves {
		if mv.To == to {
			return true
		}
	}
	return false
}

func TestPawnDoubleStepFromStart(t *testing.T) {
	pos := NewInitialPosition()

	white := pos.RawMoves(sq(6, 3), false)
	if !hasMoveTo(white, sq(6, 4)) || !hasMoveTo(white, sq(6, 5)) {
		t.Fatalf("white pawn should step one or two forward, got %+v", white)
	}

	// 灰兵 (2,7)：左边和后面都不在菱形里，右边有自己的兵
	gray := pos.RawMoves(sq(2, 7), false)
	if len(gray) != 2 || !hasMoveTo(gray, sq(3, 7)) || !hasMoveTo(gray, sq(4, 7)) {
		t.Fatalf("gray edge pawn moves: %+v", gray)
	}

	pos.Put(sq(2, 7), MakePiece(Gray, PiecePawn).WithMoved())
	if moved := pos.RawMoves(sq(2, 7), false); hasMoveTo(moved, sq(4, 7)) {
		t.Fatalf("moved pawn must not double step: %+v", moved)
	}
}

func TestPawnBackwardOnlyWhenNotInCheck(t *testing.T) {
	pos := NewEmptyPosition()
	pos.Put(sq(9, 1), MakePiece(White, PieceKing))
	pos.Put(sq(4, 8), MakePiece(White, PiecePawn).WithMoved())
	pos.Put(sq(9, 10), MakePiece(Black, PieceRook))

	if !pos.IsInCheck(White) {
		t.Fatalf("white king should be checked along row 9")
	}
	back := sq(4, 7)
	if hasMoveTo(pos.RawMoves(sq(4, 8), true), back) {
		t.Fatalf("backward step generated while king in check")
	}
	if !hasMoveTo(pos.RawMoves(sq(4, 8), false), back) {
		t.Fatalf("backward step missing while king safe")
	}

	// 挡住将军后，LegalMoves 会按“未被将”生成后退
	pos.Put(sq(9, 5), MakePiece(White, PieceRook))
	if pos.IsInCheck(White) {
		t.Fatalf("check should be blocked")
	}
	if !hasMoveTo(pos.LegalMoves(sq(4, 8)), back) {
		t.Fatalf("legal moves should include backward step")
	}
}

func TestPawnCapturesDiagonallyOnly(t *testing.T) {
	pos := NewEmptyPosition()
	pos.Put(sq(4, 8), MakePiece(White, PiecePawn).WithMoved())
	pos.Put(sq(4, 9), MakePiece(Black, PieceKnight)) // 正前方：挡住，不能吃
	pos.Put(sq(3, 7), MakePiece(Gray, PieceRook))    // 斜后方：可以吃

	moves := pos.RawMoves(sq(4, 8), false)
	if hasMoveTo(moves, sq(4, 9)) {
		t.Fatalf("pawn must not capture straight ahead")
	}
	if !hasMoveTo(moves, sq(3, 7)) {
		t.Fatalf("pawn should capture on any diagonal: %+v", moves)
	}
}

func TestPawnPromotionDefaultsToQueen(t *testing.T) {
	pos := NewEmptyPosition()
	pos.Put(sq(9, 1), MakePiece(White, PieceKing))
	pos.Put(sq(5, 12), MakePiece(White, PiecePawn).WithMoved())

	var promo Move
	for _, mv := range pos.LegalMoves(sq(5, 12)) {
		if mv.To == sq(5, 11) {
			promo = mv
		}
	}
	// (0,-1) 是白兵的后退方向，(5,11) 是白方升变格
	if promo.IsNull() || promo.Promotion != PieceQueen {
		t.Fatalf("promotion move missing or not queen: %+v", promo)
	}
	u := pos.MakeMove(promo)
	if pc := pos.At(sq(5, 11)); !pc.Is(PieceQueen) || pc.Owner() != White || !pc.Moved() {
		t.Fatalf("promoted piece = %v owner %s", pc.Type(), pc.Owner())
	}
	pos.UnmakeMove(promo, u)
	if !pos.At(sq(5, 12)).Is(PiecePawn) {
		t.Fatalf("unmake did not restore the pawn")
	}

	promo.Promotion = PieceKnight
	pos.MakeMove(promo)
	if !pos.At(sq(5, 11)).Is(PieceKnight) {
		t.Fatalf("under-promotion ignored")
	}
}

func TestBishopSwitchCooldown(t *testing.T) {
	pos := NewEmptyPosition()
	pos.Put(sq(9, 1), MakePiece(White, PieceKing))
	pos.Put(sq(4, 8), MakePiece(White, PieceBishop))

	moves := pos.RawMoves(sq(4, 8), false)
	for _, to := range []int{sq(4, 9), sq(4, 7), sq(3, 8), sq(5, 8)} {
		if !hasMoveTo(moves, to) {
			t.Fatalf("fresh bishop should have orthogonal step to %d", to)
		}
	}

	step := Move{From: sq(4, 8), To: sq(4, 9)}
	pos.MakeMove(step)
	if !pos.At(sq(4, 9)).Switched() {
		t.Fatalf("orthogonal step must set the switch flag")
	}
	after := pos.RawMoves(sq(4, 9), false)
	for _, mv := range after {
		if isSwitchStep(mv.From, mv.To) && abs(rowOf(mv.From)-rowOf(mv.To))+abs(colOf(mv.From)-colOf(mv.To)) == 1 {
			t.Fatalf("bishop switched twice in a row: %+v", mv)
		}
	}

	diag := Move{From: sq(4, 9), To: sq(3, 10)}
	if !hasMoveTo(after, diag.To) {
		t.Fatalf("diagonal move missing")
	}
	pos.MakeMove(diag)
	if pos.At(sq(3, 10)).Switched() {
		t.Fatalf("diagonal move must clear the switch flag")
	}
	if !hasMoveTo(pos.RawMoves(sq(3, 10), false), sq(3, 11)) {
		t.Fatalf("switch step should be available again")
	}
}

func TestFortressBlocksRays(t *testing.T) {
	pos := NewEmptyPosition()
	pos.Put(sq(5, 5), MakePiece(White, PieceRook))
	moves := pos.RawMoves(sq(5, 5), false)
	if !hasMoveTo(moves, sq(5, 8)) {
		t.Fatalf("rook should reach the fortress edge")
	}
	if hasMoveTo(moves, sq(5, 11)) || hasMoveTo(moves, sq(5, 9)) {
		t.Fatalf("rook ray passed through the fortress: %+v", moves)
	}
}

func TestKingCaptureIsNotLegal(t *testing.T) {
	pos := NewEmptyPosition()
	pos.Put(sq(9, 1), MakePiece(White, PieceKing))
	pos.Put(sq(9, 5), MakePiece(White, PieceRook))
	pos.Put(sq(9, 12), MakePiece(Black, PieceKing))

	if !hasMoveTo(pos.RawMoves(sq(9, 5), false), sq(9, 12)) {
		t.Fatalf("raw moves include the king square")
	}
	if hasMoveTo(pos.LegalMoves(sq(9, 5)), sq(9, 12)) {
		t.Fatalf("legal moves must not capture a king")
	}
}

// 随机对局：每一步合法着法都不能让自己被将；增量哈希、撤销都要精确。
func TestRandomPlayoutInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for game := 0; game < 4; game++ {
		pos, err := NewStandardPosition(rng)
		if err != nil {
			t.Fatalf("setup: %v", err)
		}
		duel := Duel{}
		for ply := 0; ply < 120 && !pos.GameOver(); ply++ {
			side := pos.ToMove
			moves := pos.AllLegalMoves(side)

			mated, stale := pos.IsCheckmate(side), pos.IsStalemate(side)
			if mated && stale {
				t.Fatalf("checkmate and stalemate at once")
			}
			if (mated || stale) != (len(moves) == 0) {
				t.Fatalf("terminal flags disagree with move list: mated=%v stale=%v moves=%d", mated, stale, len(moves))
			}
			if len(moves) == 0 {
				pos.Out = pos.Out.Add(side)
				pos.RemovePieces(side)
				next := CyclicNext(side, pos.ActiveSet())
				pos.SetToMove(next)
				duel = Duel{}
				continue
			}

			for _, mv := range moves {
				before := *pos
				u := pos.MakeMove(mv)
				if pos.IsInCheck(side) {
					t.Fatalf("legal move %+v leaves %s in check", mv, side)
				}
				if pos.Hash != pos.CalculateHash() {
					t.Fatalf("incremental hash drift after %+v", mv)
				}
				pos.UnmakeMove(mv, u)
				if *pos != before {
					t.Fatalf("unmake did not restore position after %+v", mv)
				}
			}

			mv := moves[rng.Intn(len(moves))]
			pos.MakeMove(mv)
			next, nd := pos.NextTurn(side, duel, false)
			pos.SetToMove(next)
			duel = nd
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
