package trichess

import "testing"

// 黑王缩在 (9,19) 角上：邻格只有 (9,18) 和 (8,18)
func cornerMatePosition() *Position {
	pos := NewEmptyPosition()
	pos.Put(sq(9, 1), MakePiece(White, PieceKing))
	pos.Put(sq(9, 5), MakePiece(White, PieceRook))
	pos.Put(sq(8, 12), MakePiece(White, PieceRook))
	pos.Put(sq(9, 19), MakePiece(Black, PieceKing))
	pos.Out = SetOf(Gray)
	pos.SetToMove(Black)
	return pos
}

func cornerStalematePosition() *Position {
	pos := NewEmptyPosition()
	pos.Put(sq(9, 1), MakePiece(White, PieceKing))
	pos.Put(sq(8, 12), MakePiece(White, PieceRook))
	pos.Put(sq(7, 17), MakePiece(White, PieceKnight))
	pos.Put(sq(9, 19), MakePiece(Black, PieceKing))
	pos.Out = SetOf(Gray)
	pos.SetToMove(Black)
	return pos
}

func TestCheckmateAndStalemate(t *testing.T) {
	t.Run("checkmate", func(t *testing.T) {
		pos := cornerMatePosition()
		if !pos.IsInCheck(Black) {
			t.Fatalf("black should be in check")
		}
		if !pos.IsCheckmate(Black) {
			t.Fatalf("black should be checkmated")
		}
		if pos.IsStalemate(Black) {
			t.Fatalf("checkmate is not stalemate")
		}
		if len(pos.AllLegalMoves(Black)) != 0 {
			t.Fatalf("mated side has legal moves")
		}
	})

	t.Run("stalemate", func(t *testing.T) {
		pos := cornerStalematePosition()
		if pos.IsInCheck(Black) {
			t.Fatalf("black must not be in check")
		}
		if !pos.IsStalemate(Black) {
			t.Fatalf("black should be stalemated")
		}
		if pos.IsCheckmate(Black) {
			t.Fatalf("stalemate is not checkmate")
		}
	})

	t.Run("escape available", func(t *testing.T) {
		pos := cornerMatePosition()
		pos.Remove(sq(8, 12))
		if pos.IsCheckmate(Black) || pos.IsStalemate(Black) {
			t.Fatalf("king can escape to (8,18)")
		}
	})
}

func TestBishopChecksOnlyDiagonally(t *testing.T) {
	pos := NewEmptyPosition()
	pos.Put(sq(4, 8), MakePiece(White, PieceBishop))
	pos.Put(sq(4, 9), MakePiece(Black, PieceKing))
	if pos.IsInCheck(Black) {
		t.Fatalf("orthogonal switch step is not an attack")
	}
	pos.Remove(sq(4, 9))
	pos.Put(sq(3, 9), MakePiece(Black, PieceKing))
	if !pos.IsInCheck(Black) {
		t.Fatalf("diagonal neighbour should be checked")
	}
}

func TestIsAttackedMatchesRawMoves(t *testing.T) {
	pos := cornerStalematePosition()
	pos.Put(sq(4, 8), MakePiece(Gray, PiecePawn))
	pos.Put(sq(3, 10), MakePiece(Gray, PieceQueen))
	pos.Put(sq(2, 9), MakePiece(Gray, PieceKing))

	for target := 0; target < NumSquares; target++ {
		if !IsPlayable(target) {
			continue
		}
		victim := pos.At(target)
		if victim.IsEmpty() {
			continue
		}
		by := AllPlayers.Remove(victim.Owner())
		want := false
		for from := 0; from < NumSquares; from++ {
			pc := pos.At(from)
			if pc.IsEmpty() || !by.Has(pc.Owner()) {
				continue
			}
			for _, mv := range pos.RawMoves(from, false) {
				if mv.To != target {
					continue
				}
				// 象的横竖换线步不算攻击
				if pc.Is(PieceBishop) && isSwitchStep(from, target) {
					continue
				}
				want = true
			}
		}
		if got := pos.IsAttacked(target, by); got != want {
			t.Errorf("IsAttacked(%d) = %v, raw moves say %v", target, got, want)
		}
	}
}

func TestStalemateWinner(t *testing.T) {
	// 灰王 (0,9) 的邻格：(0,10) (1,8) (1,9) (1,10)
	pos := NewEmptyPosition()
	pos.Put(sq(0, 9), MakePiece(Gray, PieceKing))
	pos.Put(sq(2, 8), MakePiece(White, PieceKnight)) // 控制 (1,10)
	pos.Put(sq(3, 11), MakePiece(Black, PieceKnight)) // 控制 (1,10)

	t.Run("tie", func(t *testing.T) {
		if w, ok := pos.StalemateWinner(Gray, []Player{White, Black}); ok {
			t.Fatalf("equal control must have no winner, got %s", w)
		}
	})

	t.Run("strict max", func(t *testing.T) {
		np := pos.Clone()
		np.Remove(sq(3, 11))
		np.Put(sq(9, 5), MakePiece(Black, PieceKnight))
		w, ok := np.StalemateWinner(Gray, []Player{White, Black})
		if !ok || w != White {
			t.Fatalf("winner = %s,%v want white", w, ok)
		}
	})

	t.Run("no king", func(t *testing.T) {
		if _, ok := NewEmptyPosition().StalemateWinner(Gray, []Player{White, Black}); ok {
			t.Fatalf("no king, no winner")
		}
	})
}

func TestLastPlayerStanding(t *testing.T) {
	pos := cornerMatePosition()
	if !pos.IsCheckmate(Black) {
		t.Fatalf("setup: black should be mated")
	}
	pos.Out = pos.Out.Add(Black)
	w, ok := pos.Winner()
	if !ok || w != White {
		t.Fatalf("winner = %s,%v want white", w, ok)
	}
	if !pos.GameOver() {
		t.Fatalf("game should be over")
	}
}
