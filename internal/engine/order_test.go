package engine

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"trichess/internal/trichess"
)

func preparedEngine(pos *trichess.Position, side trichess.Player, active trichess.PlayerSet) *Engine {
	e := NewEngine()
	e.prepare(context.Background(), Request{Position: pos, Perspective: side, Active: active}, time.Now())
	return e
}

func threeKings() *trichess.Position {
	pos := trichess.NewEmptyPosition()
	pos.Put(sq(9, 1), trichess.MakePiece(trichess.White, trichess.PieceKing))
	pos.Put(sq(9, 19), trichess.MakePiece(trichess.Black, trichess.PieceKing))
	pos.Put(sq(0, 9), trichess.MakePiece(trichess.Gray, trichess.PieceKing))
	return pos
}

func moveOf(fromRow, fromCol, toRow, toCol int) trichess.Move {
	return trichess.Move{From: sq(fromRow, fromCol), To: sq(toRow, toCol)}
}

func TestScoreMovesOrdering(t *testing.T) {
	pos := threeKings()
	pos.Put(sq(7, 4), trichess.MakePiece(trichess.White, trichess.PieceQueen))
	pos.Put(sq(7, 6), trichess.MakePiece(trichess.Black, trichess.PieceRook))
	pos.Put(sq(8, 4), trichess.MakePiece(trichess.Black, trichess.PieceKnight))
	pos.Put(sq(4, 11), trichess.MakePiece(trichess.White, trichess.PiecePawn))
	pos.Put(sq(5, 13), trichess.MakePiece(trichess.White, trichess.PiecePawn))
	pos.Put(sq(9, 8), trichess.MakePiece(trichess.White, trichess.PieceRook))

	promo := moveOf(4, 11, 5, 11)
	promo.Promotion = trichess.PieceQueen
	hash := moveOf(9, 8, 9, 9)
	killer := moveOf(9, 8, 9, 10)
	hist := moveOf(9, 8, 9, 12)
	pawn := moveOf(5, 13, 4, 12)

	e := preparedEngine(pos, trichess.White, trichess.AllPlayers)
	e.killers[2][0] = killer
	e.history[hist.From][hist.To] = 5000

	// 期望顺序
	named := []struct {
		name string
		move trichess.Move
	}{
		{"promotion", promo},
		{"capture rook", moveOf(7, 4, 7, 6)},
		{"capture knight", moveOf(7, 4, 8, 4)},
		{"hash", hash},
		{"killer", killer},
		{"history", hist},
		{"pawn advance", pawn},
		{"quiet", moveOf(9, 8, 9, 13)},
	}
	if pawnAdvanceBonus(trichess.White, pawn.To) <= 0 {
		t.Fatalf("pawn target %d has no advance bonus", pawn.To)
	}

	// 倒序输入，排完要回到期望顺序
	moves := make([]trichess.Move, 0, len(named))
	names := make(map[trichess.Move]string, len(named))
	var want []string
	for i := len(named) - 1; i >= 0; i-- {
		moves = append(moves, named[i].move)
		names[named[i].move] = named[i].name
	}
	for _, n := range named {
		want = append(want, n.name)
	}

	e.scoreMoves(2, moves, hash)
	sort.SliceStable(moves, func(i, j int) bool { return moves[i].Score > moves[j].Score })

	var got []string
	for _, m := range moves {
		s := m.Score
		m.Score = 0
		got = append(got, names[m])
		if m.Same(pawn) && s != pawnAdvanceBonus(trichess.White, pawn.To) {
			t.Errorf("pawn advance score = %d, want %d", s, pawnAdvanceBonus(trichess.White, pawn.To))
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("move order mismatch (-want +got):\n%s", diff)
	}
}

func TestScoreMovesHashCaptureKeepsCaptureScore(t *testing.T) {
	pos := threeKings()
	pos.Put(sq(7, 4), trichess.MakePiece(trichess.White, trichess.PieceQueen))
	pos.Put(sq(7, 6), trichess.MakePiece(trichess.Black, trichess.PieceRook))
	e := preparedEngine(pos, trichess.White, trichess.AllPlayers)

	capture := moveOf(7, 4, 7, 6)
	moves := []trichess.Move{capture}
	e.scoreMoves(0, moves, capture)
	if moves[0].Score <= orderCapture {
		t.Fatalf("hash capture score = %d, want above %d", moves[0].Score, orderCapture)
	}
}

func TestPickMove(t *testing.T) {
	moves := []trichess.Move{{From: 1, Score: 3}, {From: 2, Score: 9}, {From: 3, Score: 5}}
	for i := range moves {
		pickMove(moves, i)
	}
	var got []int
	for _, m := range moves {
		got = append(got, m.From)
	}
	if diff := cmp.Diff([]int{2, 3, 1}, got); diff != "" {
		t.Fatalf("pick order (-want +got):\n%s", diff)
	}
}

func TestRecordCutoff(t *testing.T) {
	pos := threeKings()
	pos.Put(sq(7, 4), trichess.MakePiece(trichess.White, trichess.PieceQueen))
	pos.Put(sq(7, 6), trichess.MakePiece(trichess.Black, trichess.PieceRook))
	pos.Put(sq(4, 11), trichess.MakePiece(trichess.White, trichess.PiecePawn))

	a := moveOf(7, 4, 6, 4)
	b := moveOf(7, 4, 7, 5)
	capture := moveOf(7, 4, 7, 6)
	promo := moveOf(4, 11, 5, 11)
	promo.Promotion = trichess.PieceQueen

	const ply, depth = 2, 3
	tests := []struct {
		name        string
		cutoffs     []trichess.Move
		wantKillers [2]trichess.Move
		wantHistA   int32
	}{
		{"quiet becomes killer", []trichess.Move{a}, [2]trichess.Move{a, {}}, depth * depth},
		{"second killer shifts", []trichess.Move{a, b}, [2]trichess.Move{b, a}, depth * depth},
		{"repeat keeps slots", []trichess.Move{a, b, b}, [2]trichess.Move{b, a}, depth * depth},
		{"history accumulates", []trichess.Move{a, a}, [2]trichess.Move{a, {}}, 2 * depth * depth},
		{"capture ignored", []trichess.Move{capture}, [2]trichess.Move{}, 0},
		{"promotion ignored", []trichess.Move{promo}, [2]trichess.Move{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := preparedEngine(pos, trichess.White, trichess.AllPlayers)
			for _, m := range tt.cutoffs {
				e.recordCutoff(ply, depth, m)
			}
			if diff := cmp.Diff(tt.wantKillers, e.killers[ply]); diff != "" {
				t.Errorf("killers (-want +got):\n%s", diff)
			}
			if got := e.history[a.From][a.To]; got != tt.wantHistA {
				t.Errorf("history = %d, want %d", got, tt.wantHistA)
			}
			if got := e.history[capture.From][capture.To]; got != 0 {
				t.Errorf("capture history = %d, want 0", got)
			}
		})
	}

	t.Run("history halves on overflow", func(t *testing.T) {
		e := preparedEngine(pos, trichess.White, trichess.AllPlayers)
		e.history[a.From][a.To] = 1 << 20
		e.history[b.From][b.To] = 100
		e.recordCutoff(ply, 1, a)
		if got := e.history[a.From][a.To]; got != (1<<20+1)/2 {
			t.Errorf("history = %d, want %d", got, (1<<20+1)/2)
		}
		if got := e.history[b.From][b.To]; got != 50 {
			t.Errorf("other history = %d, want 50", got)
		}
	})
}

func TestOrderRootKingApproach(t *testing.T) {
	two := trichess.SetOf(trichess.White, trichess.Black)

	// 王从 (9,1) 到 (9,2)，离 (9,19) 的黑王近一格
	toward := moveOf(9, 1, 9, 2)

	bigArmy := func() *trichess.Position {
		pos := threeKings()
		for _, c := range []int{3, 4, 5, 6} {
			pos.Put(sq(9, c), trichess.MakePiece(trichess.White, trichess.PieceQueen))
		}
		pos.Put(sq(9, 15), trichess.MakePiece(trichess.Black, trichess.PieceQueen))
		return pos
	}
	smallLead := func() *trichess.Position {
		pos := threeKings()
		pos.Put(sq(7, 5), trichess.MakePiece(trichess.White, trichess.PieceRook))
		pos.Put(sq(8, 15), trichess.MakePiece(trichess.Black, trichess.PieceKnight))
		return pos
	}

	tests := []struct {
		name   string
		pos    *trichess.Position
		active trichess.PlayerSet
		side   trichess.Player
		move   trichess.Move
		want   int
	}{
		{"winning endgame", mateInOnePosition(), two, trichess.White, toward, 64},
		{"three players", func() *trichess.Position {
			pos := mateInOnePosition()
			pos.Out = 0
			pos.Put(sq(0, 9), trichess.MakePiece(trichess.Gray, trichess.PieceKing))
			return pos
		}(), trichess.AllPlayers, trichess.White, toward, 0},
		{"lead below margin", smallLead(), two, trichess.White, toward, 0},
		{"not an endgame", bigArmy(), two, trichess.White, toward, 0},
		// 黑王 (9,19) -> (9,18) 也是靠近对方王，但黑方落后
		{"losing side", mateInOnePosition(), two, trichess.Black, moveOf(9, 19, 9, 18), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := preparedEngine(tt.pos, tt.side, tt.active)
			moves := []trichess.Move{tt.move}
			e.orderRoot(moves, trichess.NullMove)
			if moves[0].Score != tt.want {
				t.Fatalf("king move score = %d, want %d", moves[0].Score, tt.want)
			}
		})
	}
}
