package engine

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"trichess/internal/trichess"
)

func sq(row, col int) int { return trichess.Square(row, col) }

// 白方一步车到 (9,5) 就能闷杀角上的黑王；灰方已出局
func mateInOnePosition() *trichess.Position {
	pos := trichess.NewEmptyPosition()
	pos.Put(sq(9, 1), trichess.MakePiece(trichess.White, trichess.PieceKing))
	pos.Put(sq(7, 5), trichess.MakePiece(trichess.White, trichess.PieceRook))
	pos.Put(sq(8, 12), trichess.MakePiece(trichess.White, trichess.PieceRook))
	pos.Put(sq(9, 19), trichess.MakePiece(trichess.Black, trichess.PieceKing))
	pos.Out = trichess.SetOf(trichess.Gray)
	return pos
}

func containsMove(moves []trichess.Move, mv trichess.Move) bool {
	for _, m := range moves {
		if m.Same(mv) {
			return true
		}
	}
	return false
}

func TestSearchFindsMateInOne(t *testing.T) {
	pos := mateInOnePosition()
	res, err := ChooseMove(context.Background(), Request{
		Position:     pos,
		Perspective:  trichess.White,
		SearchConfig: SearchConfig{MaxDepth: 3, TimeLimit: 5 * time.Second},
	})
	if err != nil {
		t.Fatalf("ChooseMove: %v", err)
	}
	if !res.Mate {
		t.Fatalf("expected a forced mate, got %+v", res)
	}
	next, ok := pos.ApplyMove(res.BestMove)
	if !ok {
		t.Fatalf("best move %+v not applicable", res.BestMove)
	}
	if !next.IsCheckmate(trichess.Black) {
		t.Fatalf("move %+v does not mate black", res.BestMove)
	}
}

// 不经过连将搜索，alpha-beta 本身也要给出将死分
func TestSearchRootScoresMate(t *testing.T) {
	e := NewEngine()
	e.prepare(context.Background(), Request{
		Position:    mateInOnePosition(),
		Perspective: trichess.White,
	}, time.Now())

	moves := e.pos.AllLegalMoves(trichess.White)
	e.orderRoot(moves, trichess.NullMove)
	score, mv, ok := e.searchRoot(moves, 1, turn{toMove: trichess.White})
	if !ok {
		t.Fatalf("search stopped without a deadline")
	}
	if score < mateScore-maxPly {
		t.Fatalf("score = %d, want a mate score", score)
	}
	next, _ := mateInOnePosition().ApplyMove(mv)
	if !next.IsCheckmate(trichess.Black) {
		t.Fatalf("root best %+v is not mate", mv)
	}
}

func TestSearchResignsWithoutMoves(t *testing.T) {
	cases := []struct {
		name string
		pos  func() *trichess.Position
	}{
		{"checkmated", func() *trichess.Position {
			pos := mateInOnePosition()
			pos.Put(sq(7, 5), 0)
			pos.Put(sq(9, 5), trichess.MakePiece(trichess.White, trichess.PieceRook))
			return pos
		}},
		{"stalemated", func() *trichess.Position {
			pos := trichess.NewEmptyPosition()
			pos.Put(sq(9, 1), trichess.MakePiece(trichess.White, trichess.PieceKing))
			pos.Put(sq(8, 12), trichess.MakePiece(trichess.White, trichess.PieceRook))
			pos.Put(sq(7, 17), trichess.MakePiece(trichess.White, trichess.PieceKnight))
			pos.Put(sq(9, 19), trichess.MakePiece(trichess.Black, trichess.PieceKing))
			pos.Out = trichess.SetOf(trichess.Gray)
			return pos
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ChooseMove(context.Background(), Request{
				Position:    tc.pos(),
				Perspective: trichess.Black,
			})
			if err != nil {
				t.Fatalf("ChooseMove: %v", err)
			}
			if !res.Resign || !res.BestMove.IsNull() {
				t.Fatalf("expected resignation, got %+v", res)
			}
		})
	}
}

func TestSearchReturnsLegalMove(t *testing.T) {
	for seed := int64(1); seed <= 3; seed++ {
		pos, err := trichess.NewStandardPosition(rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatal(err)
		}
		for _, side := range trichess.TurnOrder {
			pos.SetToMove(side)
			res, err := ChooseMove(context.Background(), Request{
				Position:     pos,
				Perspective:  side,
				SearchConfig: SearchConfig{MaxDepth: 2, TimeLimit: 3 * time.Second},
			})
			if err != nil {
				t.Fatalf("seed %d %v: %v", seed, side, err)
			}
			if res.Resign {
				t.Fatalf("seed %d %v: resigned at the start", seed, side)
			}
			if !containsMove(pos.AllLegalMoves(side), res.BestMove) {
				t.Fatalf("seed %d %v: %+v is not legal", seed, side, res.BestMove)
			}
		}
	}
}

func TestSearchDeadlineStillAnswers(t *testing.T) {
	pos, err := trichess.NewStandardPosition(rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := ChooseMove(ctx, Request{
		Position:     pos,
		Perspective:  trichess.White,
		SearchConfig: SearchConfig{MaxDepth: 6, TimeLimit: time.Nanosecond},
	})
	if err != nil {
		t.Fatalf("ChooseMove: %v", err)
	}
	if !containsMove(pos.AllLegalMoves(trichess.White), res.BestMove) {
		t.Fatalf("fallback move %+v is not legal", res.BestMove)
	}
}

func TestSearchRequestErrors(t *testing.T) {
	if _, err := ChooseMove(context.Background(), Request{}); !errors.Is(err, ErrNoPosition) {
		t.Errorf("nil position: err = %v", err)
	}
	pos := mateInOnePosition()
	_, err := ChooseMove(context.Background(), Request{Position: pos, Perspective: trichess.Gray})
	if !errors.Is(err, ErrBadPerspective) {
		t.Errorf("eliminated perspective: err = %v", err)
	}
	pos.Out = pos.Out.Add(trichess.Black)
	_, err = ChooseMove(context.Background(), Request{Position: pos, Perspective: trichess.White})
	if !errors.Is(err, ErrTooFewPlayers) {
		t.Errorf("lone player: err = %v", err)
	}
}

// 已经出现过的局面按和棋处理
func TestRepetitionScoresNeutral(t *testing.T) {
	pos := trichess.NewEmptyPosition()
	pos.Put(sq(9, 1), trichess.MakePiece(trichess.White, trichess.PieceKing))
	pos.Put(sq(7, 5), trichess.MakePiece(trichess.White, trichess.PieceQueen))
	pos.Put(sq(9, 18), trichess.MakePiece(trichess.Black, trichess.PieceKing))
	pos.Put(sq(4, 12), trichess.MakePiece(trichess.Gray, trichess.PieceKing))

	req := Request{Position: pos, Perspective: trichess.White, Active: trichess.AllPlayers}

	e := NewEngine()
	e.prepare(context.Background(), req, time.Now())
	fresh := e.alphaBeta(2, 1, -scoreInf, scoreInf, turn{toMove: trichess.White})
	if fresh <= 0 {
		t.Fatalf("queen up should score positive, got %d", fresh)
	}

	req.History = []uint64{e.pos.Hash}
	e = NewEngine()
	e.prepare(context.Background(), req, time.Now())
	if got := e.alphaBeta(2, 1, -scoreInf, scoreInf, turn{toMove: trichess.White}); got != 0 {
		t.Fatalf("repeated position scored %d, want 0", got)
	}
}

func TestSearchLeavesRequestUntouched(t *testing.T) {
	pos, err := trichess.NewStandardPosition(rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatal(err)
	}
	before := pos.Encode()
	hash := pos.Hash
	if _, err := ChooseMove(context.Background(), Request{
		Position:     pos,
		Perspective:  trichess.White,
		SearchConfig: SearchConfig{MaxDepth: 2},
	}); err != nil {
		t.Fatal(err)
	}
	if pos.Encode() != before || pos.Hash != hash {
		t.Fatalf("search modified the caller's position")
	}
}

// 返回给调用方的着法不带排序分
func TestSearchResultMovesCarryNoScore(t *testing.T) {
	opening, err := trichess.NewStandardPosition(rand.New(rand.NewSource(4)))
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name string
		req  Request
	}{
		{"forced mate", Request{
			Position:     mateInOnePosition(),
			Perspective:  trichess.White,
			SearchConfig: SearchConfig{MaxDepth: 3},
		}},
		{"alpha-beta", Request{
			Position:     opening,
			Perspective:  trichess.White,
			SearchConfig: SearchConfig{MaxDepth: 2},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ChooseMove(context.Background(), tc.req)
			if err != nil {
				t.Fatalf("ChooseMove: %v", err)
			}
			if res.BestMove.Score != 0 {
				t.Errorf("best move score = %d, want 0", res.BestMove.Score)
			}
			if len(res.PV) == 0 {
				t.Fatalf("empty PV")
			}
			if diff := cmp.Diff(res.BestMove, res.PV[0]); diff != "" {
				t.Errorf("PV head differs from best move (-best +pv):\n%s", diff)
			}
			for i, m := range res.PV {
				if m.Score != 0 {
					t.Errorf("PV[%d] score = %d, want 0", i, m.Score)
				}
			}
		})
	}
}
