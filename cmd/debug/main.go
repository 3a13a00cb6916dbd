package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"trichess/internal/engine"
	"trichess/internal/envflag"
	"trichess/internal/trichess"
)

// 打印一个局面的编码、各方着法数和将军情况，可选再让引擎想一步
func main() {
	fen := flag.String("position", "", "encoded position (empty = random standard setup)")
	depth := flag.Int("depth", envflag.Int("TRICHESS_DEPTH", 0), "search depth for the side to move (0 = don't search)")
	limit := flag.Duration("time", envflag.Millis("TRICHESS_TIME_MS", 2*time.Second), "search time limit")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed for the standard setup")
	flag.Parse()

	var pos *trichess.Position
	var err error
	if *fen != "" {
		pos, err = trichess.DecodePosition(*fen)
	} else {
		pos, err = trichess.NewStandardPosition(rand.New(rand.NewSource(*seed)))
	}
	if err != nil {
		log.Fatalf("position: %v", err)
	}

	fmt.Println("FEN:", pos.Encode())
	for _, p := range pos.ActivePlayers() {
		fmt.Printf("%-5v pieces %2d  legal %3d  check %v  mate %v  stalemate %v\n",
			p, pos.PieceCount(p), len(pos.AllLegalMoves(p)), pos.IsInCheck(p), pos.IsCheckmate(p), pos.IsStalemate(p))
	}
	if *depth <= 0 {
		return
	}

	side := pos.ToMove
	res, err := engine.ChooseMove(context.Background(), engine.Request{
		Position:    pos,
		Perspective: side,
		Active:      pos.ActiveSet(),
		SearchConfig: engine.SearchConfig{
			MaxDepth:  engine.SearchDepth(pos, side, pos.ActiveSet(), *depth),
			TimeLimit: engine.Budget(pos, side, pos.ActiveSet(), *limit),
		},
	})
	if err != nil {
		log.Fatalf("search: %v", err)
	}
	if res.Resign {
		fmt.Printf("%v has no move and resigns\n", side)
		return
	}
	fmt.Printf("%v best %d->%d score %d depth %d nodes %d time %v mate %v\n",
		side, res.BestMove.From, res.BestMove.To, res.Score, res.Depth, res.Nodes, res.TimeUsed, res.Mate)
	for i, m := range res.PV {
		fmt.Printf("  pv %d: %d->%d\n", i+1, m.From, m.To)
	}
}
