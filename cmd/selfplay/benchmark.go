package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"trichess/internal/server/game"
	"trichess/internal/trichess"
)

type gameResult struct {
	Kinds   [trichess.NumPlayers]game.PlayerKind
	Winner  trichess.Player // NoPlayer 表示步数用完算和
	Scores  [trichess.NumPlayers]int
	Plies   int
	Nodes   int64
	Elapsed time.Duration
}

func (r gameResult) String() string {
	who := "draw"
	if r.Winner != trichess.NoPlayer {
		who = fmt.Sprintf("%v (%v) wins", r.Winner, r.Kinds[r.Winner])
	}
	return fmt.Sprintf("%s after %d plies, scores %v, %d nodes in %v", who, r.Plies, r.Scores, r.Nodes, r.Elapsed.Round(time.Millisecond))
}

// tally 按座位颜色和 AI 档位分别统计胜局
type tally struct {
	games   int
	draws   int
	bySeat  [trichess.NumPlayers]int
	byKind  map[string]int
	plies   int
	nodes   int64
	elapsed time.Duration
}

func (t *tally) add(r gameResult) {
	if t.byKind == nil {
		t.byKind = make(map[string]int)
	}
	t.games++
	t.plies += r.Plies
	t.nodes += r.Nodes
	t.elapsed += r.Elapsed
	if r.Winner == trichess.NoPlayer {
		t.draws++
		return
	}
	t.bySeat[r.Winner]++
	t.byKind[r.Kinds[r.Winner].String()]++
}

func (t *tally) print(w io.Writer) {
	fmt.Fprintf(w, "\n=== %d games ===\n", t.games)
	for _, p := range trichess.TurnOrder {
		fmt.Fprintf(w, "%-6v wins: %d\n", p, t.bySeat[p])
	}
	kinds := make([]string, 0, len(t.byKind))
	for k := range t.byKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "%-6s wins: %d\n", k, t.byKind[k])
	}
	fmt.Fprintf(w, "draws: %d\n", t.draws)
	if t.games > 0 && t.elapsed > 0 {
		fmt.Fprintf(w, "avg plies %.1f, %d nodes/s\n",
			float64(t.plies)/float64(t.games), int64(float64(t.nodes)/t.elapsed.Seconds()))
	}
}
