package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"trichess/internal/envflag"
	"trichess/internal/server/game"
	"trichess/internal/trichess"
)

func main() {
	totalGames := flag.Int("games", 6, "number of games to play")
	parallel := flag.Int("parallel", runtime.NumCPU(), "games played at the same time")
	seats := flag.String("seats", "easy,medium,easy", "AI kinds for white,black,gray; rotated every game")
	aiTime := flag.Duration("ai-time", envflag.Millis("TRICHESS_TIME_MS", 500*time.Millisecond), "base thinking time per move")
	maxPlies := flag.Int("max-plies", 600, "plies before a game is scored as a draw")
	seed := flag.Int64("seed", 0, "random seed for setups (0 = time based)")
	flag.Parse()

	kinds, err := parseSeats(*seats)
	if err != nil {
		log.Fatalf("seats: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mgr := game.NewManagerWithConfig(game.Config{Seed: *seed})
	results := make([]gameResult, *totalGames)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(*parallel, 1))
	for i := range results {
		eg.Go(func() error {
			res, err := playGame(ctx, mgr, rotate(kinds, i), *maxPlies, *aiTime)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = res
			log.Printf("game %d: %s", i+1, res)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		log.Fatal(err)
	}

	var t tally
	for _, r := range results {
		t.add(r)
	}
	t.print(os.Stdout)
}

func parseSeats(s string) ([trichess.NumPlayers]game.PlayerKind, error) {
	var kinds [trichess.NumPlayers]game.PlayerKind
	parts := strings.Split(s, ",")
	if len(parts) != trichess.NumPlayers {
		return kinds, fmt.Errorf("want %d comma-separated kinds, got %q", trichess.NumPlayers, s)
	}
	for i, p := range parts {
		k, err := game.ParsePlayerKind(p)
		if err != nil {
			return kinds, err
		}
		if !k.IsAI() {
			return kinds, fmt.Errorf("seat %d is not an AI kind: %q", i, p)
		}
		kinds[i] = k
	}
	return kinds, nil
}

// 第 i 局把座位整体往后挪 i 位，各种 AI 轮流坐白、黑、灰
func rotate(kinds [trichess.NumPlayers]game.PlayerKind, i int) [trichess.NumPlayers]game.PlayerKind {
	var out [trichess.NumPlayers]game.PlayerKind
	for p := range kinds {
		out[(p+i)%trichess.NumPlayers] = kinds[p]
	}
	return out
}

func playGame(ctx context.Context, mgr *game.Manager, kinds [trichess.NumPlayers]game.PlayerKind, maxPlies int, aiTime time.Duration) (gameResult, error) {
	g, err := mgr.NewGame(kinds)
	if err != nil {
		return gameResult{}, err
	}
	defer mgr.Delete(g.ID)

	start := time.Now()
	res := gameResult{Kinds: kinds, Winner: trichess.NoPlayer}
	for res.Plies < maxPlies {
		s := g.Snapshot()
		if s.Phase == game.PhaseOver {
			res.Winner = s.Winner
			res.Scores = s.Scores
			break
		}
		sr, played, err := g.AIMove(ctx, aiTime)
		if err != nil {
			return res, err
		}
		res.Nodes += sr.Nodes
		if !played.IsNull() {
			res.Plies++
		}
	}
	if res.Winner == trichess.NoPlayer {
		res.Scores = g.Snapshot().Scores
	}
	res.Elapsed = time.Since(start)
	return res, nil
}
