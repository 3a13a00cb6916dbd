package game

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"trichess/internal/engine"
	"trichess/internal/trichess"
)

// PlayerKind 座位上是人还是 AI
type PlayerKind int

const (
	Human PlayerKind = iota
	AIEasy
	AIMedium
)

func (k PlayerKind) IsAI() bool { return k == AIEasy || k == AIMedium }

// Depth AI 的搜索深度：简单 2 层，中等 3 层
func (k PlayerKind) Depth() int {
	switch k {
	case AIEasy:
		return 2
	case AIMedium:
		return 3
	}
	return 0
}

func (k PlayerKind) String() string {
	switch k {
	case AIEasy:
		return "easy"
	case AIMedium:
		return "medium"
	default:
		return "human"
	}
}

func ParsePlayerKind(s string) (PlayerKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "human":
		return Human, nil
	case "easy", "ai_easy":
		return AIEasy, nil
	case "medium", "ai_medium", "ai":
		return AIMedium, nil
	}
	return Human, fmt.Errorf("%w: %q", ErrBadPlayerKind, s)
}

type Phase int

const (
	PhaseSetup Phase = iota
	PhasePlay
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhasePlay:
		return "play"
	default:
		return "over"
	}
}

type GameState struct {
	mu sync.Mutex

	ID       string
	Pos      *trichess.Position
	Kinds    [trichess.NumPlayers]PlayerKind
	Phase    Phase
	Duel     trichess.Duel
	Scores   [trichess.NumPlayers]int
	Captured [trichess.NumPlayers][]trichess.PieceType // 各方吃掉的子
	Winner   trichess.Player
	LastMove trichess.Move

	// 每步走完、切换行棋方之后的局面哈希，给搜索判重复
	History []uint64
	// 每走一步加一，AI 回复用它判断是否过期
	Turn uint64

	setupNext [trichess.NumPlayers]int // 人类布子进行到 SetupPieces 的第几个
	rng       *rand.Rand
	host      *engine.Host

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot 对外的只读副本
type Snapshot struct {
	ID           string
	Pos          *trichess.Position
	Kinds        [trichess.NumPlayers]PlayerKind
	Phase        Phase
	Duel         trichess.Duel
	Scores       [trichess.NumPlayers]int
	Captured     [trichess.NumPlayers][]trichess.PieceType
	Winner       trichess.Player
	LastMove     trichess.Move
	Turn         uint64
	SetupPending [trichess.NumPlayers][]trichess.PieceType // 还没放的子
}

func (g *GameState) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *GameState) snapshotLocked() Snapshot {
	s := Snapshot{
		ID:       g.ID,
		Pos:      g.Pos.Clone(),
		Kinds:    g.Kinds,
		Phase:    g.Phase,
		Duel:     g.Duel,
		Scores:   g.Scores,
		Winner:   g.Winner,
		LastMove: g.LastMove,
		Turn:     g.Turn,
	}
	for i := range g.Captured {
		s.Captured[i] = append([]trichess.PieceType(nil), g.Captured[i]...)
	}
	if g.Phase == PhaseSetup {
		for _, p := range trichess.TurnOrder {
			s.SetupPending[p] = append([]trichess.PieceType(nil), trichess.SetupPieces[g.setupNext[p]:]...)
		}
	}
	return s
}

func (g *GameState) touch() {
	g.UpdatedAt = time.Now()
}
