package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"trichess/internal/engine"
	"trichess/internal/trichess"
)

type Config struct {
	Seed int64             // 0 表示用当前时间
	Host engine.HostConfig // 每局一个搜索 host，共用这份配置
}

type Manager struct {
	mu    sync.RWMutex
	games map[string]*GameState
	rng   *rand.Rand // 只在持有 mu 写锁时使用
	host  engine.HostConfig
}

func NewManager() *Manager {
	return NewManagerWithConfig(Config{})
}

func NewManagerWithConfig(cfg Config) *Manager {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Manager{
		games: make(map[string]*GameState),
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		host:  cfg.Host,
	}
}

// NewGame 开一局：AI 座位立即随机布子，人类座位等待布子。
// 三方都是 AI 时直接进入行棋阶段。
func (m *Manager) NewGame(kinds [trichess.NumPlayers]PlayerKind) (*GameState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	g := &GameState{
		ID:        uuid.NewString(),
		Pos:       trichess.NewInitialPosition(),
		Kinds:     kinds,
		Phase:     PhaseSetup,
		Winner:    trichess.NoPlayer,
		LastMove:  trichess.NullMove,
		rng:       rand.New(rand.NewSource(m.rng.Int63())),
		host:      engine.NewHost(m.host),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, p := range trichess.TurnOrder {
		if !kinds[p].IsAI() {
			continue
		}
		if err := g.autoSetupLocked(p); err != nil {
			return nil, err
		}
	}
	g.maybeStartPlayLocked()

	m.games[g.ID] = g
	return g, nil
}

// NewGameFromPosition 从给定局面直接开始行棋（调试、残局练习）
func (m *Manager) NewGameFromPosition(pos *trichess.Position, kinds [trichess.NumPlayers]PlayerKind) *GameState {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	g := &GameState{
		ID:        uuid.NewString(),
		Pos:       pos.Clone(),
		Kinds:     kinds,
		Phase:     PhasePlay,
		Winner:    trichess.NoPlayer,
		LastMove:  trichess.NullMove,
		rng:       rand.New(rand.NewSource(m.rng.Int63())),
		host:      engine.NewHost(m.host),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, p := range trichess.TurnOrder {
		g.setupNext[p] = len(trichess.SetupPieces)
	}
	g.Pos.EnsureHash()
	g.History = append(g.History, g.Pos.Hash)
	if w, ok := g.Pos.Winner(); ok || g.Pos.GameOver() {
		g.Winner = w
		g.Phase = PhaseOver
	}
	m.games[g.ID] = g
	return g
}

func (m *Manager) Get(id string) (*GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return ErrGameNotFound
	}
	g.host.Cancel()
	delete(m.games, id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
