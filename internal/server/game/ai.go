package game

import (
	"context"
	"log"
	"time"

	"trichess/internal/engine"
	"trichess/internal/trichess"
)

// AIMove 让当前行棋方（AI 座位）思考并走一步。
// 思考期间局面变了（有人认输、走了别的棋）回复就作废，返回 ErrStaleResult。
// 搜索无着法或出错都按认输处理。
func (g *GameState) AIMove(ctx context.Context, limit time.Duration) (engine.SearchResult, trichess.Move, error) {
	g.mu.Lock()
	if g.Phase != PhasePlay {
		g.mu.Unlock()
		return engine.SearchResult{}, trichess.NullMove, ErrWrongPhase
	}
	side := g.Pos.ToMove
	if !g.Kinds[side].IsAI() {
		g.mu.Unlock()
		return engine.SearchResult{}, trichess.NullMove, ErrNotAI
	}
	active := g.Pos.ActiveSet()
	req := engine.Request{
		Position:    g.Pos,
		Perspective: side,
		Active:      active,
		Duel:        g.Duel,
		History:     g.History,
		SearchConfig: engine.SearchConfig{
			MaxDepth:  engine.SearchDepth(g.Pos, side, active, g.Kinds[side].Depth()),
			TimeLimit: engine.Budget(g.Pos, side, active, limit),
		},
	}
	turn := g.Turn
	// Start 在锁内复制局面和历史
	gen, replies := g.host.Start(ctx, req)
	g.mu.Unlock()

	var reply engine.Reply
	select {
	case reply = <-replies:
	case <-ctx.Done():
		return engine.SearchResult{}, trichess.NullMove, ctx.Err()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Turn != turn || g.Phase != PhasePlay || !g.host.IsCurrent(gen) {
		return reply.Result, trichess.NullMove, ErrStaleResult
	}
	if reply.Resigns() {
		if reply.Err != nil {
			log.Printf("game %s: %v search failed, resigning: %v", g.ID, side, reply.Err)
		}
		g.resignLocked(side)
		g.touch()
		return reply.Result, trichess.NullMove, nil
	}
	played, err := g.playLocked(side, reply.Result.BestMove)
	if err != nil {
		return reply.Result, trichess.NullMove, err
	}
	return reply.Result, played, nil
}

// CancelAI 放弃正在进行的 AI 思考
func (g *GameState) CancelAI() {
	g.host.Cancel()
}
