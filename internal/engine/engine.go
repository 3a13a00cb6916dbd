package engine

import (
	"context"
	"errors"
	"time"

	"trichess/internal/trichess"
)

const (
	maxPly    = 64 // 搜索路径最深层数（含静态搜索）
	maxQDepth = 6  // 静态搜索最多延伸几层

	// 每隔多少个节点看一次时间和 ctx
	stopCheckMask = 1023
)

var (
	ErrNoPosition     = errors.New("search request has no position")
	ErrBadPerspective = errors.New("perspective player is not active")
	ErrTooFewPlayers  = errors.New("fewer than two active players")
	ErrSearchPanic    = errors.New("search panicked")
)

// 搜索时的“轮次”：谁走 + 对决状态
type turn struct {
	toMove trichess.Player
	duel   trichess.Duel
}

// Engine 单次搜索独占，不做并发保护
type Engine struct {
	tt    map[uint64]ttEntry
	nodes int64

	killers [maxPly + 1][2]trichess.Move
	history [trichess.NumSquares][trichess.NumSquares]int32

	// 当前这次搜索的状态
	pos         *trichess.Position
	perspective trichess.Player
	active      trichess.PlayerSet
	seen        map[uint64]struct{} // 对局里出现过的局面
	path        [maxPly + 1]uint64  // 当前路径上的局面
	moveBuf     [maxPly + 1][]trichess.Move
	ctx         context.Context
	deadline    time.Time
	stopped     bool
}

func NewEngine() *Engine {
	return &Engine{
		tt: make(map[uint64]ttEntry, 1<<16),
	}
}

func (e *Engine) Nodes() int64 { return e.nodes }

// prepare 每次搜索开始时重置
func (e *Engine) prepare(ctx context.Context, req Request, start time.Time) {
	e.ctx = ctx
	e.nodes = 0
	e.stopped = false
	e.deadline = time.Time{}
	if req.TimeLimit > 0 {
		e.deadline = start.Add(req.TimeLimit)
	}

	e.pos = req.Position.Clone()
	e.pos.EnsureHash()
	e.perspective = req.Perspective
	if e.pos.ToMove != e.perspective {
		e.pos.SetToMove(e.perspective)
	}
	e.active = req.Active
	if e.active == 0 {
		e.active = e.pos.ActiveSet()
	}

	e.seen = make(map[uint64]struct{}, len(req.History))
	for _, h := range req.History {
		e.seen[h] = struct{}{}
	}
	e.killers = [maxPly + 1][2]trichess.Move{}
	for i := range e.history {
		for j := range e.history[i] {
			e.history[i][j] /= 8
		}
	}
}

// shouldStop 不是每个节点都看时间
func (e *Engine) shouldStop() bool {
	if e.stopped {
		return true
	}
	if e.nodes&stopCheckMask == 0 {
		if !e.deadline.IsZero() && time.Now().After(e.deadline) {
			e.stopped = true
		}
		if e.ctx != nil && e.ctx.Err() != nil {
			e.stopped = true
		}
	}
	return e.stopped
}

// 对局历史或当前路径上出现过就算重复
func (e *Engine) isRepetition(hash uint64, ply int) bool {
	if _, ok := e.seen[hash]; ok {
		return true
	}
	for i := ply - 1; i >= 0; i-- {
		if e.path[i] == hash {
			return true
		}
	}
	return false
}

func (e *Engine) legalMoves(ply int, side trichess.Player) []trichess.Move {
	e.moveBuf[ply] = e.pos.AppendLegalMoves(side, e.moveBuf[ply][:0])
	return e.moveBuf[ply]
}

func (e *Engine) tacticalMoves(ply int, side trichess.Player) []trichess.Move {
	e.moveBuf[ply] = e.pos.AppendTacticalMoves(side, e.moveBuf[ply][:0])
	return e.moveBuf[ply]
}

func (e *Engine) evaluate() int {
	return Evaluate(e.pos, e.perspective, e.active)
}

// makeMove 走子并按回合规则切换下一个行棋方
func (e *Engine) makeMove(mv trichess.Move, t turn) (trichess.Undo, turn) {
	u := e.pos.MakeMove(mv)
	next, duel := trichess.NextTurnIn(e.pos, e.active, t.toMove, t.duel, false)
	e.pos.SetToMove(next)
	return u, turn{toMove: next, duel: duel}
}
