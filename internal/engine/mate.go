package engine

import (
	"sort"

	"trichess/internal/trichess"
)

// 连将杀搜索：进攻方每步都必须将军，防守方所有应将都要试。
// 只在两人局里用，两人局里双方正好交替行棋。

const (
	mateDepthCap          = 8 // 进攻方最多走几步
	mateDefaultDepth      = 3
	mateNodeBudgetBase    = 20000
	mateNodeBudgetPerMove = 10000
)

const (
	mateModeAttack uint64 = 0xA5A5A5A5A5A5A5A5
	mateModeDefend uint64 = 0x5A5A5A5A5A5A5A5A
)

type mateTTEntry struct {
	Depth  int
	Result bool
	Move   trichess.Move // 记录最佳走法用于排序
}

type mateContext struct {
	pos        *trichess.Position
	attacker   trichess.Player
	defender   trichess.Player
	tt         map[uint64]mateTTEntry
	inPath     map[uint64]bool
	nodes      int
	nodeBudget int
}

// MateResult 连将搜索结果。Depth 是进攻方需要走的步数。
type MateResult struct {
	Found bool
	Move  trichess.Move
	Depth int
}

// MateSearch 找 attacker 对 defender 的连将杀，pos 不会被修改
func (e *Engine) MateSearch(pos *trichess.Position, attacker, defender trichess.Player, maxDepth int) MateResult {
	if maxDepth <= 0 {
		maxDepth = mateDefaultDepth
	}
	if maxDepth > mateDepthCap {
		maxDepth = mateDepthCap
	}
	if !pos.KingExists(defender) {
		return MateResult{}
	}

	ctx := &mateContext{
		pos:        pos.Clone(),
		attacker:   attacker,
		defender:   defender,
		tt:         make(map[uint64]mateTTEntry, 1<<14),
		inPath:     make(map[uint64]bool, 1<<8),
		nodeBudget: mateNodeBudgetBase + maxDepth*mateNodeBudgetPerMove,
	}
	ctx.pos.EnsureHash()

	// 迭代加深，先找最短的杀
	for d := 1; d <= maxDepth; d++ {
		if found, move := e.mateRoot(ctx, d); found {
			return MateResult{Found: true, Move: plain(move), Depth: d}
		}
		if ctx.nodes > ctx.nodeBudget || e.stopped {
			break
		}
	}
	return MateResult{}
}

func (e *Engine) mateRoot(ctx *mateContext, depth int) (bool, trichess.Move) {
	pos := ctx.pos
	moves := pos.AllLegalMoves(ctx.attacker)
	e.scoreMateMoves(ctx, moves)
	sort.Slice(moves, func(i, j int) bool {
		return moves[i].Score > moves[j].Score
	})

	for _, mv := range moves {
		u := pos.MakeMove(mv)
		// 进攻方必须将军
		if !pos.IsInCheck(ctx.defender) {
			pos.UnmakeMove(mv, u)
			continue
		}
		escape := e.mateDefenderCanEscape(ctx, depth)
		pos.UnmakeMove(mv, u)
		if !escape {
			return true, mv
		}
	}
	return false, trichess.NullMove
}

// scoreMateMoves 吃子优先，然后按子力：后 > 车 > 象 = 马 > 兵 > 王
func (e *Engine) scoreMateMoves(ctx *mateContext, moves []trichess.Move) {
	pos := ctx.pos
	ttMove := trichess.NullMove
	if entry, ok := ctx.tt[pos.Hash^mateModeAttack]; ok {
		ttMove = entry.Move
	}

	for i := range moves {
		mv := &moves[i]
		// 1. 置换表走法最高优先级
		if mv.Same(ttMove) {
			mv.Score = 1000
			continue
		}
		mv.Score = 0

		// 2. 吃子
		target := pos.Board.Squares[mv.To]
		if !target.IsEmpty() {
			mv.Score = 100 + int(target.Type())
		}
		if mv.Promotion != trichess.PieceNone {
			mv.Score += 90
		}

		// 3. 子力权重
		switch pos.Board.Squares[mv.From].Type() {
		case trichess.PieceQueen:
			mv.Score += 80
		case trichess.PieceRook:
			mv.Score += 60
		case trichess.PieceBishop, trichess.PieceKnight:
			mv.Score += 40
		case trichess.PiecePawn:
			mv.Score += 20
		}
	}
}

func (e *Engine) mateAttackerCanForce(ctx *mateContext, depth int) bool {
	if depth <= 0 {
		return false
	}
	if e.reachMateBudget(ctx) {
		return false
	}
	pos := ctx.pos
	key := pos.Hash ^ mateModeAttack
	if ctx.inPath[key] {
		return false
	}
	if entry, ok := ctx.tt[key]; ok && (entry.Depth >= depth || entry.Result) {
		return entry.Result
	}
	ctx.inPath[key] = true
	defer delete(ctx.inPath, key)

	moves := pos.AllLegalMoves(ctx.attacker)
	e.scoreMateMoves(ctx, moves)
	sort.Slice(moves, func(i, j int) bool {
		return moves[i].Score > moves[j].Score
	})

	result := false
	bestMove := trichess.NullMove
	for _, mv := range moves {
		u := pos.MakeMove(mv)
		if !pos.IsInCheck(ctx.defender) {
			pos.UnmakeMove(mv, u)
			continue
		}
		escape := e.mateDefenderCanEscape(ctx, depth)
		pos.UnmakeMove(mv, u)
		if !escape {
			result = true
			bestMove = mv
			break
		}
	}
	ctx.tt[key] = mateTTEntry{
		Depth:  depth,
		Result: result,
		Move:   bestMove,
	}
	return result
}

// mateDefenderCanEscape 防守方（正被将军）走；depth 是进攻方还剩的步数（含刚走的这步）
func (e *Engine) mateDefenderCanEscape(ctx *mateContext, depth int) bool {
	if e.reachMateBudget(ctx) {
		return true
	}
	pos := ctx.pos
	key := pos.Hash ^ mateModeDefend
	if ctx.inPath[key] {
		return true
	}
	if entry, ok := ctx.tt[key]; ok && entry.Depth >= depth {
		return entry.Result
	}

	moves := pos.AllLegalMoves(ctx.defender)
	if len(moves) == 0 {
		// 被将军且无路可走：将死
		ctx.tt[key] = mateTTEntry{Depth: depth, Result: false}
		return false
	}
	if depth <= 1 {
		return true
	}

	ctx.inPath[key] = true
	defer delete(ctx.inPath, key)

	result := false
	bestMove := trichess.NullMove
	for _, mv := range moves {
		u := pos.MakeMove(mv)
		forced := e.mateAttackerCanForce(ctx, depth-1)
		pos.UnmakeMove(mv, u)
		if !forced {
			result = true // 防守方只要找到一个不被连将杀的走法就算逃脱
			bestMove = mv
			break
		}
	}
	ctx.tt[key] = mateTTEntry{
		Depth:  depth,
		Result: result,
		Move:   bestMove,
	}
	return result
}

func (e *Engine) reachMateBudget(ctx *mateContext) bool {
	ctx.nodes++
	e.nodes++
	return ctx.nodes > ctx.nodeBudget || e.shouldStop()
}
