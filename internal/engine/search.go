package engine

import (
	"context"
	"time"

	"trichess/internal/trichess"
)

const (
	// 一个足够大的值，当成正负无穷
	scoreInf = 1_000_000_000

	// 被将死（自己）/ 两人局里将死对手
	mateScore = 1_000_000
	// 三人局里将死或逼和某个对手：很好，但不等于赢棋
	opponentMatedScore      = 50_000
	opponentStalematedScore = 25_000
	// 自己被逼和（三人局）
	selfStalematedScore = -10_000

	defaultDepth = 3

	// 两人残局里子力领先这么多就先试连将杀
	mateProbeMargin = 300
	mateProbeDepth  = 3
)

// 搜索配置
type SearchConfig struct {
	MaxDepth  int           // 最大搜索深度（ply）
	TimeLimit time.Duration // 搜索时间上限（0 表示不限制）
}

// Request 一次搜索的全部输入。Position 会被复制，调用方之后可以继续改它。
type Request struct {
	Position    *trichess.Position
	Perspective trichess.Player    // 替谁找着法
	Active      trichess.PlayerSet // 还在场上的玩家；0 表示按 Position 计算
	Duel        trichess.Duel      // 根节点的对决状态
	History     []uint64           // 对局里出现过的局面哈希
	SearchConfig
}

// 搜索结果
type SearchResult struct {
	BestMove trichess.Move
	Resign   bool // 没有合法着法
	Score    int  // Perspective 视角
	Depth    int  // 完整搜完的深度
	Nodes    int64
	TimeUsed time.Duration
	PV       []trichess.Move
	Mate     bool // 找到了强制将死
}

// ChooseMove 用一个新的 Engine 搜索一次
func ChooseMove(ctx context.Context, req Request) (SearchResult, error) {
	return NewEngine().Search(ctx, req)
}

// Search 迭代加深的 paranoid alpha-beta：Perspective 取极大，其余各方取极小，
// 轮到谁走完全按对局的回合规则（对决、额外一步）推进。
func (e *Engine) Search(ctx context.Context, req Request) (SearchResult, error) {
	if req.Position == nil {
		return SearchResult{}, ErrNoPosition
	}
	active := req.Active
	if active == 0 {
		active = req.Position.ActiveSet()
	}
	if !active.Has(req.Perspective) {
		return SearchResult{}, ErrBadPerspective
	}
	if active.Len() < 2 {
		return SearchResult{}, ErrTooFewPlayers
	}
	req.Active = active
	if req.MaxDepth <= 0 {
		req.MaxDepth = defaultDepth
	}
	if req.MaxDepth > maxPly-maxQDepth {
		req.MaxDepth = maxPly - maxQDepth
	}

	start := time.Now()
	e.prepare(ctx, req, start)

	rootMoves := e.pos.AllLegalMoves(e.perspective)
	if len(rootMoves) == 0 {
		return SearchResult{
			BestMove: trichess.NullMove,
			Resign:   true,
			Score:    e.terminalScore(e.perspective, 0),
			TimeUsed: time.Since(start),
		}, nil
	}
	if len(rootMoves) == 1 {
		only := plain(rootMoves[0])
		return SearchResult{
			BestMove: only,
			Score:    e.evaluate(),
			Nodes:    1,
			TimeUsed: time.Since(start),
			PV:       []trichess.Move{only},
		}, nil
	}

	// 两人残局占优：先找连将杀
	if active.Len() == 2 && MaterialBalance(e.pos, e.perspective, active) >= mateProbeMargin {
		opp := active.Remove(e.perspective).Players()[0]
		if mr := e.MateSearch(e.pos, e.perspective, opp, mateProbeDepth); mr.Found {
			mv := plain(mr.Move)
			return SearchResult{
				BestMove: mv,
				Score:    mateScore - (2*mr.Depth - 1),
				Depth:    2*mr.Depth - 1,
				Nodes:    e.nodes,
				TimeUsed: time.Since(start),
				PV:       []trichess.Move{mv},
				Mate:     true,
			}, nil
		}
		// 连将搜索已经超时的话，下面第一层就会停下，退回到排序后的第一步
	}

	root := turn{toMove: e.perspective, duel: req.Duel}
	e.orderRoot(rootMoves, trichess.NullMove)
	bestMove := rootMoves[0]
	bestScore := 0
	bestDepth := 0

	for depth := 1; depth <= req.MaxDepth; depth++ {
		if !e.deadline.IsZero() && time.Now().After(e.deadline) {
			break
		}
		score, move, ok := e.searchRoot(rootMoves, depth, root)
		if !ok {
			// 这一层没搜完，用上一层的结果
			break
		}
		bestMove, bestScore, bestDepth = move, score, depth
		if score >= mateScore-maxPly || score <= -mateScore+maxPly {
			break
		}
		e.orderRoot(rootMoves, bestMove)
	}
	if bestDepth == 0 {
		bestScore = e.evaluate()
	}
	bestMove = plain(bestMove)
	pv := e.collectPV(bestMove, root, bestDepth)
	for i := range pv {
		pv[i] = plain(pv[i])
	}

	return SearchResult{
		BestMove: bestMove,
		Score:    bestScore,
		Depth:    bestDepth,
		Nodes:    e.nodes,
		TimeUsed: time.Since(start),
		PV:       pv,
		Mate:     bestScore >= mateScore-maxPly,
	}, nil
}

// searchRoot 根节点固定是 Perspective 走，极大层
func (e *Engine) searchRoot(moves []trichess.Move, depth int, root turn) (int, trichess.Move, bool) {
	hash := e.pos.Hash
	e.path[0] = hash
	alpha, beta := -scoreInf, scoreInf
	bestScore := -scoreInf
	bestMove := trichess.NullMove

	for _, mv := range moves {
		u, next := e.makeMove(mv, root)
		score := e.alphaBeta(depth-1, 1, alpha, beta, next)
		e.pos.UnmakeMove(mv, u)
		if e.stopped {
			return 0, trichess.NullMove, false
		}
		if score > bestScore {
			bestScore = score
			bestMove = mv
		}
		if score > alpha {
			alpha = score
		}
	}
	e.storeTT(hash, depth, bestMove)
	return bestScore, bestMove, true
}

func (e *Engine) alphaBeta(depth, ply int, alpha, beta int, t turn) int {
	e.nodes++
	if e.shouldStop() {
		return 0
	}

	hash := e.pos.Hash
	if ply > 0 && e.isRepetition(hash, ply) {
		return 0
	}
	if depth <= 0 {
		return e.quiesce(ply, 0, alpha, beta, t)
	}
	if ply >= maxPly {
		return e.evaluate()
	}
	e.path[ply] = hash

	side := t.toMove
	moves := e.legalMoves(ply, side)
	if len(moves) == 0 {
		return e.terminalScore(side, ply)
	}
	hashMove, _ := e.probeTT(hash)
	e.scoreMoves(ply, moves, hashMove)

	bestMove := trichess.NullMove
	var bestScore int
	if side == e.perspective {
		// 极大层
		bestScore = -scoreInf
		for i := range moves {
			pickMove(moves, i)
			mv := moves[i]
			u, next := e.makeMove(mv, t)
			score := e.alphaBeta(depth-1, ply+1, alpha, beta, next)
			e.pos.UnmakeMove(mv, u)
			if e.stopped {
				return 0
			}
			if score > bestScore {
				bestScore = score
				bestMove = mv
			}
			if score > alpha {
				alpha = score
			}
			if alpha >= beta {
				e.recordCutoff(ply, depth, mv)
				break
			}
		}
	} else {
		// 极小层：对手们都当成和自己作对
		bestScore = scoreInf
		for i := range moves {
			pickMove(moves, i)
			mv := moves[i]
			u, next := e.makeMove(mv, t)
			score := e.alphaBeta(depth-1, ply+1, alpha, beta, next)
			e.pos.UnmakeMove(mv, u)
			if e.stopped {
				return 0
			}
			if score < bestScore {
				bestScore = score
				bestMove = mv
			}
			if score < beta {
				beta = score
			}
			if alpha >= beta {
				e.recordCutoff(ply, depth, mv)
				break
			}
		}
	}

	e.storeTT(hash, depth, bestMove)
	return bestScore
}

// quiesce 只看吃子和升变；被将时看全部应将
func (e *Engine) quiesce(ply, qdepth int, alpha, beta int, t turn) int {
	e.nodes++
	if e.shouldStop() {
		return 0
	}
	if ply >= maxPly || qdepth >= maxQDepth {
		return e.evaluate()
	}

	side := t.toMove
	maximizing := side == e.perspective
	var moves []trichess.Move
	var bestScore int

	if e.pos.IsInCheck(side) {
		moves = e.legalMoves(ply, side)
		if len(moves) == 0 {
			return e.terminalScore(side, ply)
		}
		bestScore = -scoreInf
		if !maximizing {
			bestScore = scoreInf
		}
	} else {
		stand := e.evaluate()
		if maximizing {
			if stand >= beta {
				return stand
			}
			alpha = max(alpha, stand)
		} else {
			if stand <= alpha {
				return stand
			}
			beta = min(beta, stand)
		}
		moves = e.tacticalMoves(ply, side)
		if len(moves) == 0 {
			return stand
		}
		bestScore = stand
	}

	e.scoreMoves(ply, moves, trichess.NullMove)
	for i := range moves {
		pickMove(moves, i)
		mv := moves[i]
		u, next := e.makeMove(mv, t)
		score := e.quiesce(ply+1, qdepth+1, alpha, beta, next)
		e.pos.UnmakeMove(mv, u)
		if e.stopped {
			return 0
		}
		if maximizing {
			bestScore = max(bestScore, score)
			alpha = max(alpha, score)
		} else {
			bestScore = min(bestScore, score)
			beta = min(beta, score)
		}
		if alpha >= beta {
			break
		}
	}
	return bestScore
}

// plain 去掉排序用的 Score，返回给调用方的着法只带走法本身
func plain(mv trichess.Move) trichess.Move {
	mv.Score = 0
	return mv
}

// terminalScore side 轮到走却没有合法着法
func (e *Engine) terminalScore(side trichess.Player, ply int) int {
	inCheck := e.pos.IsInCheck(side)
	if side == e.perspective {
		if inCheck || e.active.Len() == 2 {
			return -mateScore + ply
		}
		return selfStalematedScore
	}
	if e.active.Len() == 2 {
		return mateScore - ply
	}
	if inCheck {
		return opponentMatedScore - ply
	}
	return opponentStalematedScore - ply
}

// collectPV 沿着 TT 里的最佳着法走下去
func (e *Engine) collectPV(first trichess.Move, root turn, depth int) []trichess.Move {
	pv := []trichess.Move{first}
	if depth <= 1 {
		return pv
	}

	type step struct {
		mv trichess.Move
		u  trichess.Undo
	}
	var played []step
	t := root
	mv := first
	seen := map[uint64]bool{e.pos.Hash: true}
	for {
		u, next := e.makeMove(mv, t)
		played = append(played, step{mv, u})
		t = next
		if len(pv) >= depth || seen[e.pos.Hash] {
			break
		}
		seen[e.pos.Hash] = true
		hm, ok := e.probeTT(e.pos.Hash)
		if !ok || !e.isLegal(t.toMove, hm) {
			break
		}
		pv = append(pv, hm)
		mv = hm
	}
	for i := len(played) - 1; i >= 0; i-- {
		e.pos.UnmakeMove(played[i].mv, played[i].u)
	}
	return pv
}

func (e *Engine) isLegal(side trichess.Player, mv trichess.Move) bool {
	if !trichess.IsPlayable(mv.From) || e.pos.At(mv.From).Owner() != side {
		return false
	}
	for _, lm := range e.pos.LegalMoves(mv.From) {
		if lm.Same(mv) {
			return true
		}
	}
	return false
}
