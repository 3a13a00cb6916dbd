package engine

import (
	"golang.org/x/exp/constraints"

	"trichess/internal/trichess"
)

// ======= 基础子力估值 =======

var pieceValue = [...]int{
	trichess.PieceNone:   0,
	trichess.PiecePawn:   100,
	trichess.PieceRook:   500,
	trichess.PieceKnight: 320,
	trichess.PieceBishop: 330,
	trichess.PieceQueen:  900,
	trichess.PieceKing:   20000,
}

const (
	developmentBonus = 25 // 大子离开布子区
	mobilityWeight   = 2  // 每个可达格
	pawnHorizon      = 10 // 离升变格这么近以内才开始加分
	pawnAdvanceScale = 3  // (pawnHorizon - 距离)^2 * scale

	checkPenalty      = 500 // 自己被将
	opponentCheckGain = 250 // 每个被将的对手
	threatDivisor     = 8   // 被攻击大子扣 value/threatDivisor

	kingCenterRadius = 16
	kingCenterWeight = 4

	// 双方（或三方）非兵大子总价值低于此视为残局
	endgameMaterial = 3000

	// 两人残局领先这么多时把对方王往边上赶
	mopUpMargin     = 300
	mopUpEdgeWeight = 10 // centerDistance 是两倍坐标，约等于每格 20
	mopUpKingWeight = 15 // (mopUpKingRange - 两王曼哈顿距离) * weight
	mopUpKingRange  = 20
)

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func clamp[T constraints.Ordered](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// 材料分：王不计
func materialValue(pt trichess.PieceType) int {
	if pt == trichess.PieceKing {
		return 0
	}
	return pieceValue[pt]
}

// ======= 兵到升变格的距离表（四邻 BFS，包初始化时建好） =======

const unreachable = 127

var promoDist [trichess.NumPlayers][trichess.NumSquares]int8

func init() {
	buildPromoDist()
}

func buildPromoDist() {
	for _, p := range trichess.TurnOrder {
		d := &promoDist[p]
		for i := range d {
			d[i] = unreachable
		}
		var queue [trichess.NumSquares]int
		head, tail := 0, 0
		for _, s := range trichess.PromotionZone(p) {
			d[s] = 0
			queue[tail] = s
			tail++
		}
		for head < tail {
			s := queue[head]
			head++
			r, c := trichess.RowOf(s), trichess.ColOf(s)
			for _, dir := range rookDirs {
				nr, nc := r+dir[0], c+dir[1]
				if !trichess.Playable(nr, nc) {
					continue
				}
				ns := trichess.Square(nr, nc)
				if d[ns] != unreachable {
					continue
				}
				d[ns] = d[s] + 1
				queue[tail] = ns
				tail++
			}
		}
	}
}

// PromotionDistance side 的兵从 sq 到最近升变格的步数（四邻、不考虑挡子）
func PromotionDistance(side trichess.Player, sq int) int {
	return int(promoDist[side][sq])
}

// 兵越接近升变格分越高，按接近程度的平方
func pawnAdvanceBonus(side trichess.Player, sq int) int {
	closeness := pawnHorizon - int(promoDist[side][sq])
	if closeness <= 0 {
		return 0
	}
	return closeness * closeness * pawnAdvanceScale
}

// ======= 方向表（评估里自己算可达格，不分配内存） =======

var (
	rookDirs    = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	bishopDirs  = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightJumps = [8][2]int{
		{-2, -1}, {-2, 1}, {2, -1}, {2, 1},
		{-1, -2}, {-1, 2}, {1, -2}, {1, 2},
	}
)

func slideReach(pos *trichess.Position, sq int, dirs [][2]int) int {
	r0, c0 := trichess.RowOf(sq), trichess.ColOf(sq)
	n := 0
	for _, d := range dirs {
		r, c := r0+d[0], c0+d[1]
		for trichess.Playable(r, c) {
			n++
			if !pos.Board.Squares[trichess.Square(r, c)].IsEmpty() {
				break
			}
			r += d[0]
			c += d[1]
		}
	}
	return n
}

// reach 机动性的近似：滑子射线长度、马的落点数
func reach(pos *trichess.Position, sq int, pt trichess.PieceType) int {
	switch pt {
	case trichess.PieceRook:
		return slideReach(pos, sq, rookDirs[:])
	case trichess.PieceBishop:
		return slideReach(pos, sq, bishopDirs[:])
	case trichess.PieceQueen:
		return slideReach(pos, sq, rookDirs[:]) + slideReach(pos, sq, bishopDirs[:])
	case trichess.PieceKnight:
		r0, c0 := trichess.RowOf(sq), trichess.ColOf(sq)
		n := 0
		for _, d := range knightJumps {
			if trichess.Playable(r0+d[0], c0+d[1]) {
				n++
			}
		}
		return n
	}
	return 0
}

// 到棋盘中心 (6.5, 9.5) 的距离，坐标放大两倍避免小数
func centerDistance(sq int) int {
	return abs(2*trichess.RowOf(sq)-13) + abs(2*trichess.ColOf(sq)-19)
}

// 中局王躲开中心，残局王走向中心
func kingPlacement(kingSq int, endgame bool) int {
	if kingSq < 0 {
		return 0
	}
	closeness := clamp(kingCenterRadius-centerDistance(kingSq), 0, kingCenterRadius)
	if endgame {
		return closeness * kingCenterWeight
	}
	return -closeness * kingCenterWeight
}

// mopUp 残局收官：对方王离中心越远、两王越近分越高
func mopUp(ownKing, oppKing int) int {
	if ownKing < 0 || oppKing < 0 {
		return 0
	}
	dist := abs(trichess.RowOf(ownKing)-trichess.RowOf(oppKing)) + abs(trichess.ColOf(ownKing)-trichess.ColOf(oppKing))
	return centerDistance(oppKing)*mopUpEdgeWeight + max(mopUpKingRange-dist, 0)*mopUpKingWeight
}

// Evaluate 从 side 视角的静态评估：
// 自己的（子力 + 位置分）减去各对手的平均值，再加王安全、将军与受攻击的修正。
func Evaluate(pos *trichess.Position, side trichess.Player, active trichess.PlayerSet) int {
	var (
		material [trichess.NumPlayers]int
		bonus    [trichess.NumPlayers]int
		kingSq   = [trichess.NumPlayers]int{-1, -1, -1}
		nonPawn  int
	)

	for sq, pc := range pos.Board.Squares {
		if pc.IsEmpty() {
			continue
		}
		o := pc.Owner()
		if !active.Has(o) {
			continue
		}
		pt := pc.Type()
		switch pt {
		case trichess.PiecePawn:
			material[o] += pieceValue[pt]
			bonus[o] += pawnAdvanceBonus(o, sq)
		case trichess.PieceKing:
			kingSq[o] = sq
		default:
			v := pieceValue[pt]
			material[o] += v
			nonPawn += v
			if !trichess.InHomeZone(o, sq) {
				bonus[o] += developmentBonus
			}
			bonus[o] += mobilityWeight * reach(pos, sq, pt)
		}
	}

	score := material[side] + bonus[side]
	oppSum, oppN := 0, 0
	opponents := active.Remove(side)
	for _, o := range trichess.TurnOrder {
		if !opponents.Has(o) {
			continue
		}
		oppSum += material[o] + bonus[o]
		oppN++
	}
	if oppN > 0 {
		score -= oppSum / oppN
	}

	endgame := nonPawn <= endgameMaterial
	score += kingPlacement(kingSq[side], endgame)
	if endgame && opponents.Len() == 1 {
		opp := opponents.Players()[0]
		if material[side] >= material[opp]+mopUpMargin {
			score += mopUp(kingSq[side], kingSq[opp])
		}
	}

	if pos.IsInCheck(side) {
		score -= checkPenalty
	}
	for _, o := range trichess.TurnOrder {
		if opponents.Has(o) && pos.IsInCheck(o) {
			score += opponentCheckGain
		}
	}

	// 受攻击的大子
	for sq, pc := range pos.Board.Squares {
		if pc.IsEmpty() || pc.Owner() != side {
			continue
		}
		pt := pc.Type()
		if pt == trichess.PiecePawn || pt == trichess.PieceKing {
			continue
		}
		if pos.IsAttacked(sq, opponents) {
			score -= pieceValue[pt] / threatDivisor
		}
	}
	return score
}

// MaterialBalance side 的子力减去对手中最强的一家（不计王）
func MaterialBalance(pos *trichess.Position, side trichess.Player, active trichess.PlayerSet) int {
	var material [trichess.NumPlayers]int
	for _, pc := range pos.Board.Squares {
		if pc.IsEmpty() {
			continue
		}
		material[pc.Owner()] += materialValue(pc.Type())
	}
	strongest := 0
	for _, o := range trichess.TurnOrder {
		if o != side && active.Has(o) && material[o] > strongest {
			strongest = material[o]
		}
	}
	return material[side] - strongest
}

// IsEndgame 场上非兵大子总价值较少
func IsEndgame(pos *trichess.Position, active trichess.PlayerSet) bool {
	total := 0
	for _, pc := range pos.Board.Squares {
		if pc.IsEmpty() || !active.Has(pc.Owner()) {
			continue
		}
		pt := pc.Type()
		if pt != trichess.PiecePawn && pt != trichess.PieceKing {
			total += pieceValue[pt]
		}
	}
	return total <= endgameMaterial
}
