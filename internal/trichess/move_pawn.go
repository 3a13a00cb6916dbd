package trichess

// 兵的方向按棋盘坐标算（不是按兵自己的“前方”转出来的）
type pawnDirs struct {
	forward  [2]int
	backward [2]int
	sideways [2][2]int
}

var pawnDirTable = [NumPlayers]pawnDirs{
	Gray:  {forward: [2]int{1, 0}, backward: [2]int{-1, 0}, sideways: [2][2]int{{0, -1}, {0, 1}}},
	White: {forward: [2]int{0, 1}, backward: [2]int{0, -1}, sideways: [2][2]int{{-1, 0}, {1, 0}}},
	Black: {forward: [2]int{0, -1}, backward: [2]int{0, 1}, sideways: [2][2]int{{-1, 0}, {1, 0}}},
}

// 兵不吃子，只斜吃；四个斜方向都能吃
var pawnCaptureDirs = bishopDirs

func emptyPlayable(p *Position, r, c int) bool {
	return Playable(r, c) && p.Board.Squares[indexOf(r, c)].IsEmpty()
}

// genPawnMoves kingInCheck 为 true 时不生成后退一步
func genPawnMoves(p *Position, from int, kingInCheck bool, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	pc := p.Board.Squares[from]
	side := pc.Owner()
	if !side.valid() {
		return
	}
	dirs := pawnDirTable[side]

	push := func(to int) {
		mv := Move{From: from, To: to}
		if InPromotionZone(side, to) {
			mv.Promotion = PieceQueen
		}
		*moves = append(*moves, mv)
	}

	// 前进一格；没走过且两格都空可以走两格
	r1, c1 := row+dirs.forward[0], col+dirs.forward[1]
	if emptyPlayable(p, r1, c1) {
		push(indexOf(r1, c1))
		if !pc.Moved() {
			r2, c2 := row+2*dirs.forward[0], col+2*dirs.forward[1]
			if emptyPlayable(p, r2, c2) {
				push(indexOf(r2, c2))
			}
		}
	}

	// 横走一格
	for _, d := range dirs.sideways {
		r, c := row+d[0], col+d[1]
		if emptyPlayable(p, r, c) {
			push(indexOf(r, c))
		}
	}

	// 后退一格：王被将时不行
	if !kingInCheck {
		r, c := row+dirs.backward[0], col+dirs.backward[1]
		if emptyPlayable(p, r, c) {
			push(indexOf(r, c))
		}
	}

	// 斜吃
	for _, d := range pawnCaptureDirs {
		r, c := row+d[0], col+d[1]
		if !Playable(r, c) {
			continue
		}
		to := indexOf(r, c)
		dst := p.Board.Squares[to]
		if !dst.IsEmpty() && dst.Owner() != side {
			push(to)
		}
	}
}
