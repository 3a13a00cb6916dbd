package trichess

var (
	rookDirs   = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = [8][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// 沿射线走：空格继续，遇子停；敌子可吃。不可走格（堡垒、菱形外）挡住射线。
func genSlides(p *Position, from int, dirs [][2]int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	side := p.Board.Squares[from].Owner()
	for _, d := range dirs {
		r, c := row+d[0], col+d[1]
		for Playable(r, c) {
			to := indexOf(r, c)
			pc := p.Board.Squares[to]
			if pc.IsEmpty() {
				*moves = append(*moves, Move{From: from, To: to})
			} else {
				if pc.Owner() != side {
					*moves = append(*moves, Move{From: from, To: to})
				}
				break
			}
			r += d[0]
			c += d[1]
		}
	}
}

// 单步：目标为空或敌子
func genSteps(p *Position, from int, offsets [][2]int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	side := p.Board.Squares[from].Owner()
	for _, d := range offsets {
		r, c := row+d[0], col+d[1]
		if !Playable(r, c) {
			continue
		}
		to := indexOf(r, c)
		dst := p.Board.Squares[to]
		if dst.IsEmpty() || dst.Owner() != side {
			*moves = append(*moves, Move{From: from, To: to})
		}
	}
}

// 车：横竖随便走
func genRookMoves(p *Position, from int, moves *[]Move) {
	genSlides(p, from, rookDirs[:], moves)
}

// 后：八方向
func genQueenMoves(p *Position, from int, moves *[]Move) {
	genSlides(p, from, queenDirs[:], moves)
}

// 象：斜走；刚换过斜线之前可以横竖走一格换到另一种颜色的斜线（也可以借此吃子）
func genBishopMoves(p *Position, from int, moves *[]Move) {
	genSlides(p, from, bishopDirs[:], moves)
	if !p.Board.Squares[from].Switched() {
		genSteps(p, from, rookDirs[:], moves)
	}
}

// 象的这一步是不是换线步（横竖一格）
func isSwitchStep(from, to int) bool {
	return rowOf(from) == rowOf(to) || colOf(from) == colOf(to)
}
