package trichess

const (
	Rows       = 10
	Cols       = 20
	NumSquares = Rows * Cols
)

func indexOf(row, col int) int { return row*Cols + col }
func rowOf(sq int) int         { return sq / Cols }
func colOf(sq int) int         { return sq % Cols }

// Square / RowOf / ColOf 供外部包使用的坐标换算
func Square(row, col int) int { return indexOf(row, col) }
func RowOf(sq int) int        { return rowOf(sq) }
func ColOf(sq int) int        { return colOf(sq) }

func onGrid(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

// 第 r 行宽 2(r+1)，居中：列范围 [9-r, 10+r]
func inDiamond(row, col int) bool {
	if !onGrid(row, col) {
		return false
	}
	pad := (Cols - 2*(row+1)) / 2
	return col >= pad && col < Cols-pad
}

// 中间的“堡垒”，不可走
var fortressCells = [][2]int{
	{5, 9}, {5, 10},
	{6, 8}, {6, 9}, {6, 10}, {6, 11},
	{7, 8}, {7, 9}, {7, 10}, {7, 11},
	{8, 9}, {8, 10},
}

var homeZoneCells = [NumPlayers][][2]int{
	White: {{9, 0}, {9, 1}, {9, 2}, {8, 1}, {8, 2}, {7, 2}},
	Black: {{9, 19}, {9, 18}, {9, 17}, {8, 18}, {8, 17}, {7, 17}},
	Gray:  {{1, 8}, {1, 9}, {1, 10}, {1, 11}, {0, 9}, {0, 10}},
}

var promotionZoneCells = [NumPlayers][][2]int{
	White: {{5, 11}, {8, 11}},
	Black: {{8, 8}, {5, 8}},
	Gray:  {{9, 9}, {9, 10}},
}

var (
	playable      [NumSquares]bool
	homeZone      [NumPlayers][]int
	promotionZone [NumPlayers][]int
	inHome        [NumPlayers][NumSquares]bool
	inPromotion   [NumPlayers][NumSquares]bool
)

func init() {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			playable[indexOf(r, c)] = inDiamond(r, c)
		}
	}
	for _, rc := range fortressCells {
		playable[indexOf(rc[0], rc[1])] = false
	}
	for _, p := range TurnOrder {
		for _, rc := range homeZoneCells[p] {
			sq := indexOf(rc[0], rc[1])
			homeZone[p] = append(homeZone[p], sq)
			inHome[p][sq] = true
		}
		for _, rc := range promotionZoneCells[p] {
			sq := indexOf(rc[0], rc[1])
			promotionZone[p] = append(promotionZone[p], sq)
			inPromotion[p][sq] = true
		}
	}
}

// Playable 坐标越界、菱形外、堡垒内都不可走
func Playable(row, col int) bool {
	if !onGrid(row, col) {
		return false
	}
	return playable[indexOf(row, col)]
}

func IsPlayable(sq int) bool {
	return sq >= 0 && sq < NumSquares && playable[sq]
}

// HomeZone 布子区（返回副本）
func HomeZone(p Player) []int {
	if !p.valid() {
		return nil
	}
	return append([]int(nil), homeZone[p]...)
}

// PromotionZone 升变区（返回副本）
func PromotionZone(p Player) []int {
	if !p.valid() {
		return nil
	}
	return append([]int(nil), promotionZone[p]...)
}

func InHomeZone(p Player, sq int) bool {
	return p.valid() && sq >= 0 && sq < NumSquares && inHome[p][sq]
}

func InPromotionZone(p Player, sq int) bool {
	return p.valid() && sq >= 0 && sq < NumSquares && inPromotion[p][sq]
}

// SetupPieces 每方开局要放进布子区的子
var SetupPieces = []PieceType{PieceKing, PieceQueen, PieceRook, PieceRook, PieceKnight, PieceBishop}

// 开局兵的位置：灰 第 2 行 7..12 列；白 第 3 列 6..9 行；黑 第 16 列 6..9 行
func initialPawnSquares(p Player) []int {
	var out []int
	switch p {
	case Gray:
		for c := 7; c <= 12; c++ {
			out = append(out, indexOf(2, c))
		}
	case White:
		for r := 6; r <= 9; r++ {
			out = append(out, indexOf(r, 3))
		}
	case Black:
		for r := 6; r <= 9; r++ {
			out = append(out, indexOf(r, 16))
		}
	}
	return out
}

func NewEmptyPosition() *Position {
	pos := &Position{ToMove: White}
	pos.Hash = pos.CalculateHash()
	return pos
}

// NewInitialPosition 只有兵，大子在布子阶段放
func NewInitialPosition() *Position {
	pos := &Position{ToMove: White} // 白先
	for _, p := range TurnOrder {
		for _, sq := range initialPawnSquares(p) {
			pos.Board.Squares[sq] = MakePiece(p, PiecePawn)
		}
	}
	pos.Hash = pos.CalculateHash()
	return pos
}
