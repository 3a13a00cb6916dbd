package trichess

// Player 三方：白、黑、灰。走子/布子顺序固定为 白 -> 黑 -> 灰。
type Player int8

const (
	NoPlayer Player = -1
	White    Player = 0
	Black    Player = 1
	Gray     Player = 2
)

const NumPlayers = 3

// TurnOrder 行棋与布子的循环顺序
var TurnOrder = [NumPlayers]Player{White, Black, Gray}

func (p Player) String() string {
	switch p {
	case White:
		return "white"
	case Black:
		return "black"
	case Gray:
		return "gray"
	default:
		return "none"
	}
}

func (p Player) valid() bool { return p >= White && p <= Gray }

type PieceType int8

const (
	PieceNone   PieceType = iota
	PiecePawn             // 兵
	PieceRook             // 车
	PieceKnight           // 马
	PieceBishop           // 象
	PieceQueen            // 后
	PieceKing             // 王
)

const numPieceTypes = 7

func (pt PieceType) String() string {
	switch pt {
	case PiecePawn:
		return "pawn"
	case PieceRook:
		return "rook"
	case PieceKnight:
		return "knight"
	case PieceBishop:
		return "bishop"
	case PieceQueen:
		return "queen"
	case PieceKing:
		return "king"
	default:
		return "none"
	}
}

// CanPromoteTo 兵升变可选的子
func (pt PieceType) CanPromoteTo() bool {
	switch pt {
	case PieceQueen, PieceRook, PieceBishop, PieceKnight:
		return true
	}
	return false
}

// Piece 一个字节编码：
// bit0-2 = PieceType，bit3-4 = 所属方，bit5 = 已走过，bit6 = 象刚换过斜线。
// 0 = 空格。
type Piece uint8

const (
	pieceTypeMask    Piece = 0x07
	pieceOwnerShift        = 3
	pieceOwnerMask   Piece = 0x18
	pieceMovedBit    Piece = 0x20
	pieceSwitchedBit Piece = 0x40

	// 所有可能的编码数，zobrist 用
	pieceCodes = 0x80
)

func MakePiece(owner Player, pt PieceType) Piece {
	if pt == PieceNone || !owner.valid() {
		return 0
	}
	return Piece(pt) | Piece(owner)<<pieceOwnerShift
}

func (p Piece) IsEmpty() bool { return p&pieceTypeMask == 0 }
func (p Piece) Type() PieceType { return PieceType(p & pieceTypeMask) }
func (p Piece) Moved() bool { return p&pieceMovedBit != 0 }
func (p Piece) Switched() bool { return p&pieceSwitchedBit != 0 }
func (p Piece) WithMoved() Piece { return p | pieceMovedBit }
func (p Piece) Is(pt PieceType) bool { return p.Type() == pt }

func (p Piece) Owner() Player {
	if p.IsEmpty() {
		return NoPlayer
	}
	return Player((p & pieceOwnerMask) >> pieceOwnerShift)
}

func (p Piece) WithSwitched(on bool) Piece {
	if on {
		return p | pieceSwitchedBit
	}
	return p &^ pieceSwitchedBit
}

type Board struct {
	Squares [NumSquares]Piece
}

// Move From/To 为格子下标（row*Cols+col）。
// Promotion 只在兵走进升变区时有意义，生成时默认为后。
type Move struct {
	From      int       `json:"from"`
	To        int       `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
	Score     int       `json:"-"` // 用于搜索排序，不进行 JSON 序列化
}

// NullMove 表示“没有着法”。(0,0) 不是可走格子，所以零值也不会和真实着法混淆。
var NullMove = Move{From: -1, To: -1}

func (m Move) IsNull() bool { return m.From == m.To }

// Same 比较着法本身，忽略 Score
func (m Move) Same(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// PlayerSet 三方的位集合
type PlayerSet uint8

const AllPlayers PlayerSet = 1<<White | 1<<Black | 1<<Gray

func SetOf(ps ...Player) PlayerSet {
	var s PlayerSet
	for _, p := range ps {
		s = s.Add(p)
	}
	return s
}

func (s PlayerSet) Has(p Player) bool {
	return p.valid() && s&(1<<uint(p)) != 0
}

func (s PlayerSet) Add(p Player) PlayerSet {
	if !p.valid() {
		return s
	}
	return s | 1<<uint(p)
}

func (s PlayerSet) Remove(p Player) PlayerSet {
	if !p.valid() {
		return s
	}
	return s &^ (1 << uint(p))
}

func (s PlayerSet) Len() int {
	n := 0
	for _, p := range TurnOrder {
		if s.Has(p) {
			n++
		}
	}
	return n
}

// Players 按行棋顺序列出集合中的玩家
func (s PlayerSet) Players() []Player {
	out := make([]Player, 0, NumPlayers)
	for _, p := range TurnOrder {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Only 集合恰好只有一个玩家时返回它
func (s PlayerSet) Only() (Player, bool) {
	if s.Len() != 1 {
		return NoPlayer, false
	}
	for _, p := range TurnOrder {
		if s.Has(p) {
			return p, true
		}
	}
	return NoPlayer, false
}

// Position = 棋盘 + 轮到谁 + 出局/离场的玩家
type Position struct {
	Board     Board
	ToMove    Player
	Out       PlayerSet // 被将死 / 逼和 / 认输出局
	Withdrawn PlayerSet // 中途离场
	Hash      uint64
}
