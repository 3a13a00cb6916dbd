package trichess

import (
	"fmt"
	"math/rand"
)

// RandomSetup 把 pieces 随机放进 side 的布子区空格：空格洗牌后按顺序分配。
// 返回新局面，不修改 pos。
func RandomSetup(pos *Position, side Player, pieces []PieceType, rng *rand.Rand) (*Position, error) {
	if !side.valid() {
		return nil, fmt.Errorf("random setup: invalid player %d", side)
	}
	free := make([]int, 0, len(homeZone[side]))
	for _, sq := range homeZone[side] {
		if pos.Board.Squares[sq].IsEmpty() {
			free = append(free, sq)
		}
	}
	if len(free) < len(pieces) {
		return nil, fmt.Errorf("%s: %w (%d cells, %d pieces)", side, ErrNoSetupRoom, len(free), len(pieces))
	}
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	np := pos.Clone()
	for i, pt := range pieces {
		np.Put(free[i], MakePiece(side, pt))
	}
	return np, nil
}

// PlaceSetupPiece 人工布子：只能放在自己布子区的空格里
func (p *Position) PlaceSetupPiece(side Player, pt PieceType, sq int) error {
	if !InHomeZone(side, sq) {
		return ErrNotHomeZone
	}
	if !p.Board.Squares[sq].IsEmpty() {
		return ErrSquareOccupied
	}
	p.Put(sq, MakePiece(side, pt))
	return nil
}

// NewStandardPosition 开局兵 + 三方随机布子
func NewStandardPosition(rng *rand.Rand) (*Position, error) {
	pos := NewInitialPosition()
	for _, side := range TurnOrder {
		next, err := RandomSetup(pos, side, SetupPieces, rng)
		if err != nil {
			return nil, err
		}
		pos = next
	}
	return pos, nil
}
