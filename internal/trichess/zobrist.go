package trichess

import "sync"

var (
	zobristOnce sync.Once

	// 按完整的 Piece 编码取键，已走/换线标记也参与哈希
	zobristPieces [pieceCodes][NumSquares]uint64
	zobristToMove [NumPlayers]uint64
)

func initZobrist() {
	zobristOnce.Do(func() {
		seed := uint64(0x9E3779B97F4A7C15)
		next := func() uint64 {
			seed += 0x9E3779B97F4A7C15
			z := seed
			z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
			z = (z ^ (z >> 27)) * 0x94D049BB133111EB
			return z ^ (z >> 31)
		}

		for code := 1; code < pieceCodes; code++ {
			if Piece(code).IsEmpty() {
				continue
			}
			for sq := 0; sq < NumSquares; sq++ {
				zobristPieces[code][sq] = next()
			}
		}
		for i := range zobristToMove {
			zobristToMove[i] = next()
		}
	})
}

func pieceHashKey(pc Piece, sq int) uint64 {
	if pc.IsEmpty() || sq < 0 || sq >= NumSquares {
		return 0
	}
	initZobrist()
	return zobristPieces[pc][sq]
}

func toMoveHashKey(side Player) uint64 {
	if !side.valid() {
		return 0
	}
	initZobrist()
	return zobristToMove[side]
}

// CalculateHash 全量计算当前局面的 Zobrist 哈希。
func (p *Position) CalculateHash() uint64 {
	initZobrist()

	var h uint64
	for sq := 0; sq < NumSquares; sq++ {
		pc := p.Board.Squares[sq]
		if pc.IsEmpty() {
			continue
		}
		h ^= pieceHashKey(pc, sq)
	}
	h ^= toMoveHashKey(p.ToMove)
	return h
}

// EnsureHash 确保 Position.Hash 已初始化；返回当前哈希值。
func (p *Position) EnsureHash() uint64 {
	if p.Hash == 0 {
		p.Hash = p.CalculateHash()
	}
	return p.Hash
}
