package trichess

func (p *Position) Clone() *Position {
	np := *p
	return &np
}

func (p *Position) At(sq int) Piece {
	if sq < 0 || sq >= NumSquares {
		return 0
	}
	return p.Board.Squares[sq]
}

// Put 放子并增量更新哈希；原位置上的子会被替换
func (p *Position) Put(sq int, pc Piece) {
	p.EnsureHash()
	p.Hash ^= pieceHashKey(p.Board.Squares[sq], sq)
	p.Board.Squares[sq] = pc
	p.Hash ^= pieceHashKey(pc, sq)
}

func (p *Position) Remove(sq int) Piece {
	pc := p.Board.Squares[sq]
	if !pc.IsEmpty() {
		p.Put(sq, 0)
	}
	return pc
}

// SetToMove 切换行棋方，哈希随之更新
func (p *Position) SetToMove(side Player) {
	p.EnsureHash()
	p.Hash ^= toMoveHashKey(p.ToMove)
	p.ToMove = side
	p.Hash ^= toMoveHashKey(side)
}

// IsActive 未出局也未离场
func (p *Position) IsActive(side Player) bool {
	return side.valid() && !p.Out.Has(side) && !p.Withdrawn.Has(side)
}

func (p *Position) ActiveSet() PlayerSet {
	return AllPlayers &^ p.Out &^ p.Withdrawn
}

func (p *Position) ActivePlayers() []Player {
	return p.ActiveSet().Players()
}

// Winner 只剩一方时返回那一方
func (p *Position) Winner() (Player, bool) {
	return p.ActiveSet().Only()
}

// GameOver 剩余玩家不超过一个
func (p *Position) GameOver() bool {
	return p.ActiveSet().Len() <= 1
}

func (p *Position) KingSquare(side Player) int {
	for sq, pc := range p.Board.Squares {
		if pc.Is(PieceKing) && pc.Owner() == side {
			return sq
		}
	}
	return -1
}

func (p *Position) KingExists(side Player) bool {
	return p.KingSquare(side) >= 0
}

// RemovePieces 清掉某一方所有的子（出局后用）
func (p *Position) RemovePieces(side Player) int {
	n := 0
	for sq, pc := range p.Board.Squares {
		if !pc.IsEmpty() && pc.Owner() == side {
			p.Remove(sq)
			n++
		}
	}
	return n
}

func (p *Position) PieceCount(side Player) int {
	n := 0
	for _, pc := range p.Board.Squares {
		if !pc.IsEmpty() && pc.Owner() == side {
			n++
		}
	}
	return n
}

func (p *Position) TotalPieces() int {
	n := 0
	for _, pc := range p.Board.Squares {
		if !pc.IsEmpty() {
			n++
		}
	}
	return n
}
