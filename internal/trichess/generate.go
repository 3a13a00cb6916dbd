package trichess

// appendRawMoves 单个子的伪合法走法（不管自己王是否被将）
func (p *Position) appendRawMoves(from int, kingInCheck bool, moves *[]Move) {
	pc := p.Board.Squares[from]
	switch pc.Type() {
	case PiecePawn:
		genPawnMoves(p, from, kingInCheck, moves)
	case PieceRook:
		genRookMoves(p, from, moves)
	case PieceKnight:
		genKnightMoves(p, from, moves)
	case PieceBishop:
		genBishopMoves(p, from, moves)
	case PieceQueen:
		genQueenMoves(p, from, moves)
	case PieceKing:
		genKingMoves(p, from, moves)
	}
}

// RawMoves 伪合法走法。kingInCheck 只影响兵能否后退。
func (p *Position) RawMoves(from int, kingInCheck bool) []Move {
	if !IsPlayable(from) || p.Board.Squares[from].IsEmpty() {
		return nil
	}
	var moves []Move
	p.appendRawMoves(from, kingInCheck, &moves)
	return moves
}

// filterLegal 把 moves[start:] 中走完会让 side 被将的着法去掉；吃王的着法也不算合法。
func (p *Position) filterLegal(side Player, moves []Move, start int) []Move {
	n := start
	for i := start; i < len(moves); i++ {
		mv := moves[i]
		if p.Board.Squares[mv.To].Is(PieceKing) {
			continue
		}
		u := p.MakeMove(mv)
		ok := !p.IsInCheck(side)
		p.UnmakeMove(mv, u)
		if ok {
			moves[n] = mv
			n++
		}
	}
	return moves[:n]
}

// LegalMoves 某个子的合法走法
func (p *Position) LegalMoves(from int) []Move {
	if !IsPlayable(from) {
		return nil
	}
	pc := p.Board.Squares[from]
	if pc.IsEmpty() {
		return nil
	}
	side := pc.Owner()
	var moves []Move
	p.appendRawMoves(from, p.IsInCheck(side), &moves)
	return p.filterLegal(side, moves, 0)
}

// AppendLegalMoves 把 side 的所有合法走法追加到 dst（搜索里复用缓冲区）
func (p *Position) AppendLegalMoves(side Player, dst []Move) []Move {
	inCheck := p.IsInCheck(side)
	for sq := 0; sq < NumSquares; sq++ {
		pc := p.Board.Squares[sq]
		if pc.IsEmpty() || pc.Owner() != side {
			continue
		}
		start := len(dst)
		p.appendRawMoves(sq, inCheck, &dst)
		dst = p.filterLegal(side, dst, start)
	}
	return dst
}

// AppendTacticalMoves 只要吃子和升变（静态搜索用）
func (p *Position) AppendTacticalMoves(side Player, dst []Move) []Move {
	inCheck := p.IsInCheck(side)
	for sq := 0; sq < NumSquares; sq++ {
		pc := p.Board.Squares[sq]
		if pc.IsEmpty() || pc.Owner() != side {
			continue
		}
		start := len(dst)
		p.appendRawMoves(sq, inCheck, &dst)
		n := start
		for i := start; i < len(dst); i++ {
			mv := dst[i]
			if !p.Board.Squares[mv.To].IsEmpty() || mv.Promotion != PieceNone {
				dst[n] = mv
				n++
			}
		}
		dst = p.filterLegal(side, dst[:n], start)
	}
	return dst
}

func (p *Position) AllLegalMoves(side Player) []Move {
	return p.AppendLegalMoves(side, nil)
}

// HasLegalMove 找到一步就返回
func (p *Position) HasLegalMove(side Player) bool {
	inCheck := p.IsInCheck(side)
	var buf [64]Move
	for sq := 0; sq < NumSquares; sq++ {
		pc := p.Board.Squares[sq]
		if pc.IsEmpty() || pc.Owner() != side {
			continue
		}
		moves := buf[:0]
		p.appendRawMoves(sq, inCheck, &moves)
		if len(p.filterLegal(side, moves, 0)) > 0 {
			return true
		}
	}
	return false
}

// Undo 撤销一步所需的全部信息
type Undo struct {
	Moved    Piece // 走之前 From 上的子（含标记）
	Captured Piece
	Hash     uint64
	ToMove   Player
}

// MakeMove 原地走子，不切换行棋方（由调用方按回合规则决定下一个走的人）。
// 兵进入升变区时按 m.Promotion 升变，缺省为后。
func (p *Position) MakeMove(m Move) Undo {
	h := p.EnsureHash()
	pc := p.Board.Squares[m.From]
	captured := p.Board.Squares[m.To]
	u := Undo{Moved: pc, Captured: captured, Hash: h, ToMove: p.ToMove}

	np := pc.WithMoved()
	switch pc.Type() {
	case PieceBishop:
		np = np.WithSwitched(isSwitchStep(m.From, m.To))
	case PiecePawn:
		owner := pc.Owner()
		if InPromotionZone(owner, m.To) {
			pt := m.Promotion
			if !pt.CanPromoteTo() {
				pt = PieceQueen
			}
			np = MakePiece(owner, pt).WithMoved()
		}
	}

	// 增量 Zobrist：移除 from 的子、移除被吃子（若有）、加入 to 的子。
	h ^= pieceHashKey(pc, m.From)
	h ^= pieceHashKey(captured, m.To)
	h ^= pieceHashKey(np, m.To)

	p.Board.Squares[m.From] = 0
	p.Board.Squares[m.To] = np
	p.Hash = h
	return u
}

func (p *Position) UnmakeMove(m Move, u Undo) {
	p.Board.Squares[m.From] = u.Moved
	p.Board.Squares[m.To] = u.Captured
	p.Hash = u.Hash
	p.ToMove = u.ToMove
}

// ApplyMove 返回走完后的新局面，不修改 p。只检查走的是不是 ToMove 的子。
func (p *Position) ApplyMove(m Move) (*Position, bool) {
	if !IsPlayable(m.From) || !IsPlayable(m.To) || m.From == m.To {
		return nil, false
	}
	pc := p.Board.Squares[m.From]
	if pc.IsEmpty() || pc.Owner() != p.ToMove {
		return nil, false
	}
	np := p.Clone()
	np.MakeMove(m)
	return np, true
}
