package trichess

// IsAttacked 判断 sq 这个格子是否被 by 集合里任何一方攻击。
// 从目标格反查：八条射线、马位、王位、兵的斜吃位。
// 象只沿斜线攻击，换线的那一步横竖单步不算攻击。
func (p *Position) IsAttacked(sq int, by PlayerSet) bool {
	if by == 0 || sq < 0 || sq >= NumSquares {
		return false
	}
	row, col := rowOf(sq), colOf(sq)
	sqs := &p.Board.Squares

	attacker := func(pc Piece) bool {
		return !pc.IsEmpty() && by.Has(pc.Owner())
	}

	// 横竖：车、后
	for _, d := range rookDirs {
		r, c := row+d[0], col+d[1]
		for Playable(r, c) {
			pc := sqs[indexOf(r, c)]
			if !pc.IsEmpty() {
				if attacker(pc) && (pc.Is(PieceRook) || pc.Is(PieceQueen)) {
					return true
				}
				break
			}
			r += d[0]
			c += d[1]
		}
	}

	// 斜线：象、后
	for _, d := range bishopDirs {
		r, c := row+d[0], col+d[1]
		for Playable(r, c) {
			pc := sqs[indexOf(r, c)]
			if !pc.IsEmpty() {
				if attacker(pc) && (pc.Is(PieceBishop) || pc.Is(PieceQueen)) {
					return true
				}
				break
			}
			r += d[0]
			c += d[1]
		}
	}

	for _, d := range knightOffsets {
		r, c := row+d[0], col+d[1]
		if !Playable(r, c) {
			continue
		}
		pc := sqs[indexOf(r, c)]
		if attacker(pc) && pc.Is(PieceKnight) {
			return true
		}
	}

	for _, d := range kingOffsets {
		r, c := row+d[0], col+d[1]
		if !Playable(r, c) {
			continue
		}
		pc := sqs[indexOf(r, c)]
		if attacker(pc) && pc.Is(PieceKing) {
			return true
		}
	}

	// 兵四个斜方向都能吃，所以斜邻格上的敌兵就构成攻击
	for _, d := range pawnCaptureDirs {
		r, c := row+d[0], col+d[1]
		if !Playable(r, c) {
			continue
		}
		pc := sqs[indexOf(r, c)]
		if attacker(pc) && pc.Is(PiecePawn) {
			return true
		}
	}
	return false
}

// IsInCheck 判断 side 这一方的王是否被将军（棋盘上任何别家的子都算）
func (p *Position) IsInCheck(side Player) bool {
	kingSq := p.KingSquare(side)
	if kingSq == -1 {
		return false
	}
	return p.IsAttacked(kingSq, AllPlayers.Remove(side))
}

// CheckedOpponents 返回 active 中除 mover 外被将军的人数，以及第一个被将的人
func (p *Position) CheckedOpponents(mover Player, active PlayerSet) (Player, int) {
	first, n := NoPlayer, 0
	for _, o := range TurnOrder {
		if o == mover || !active.Has(o) {
			continue
		}
		if p.IsInCheck(o) {
			if n == 0 {
				first = o
			}
			n++
		}
	}
	return first, n
}
