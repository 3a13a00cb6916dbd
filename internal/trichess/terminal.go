package trichess

// IsCheckmate 被将军且无合法着法
func (p *Position) IsCheckmate(side Player) bool {
	if !p.IsInCheck(side) {
		return false
	}
	return !p.HasLegalMove(side)
}

// IsStalemate 没被将军但无合法着法
func (p *Position) IsStalemate(side Player) bool {
	if p.IsInCheck(side) {
		return false
	}
	return !p.HasLegalMove(side)
}

// StalemateWinner 被逼和一方的王周围（可走的八邻格）谁控制得最多谁拿分。
// 每个对手按伪合法走法逐步计数，落在邻格上就 +1；最多者并列则没有赢家。
func (p *Position) StalemateWinner(side Player, opponents []Player) (Player, bool) {
	kingSq := p.KingSquare(side)
	if kingSq == -1 {
		return NoPlayer, false
	}

	var around [NumSquares]bool
	kr, kc := rowOf(kingSq), colOf(kingSq)
	for _, d := range kingOffsets {
		if Playable(kr+d[0], kc+d[1]) {
			around[indexOf(kr+d[0], kc+d[1])] = true
		}
	}

	winner, best := NoPlayer, -1
	var buf []Move
	for _, o := range opponents {
		if o == side || !o.valid() {
			continue
		}
		count := 0
		for sq := 0; sq < NumSquares; sq++ {
			pc := p.Board.Squares[sq]
			if pc.IsEmpty() || pc.Owner() != o {
				continue
			}
			buf = buf[:0]
			p.appendRawMoves(sq, false, &buf)
			for _, mv := range buf {
				if around[mv.To] {
					count++
				}
			}
		}
		switch {
		case count > best:
			best, winner = count, o
		case count == best:
			winner = NoPlayer
		}
	}
	return winner, winner != NoPlayer
}
