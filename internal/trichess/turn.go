package trichess

// Duel 将军后进入的“对决”：被将的一方（Defender）插队先走，
// 化解之后原来的进攻方（Attacker）再多走一步。零值表示没有对决。
type Duel struct {
	Attacker Player `json:"attacker"`
	Defender Player `json:"defender"`
	On       bool   `json:"on"`
}

// CyclicNext from 之后按行棋顺序第一个还在 active 里的玩家
func CyclicNext(from Player, active PlayerSet) Player {
	start := 0
	for i, p := range TurnOrder {
		if p == from {
			start = i
			break
		}
	}
	for k := 1; k <= NumPlayers; k++ {
		p := TurnOrder[(start+k)%NumPlayers]
		if active.Has(p) {
			return p
		}
	}
	return NoPlayer
}

// NextTurn mover 走完、出局处理完之后，决定下一个走的人和新的对决状态。
// checkmated 表示这一步将死了某个对手。
func (p *Position) NextTurn(mover Player, duel Duel, checkmated bool) (Player, Duel) {
	return NextTurnIn(p, p.ActiveSet(), mover, duel, checkmated)
}

// NextTurnIn 同 NextTurn，但 active 由调用方给出（搜索里不真的淘汰玩家）
func NextTurnIn(p *Position, active PlayerSet, mover Player, duel Duel, checkmated bool) (Player, Duel) {
	if checkmated {
		return CyclicNext(mover, active), Duel{}
	}

	checked, n := p.CheckedOpponents(mover, active)

	if duel.On && mover == duel.Defender {
		// 守方化解后又单将了别人：重新进入对决
		if n == 1 {
			return checked, Duel{Attacker: mover, Defender: checked, On: true}
		}
		// 化解成功：进攻方多走一步
		if duel.Attacker != mover && active.Has(duel.Attacker) {
			return duel.Attacker, Duel{}
		}
		return CyclicNext(mover, active), Duel{}
	}

	if n == 1 {
		return checked, Duel{Attacker: mover, Defender: checked, On: true}
	}
	return CyclicNext(mover, active), Duel{}
}
