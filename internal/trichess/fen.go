package trichess

import (
	"fmt"
	"strconv"
	"strings"
)

// 局面串：10 行用“/”隔开，只写可走格；连续空格用十进制数字压缩。
// 每个子两位：所属方小写 w/b/g + 兵种大写 P/R/N/B/Q/K，后面可跟 ' (已走过) 和 ^ (象刚换线)。
// 空格后依次是：行棋方、出局方、离场方（没有写 -）。
//
//	例：.../6wP'3/... w g -

var playerLetters = [NumPlayers]byte{White: 'w', Black: 'b', Gray: 'g'}

var pieceLetters = [numPieceTypes]byte{
	PiecePawn:   'P',
	PieceRook:   'R',
	PieceKnight: 'N',
	PieceBishop: 'B',
	PieceQueen:  'Q',
	PieceKing:   'K',
}

func playerFromLetter(ch byte) (Player, bool) {
	for p, l := range playerLetters {
		if l == ch {
			return Player(p), true
		}
	}
	return NoPlayer, false
}

func pieceTypeFromLetter(ch byte) (PieceType, bool) {
	for pt, l := range pieceLetters {
		if l != 0 && l == ch {
			return PieceType(pt), true
		}
	}
	return PieceNone, false
}

func writePlayerSet(sb *strings.Builder, s PlayerSet) {
	if s == 0 {
		sb.WriteByte('-')
		return
	}
	for _, p := range TurnOrder {
		if s.Has(p) {
			sb.WriteByte(playerLetters[p])
		}
	}
}

func (p *Position) Encode() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < Cols; c++ {
			if !Playable(r, c) {
				continue
			}
			pc := p.Board.Squares[indexOf(r, c)]
			if pc.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(playerLetters[pc.Owner()])
			sb.WriteByte(pieceLetters[pc.Type()])
			if pc.Moved() {
				sb.WriteByte('\'')
			}
			if pc.Switched() {
				sb.WriteByte('^')
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
	}
	sb.WriteByte(' ')
	if p.ToMove.valid() {
		sb.WriteByte(playerLetters[p.ToMove])
	} else {
		sb.WriteByte('-')
	}
	sb.WriteByte(' ')
	writePlayerSet(&sb, p.Out)
	sb.WriteByte(' ')
	writePlayerSet(&sb, p.Withdrawn)
	return sb.String()
}

func parsePlayerSet(s string) (PlayerSet, error) {
	if s == "-" {
		return 0, nil
	}
	var set PlayerSet
	for i := 0; i < len(s); i++ {
		pl, ok := playerFromLetter(s[i])
		if !ok {
			return 0, fmt.Errorf("%w: bad player %q", ErrInvalidFEN, s[i])
		}
		set = set.Add(pl)
	}
	return set, nil
}

// 一行里可走格的列号
func playableCols(r int) []int {
	var cols []int
	for c := 0; c < Cols; c++ {
		if Playable(r, c) {
			cols = append(cols, c)
		}
	}
	return cols
}

func DecodePosition(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return nil, ErrInvalidFEN
	}
	rows := strings.Split(parts[0], "/")
	if len(rows) != Rows {
		return nil, fmt.Errorf("%w: want %d rows, got %d", ErrInvalidFEN, Rows, len(rows))
	}

	pos := &Position{}
	for r := 0; r < Rows; r++ {
		cols := playableCols(r)
		row := rows[r]
		i, k := 0, 0 // i: 串下标，k: 第几个可走格
		for i < len(row) {
			ch := row[i]
			if ch >= '0' && ch <= '9' {
				j := i
				for j < len(row) && row[j] >= '0' && row[j] <= '9' {
					j++
				}
				n, _ := strconv.Atoi(row[i:j])
				k += n
				i = j
				continue
			}
			if i+1 >= len(row) || k >= len(cols) {
				return nil, fmt.Errorf("%w: row %d overflows", ErrInvalidFEN, r)
			}
			owner, ok := playerFromLetter(ch)
			if !ok {
				return nil, fmt.Errorf("%w: bad owner %q in row %d", ErrInvalidFEN, ch, r)
			}
			pt, ok := pieceTypeFromLetter(row[i+1])
			if !ok {
				return nil, fmt.Errorf("%w: bad piece %q in row %d", ErrInvalidFEN, row[i+1], r)
			}
			pc := MakePiece(owner, pt)
			i += 2
			for i < len(row) && (row[i] == '\'' || row[i] == '^') {
				if row[i] == '\'' {
					pc = pc.WithMoved()
				} else {
					pc = pc.WithSwitched(true)
				}
				i++
			}
			pos.Board.Squares[indexOf(r, cols[k])] = pc
			k++
		}
		if k != len(cols) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidFEN, r, k, len(cols))
		}
	}

	toMove, ok := playerFromLetter(parts[1][0])
	if !ok || len(parts[1]) != 1 {
		return nil, fmt.Errorf("%w: bad side to move %q", ErrInvalidFEN, parts[1])
	}
	pos.ToMove = toMove

	var err error
	if len(parts) > 2 {
		if pos.Out, err = parsePlayerSet(parts[2]); err != nil {
			return nil, err
		}
	}
	if len(parts) > 3 {
		if pos.Withdrawn, err = parsePlayerSet(parts[3]); err != nil {
			return nil, err
		}
	}
	pos.Hash = pos.CalculateHash()
	return pos, nil
}
