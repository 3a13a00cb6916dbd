package httpserver

import (
	"strings"

	"trichess/internal/server/game"
	"trichess/internal/trichess"
)

// 前端用的招法结构；Promotion 只在兵升变时有意义（queen/rook/bishop/knight）
type MoveDTO struct {
	From      int    `json:"from"`
	To        int    `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

type DuelDTO struct {
	Attacker int `json:"attacker"`
	Defender int `json:"defender"`
}

// NewGame 请求：三个座位依次是白、黑、灰，取值 human / easy / medium。
// Position 非空时从这个局面直接开始行棋。
type NewGameRequest struct {
	Players  [trichess.NumPlayers]string `json:"players"`
	Position string                      `json:"position,omitempty"`
}

// 只带 game_id 的请求：state / ai_move
type GameRequest struct {
	GameID string `json:"game_id"`
}

type LegalMovesRequest struct {
	GameID string `json:"game_id"`
	From   *int   `json:"from,omitempty"` // 为空时返回当前行棋方全部着法
}

type PlayRequest struct {
	GameID string  `json:"game_id"`
	Player int     `json:"player"` // 0=白, 1=黑, 2=灰
	Move   MoveDTO `json:"move"`
}

// Setup 请求：Auto 为 true 时随机放完剩下的子，否则把下一个子放到 Square
type SetupRequest struct {
	GameID string `json:"game_id"`
	Player int    `json:"player"`
	Square int    `json:"square"`
	Auto   bool   `json:"auto"`
}

// Resign 请求：Withdraw 为 true 时只是离开，子留在棋盘上
type ResignRequest struct {
	GameID   string `json:"game_id"`
	Player   int    `json:"player"`
	Withdraw bool   `json:"withdraw"`
}

// State 返回：new_game / state / play / setup / resign 都用它
type StateResponse struct {
	GameID     string                        `json:"game_id"`
	Position   string                        `json:"position"` // pos.Encode()
	ToMove     int                           `json:"to_move"`
	Phase      string                        `json:"phase"`
	Status     string                        `json:"status"` // "setup" / "ongoing" / "duel" / "over"
	Players    [trichess.NumPlayers]string   `json:"players"`
	Scores     [trichess.NumPlayers]int      `json:"scores"`
	Captured   [trichess.NumPlayers][]string `json:"captured"`
	Setup      [trichess.NumPlayers][]string `json:"setup,omitempty"` // 还没放的子
	Duel       *DuelDTO                      `json:"duel,omitempty"`
	Winner     int                           `json:"winner"` // -1 表示还没有
	Out        []int                         `json:"out"`
	Withdrawn  []int                         `json:"withdrawn"`
	InCheck    []int                         `json:"in_check"`
	LastMove   *MoveDTO                      `json:"last_move,omitempty"`
	LegalMoves []MoveDTO                     `json:"legal_moves"`
	Turn       uint64                        `json:"turn"`
}

type LegalMovesResponse struct {
	LegalMoves []MoveDTO `json:"legal_moves"`
}

type AiMoveResponse struct {
	StateResponse
	BestMove MoveDTO `json:"best_move"`
	Resigned bool    `json:"resigned"`
	Mate     bool    `json:"mate"`
	Score    int     `json:"score"`
	Depth    int     `json:"depth"`
	Nodes    int64   `json:"nodes"`
	TimeMs   int64   `json:"time_ms"`
}

func moveToDTO(m trichess.Move) MoveDTO {
	dto := MoveDTO{From: m.From, To: m.To}
	if m.Promotion != trichess.PieceNone {
		dto.Promotion = m.Promotion.String()
	}
	return dto
}

func movesToDTO(ms []trichess.Move) []MoveDTO {
	out := make([]MoveDTO, len(ms))
	for i, m := range ms {
		out[i] = moveToDTO(m)
	}
	return out
}

func dtoToMove(m MoveDTO) trichess.Move {
	return trichess.Move{From: m.From, To: m.To, Promotion: parsePromotion(m.Promotion)}
}

// 认不出的写法交给 Play 按后处理
func parsePromotion(s string) trichess.PieceType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "q", "queen":
		return trichess.PieceQueen
	case "r", "rook":
		return trichess.PieceRook
	case "b", "bishop":
		return trichess.PieceBishop
	case "n", "knight":
		return trichess.PieceKnight
	}
	return trichess.PieceNone
}

func playersToInts(s trichess.PlayerSet) []int {
	out := []int{}
	for _, p := range s.Players() {
		out = append(out, int(p))
	}
	return out
}

func pieceNames(pts []trichess.PieceType) []string {
	out := make([]string, len(pts))
	for i, pt := range pts {
		out[i] = pt.String()
	}
	return out
}

func stateFromSnapshot(s game.Snapshot, legal []trichess.Move) StateResponse {
	resp := StateResponse{
		GameID:     s.ID,
		Position:   s.Pos.Encode(),
		ToMove:     int(s.Pos.ToMove),
		Phase:      s.Phase.String(),
		Scores:     s.Scores,
		Winner:     int(s.Winner),
		Out:        playersToInts(s.Pos.Out),
		Withdrawn:  playersToInts(s.Pos.Withdrawn),
		InCheck:    []int{},
		LegalMoves: movesToDTO(legal),
		Turn:       s.Turn,
	}
	for _, p := range trichess.TurnOrder {
		resp.Players[p] = s.Kinds[p].String()
		resp.Captured[p] = pieceNames(s.Captured[p])
		if s.Phase == game.PhaseSetup {
			resp.Setup[p] = pieceNames(s.SetupPending[p])
		}
		if s.Pos.IsActive(p) && s.Pos.IsInCheck(p) {
			resp.InCheck = append(resp.InCheck, int(p))
		}
	}
	if s.Duel.On {
		resp.Duel = &DuelDTO{Attacker: int(s.Duel.Attacker), Defender: int(s.Duel.Defender)}
	}
	if !s.LastMove.IsNull() {
		lm := moveToDTO(s.LastMove)
		resp.LastMove = &lm
	}

	switch {
	case s.Phase == game.PhaseSetup:
		resp.Status = "setup"
	case s.Phase == game.PhaseOver:
		resp.Status = "over"
	case s.Duel.On:
		resp.Status = "duel"
	default:
		resp.Status = "ongoing"
	}
	return resp
}
