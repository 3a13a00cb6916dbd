package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"trichess/internal/server/game"
	"trichess/internal/trichess"
)

// AI 每步的默认思考时间
const DefaultAITime = 3 * time.Second

// Handler 实现 http.Handler，用于 /api/* 路由
type Handler struct {
	mgr    *game.Manager
	aiTime time.Duration
}

func NewHandler(mgr *game.Manager, aiTime time.Duration) *Handler {
	if mgr == nil {
		mgr = game.NewManager()
	}
	if aiTime <= 0 {
		aiTime = DefaultAITime
	}
	return &Handler{mgr: mgr, aiTime: aiTime}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/healthz" {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, map[string]any{"ok": true, "games": h.mgr.Len()})
		return
	}

	var handle func(http.ResponseWriter, *http.Request)
	switch r.URL.Path {
	case "/api/new_game":
		handle = h.handleNewGame
	case "/api/state":
		handle = h.handleState
	case "/api/legal_moves":
		handle = h.handleLegalMoves
	case "/api/setup":
		handle = h.handleSetup
	case "/api/play":
		handle = h.handlePlay
	case "/api/ai_move":
		handle = h.handleAiMove
	case "/api/resign":
		handle = h.handleResign
	default:
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	handle(w, r)
}

func (h *Handler) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if !decode(w, r, &req) {
		return
	}

	var kinds [trichess.NumPlayers]game.PlayerKind
	for i, s := range req.Players {
		k, err := game.ParsePlayerKind(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		kinds[i] = k
	}

	var g *game.GameState
	if req.Position != "" {
		pos, err := trichess.DecodePosition(req.Position)
		if err != nil {
			http.Error(w, "invalid position", http.StatusBadRequest)
			return
		}
		g = h.mgr.NewGameFromPosition(pos, kinds)
	} else {
		var err error
		if g, err = h.mgr.NewGame(kinds); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, stateOf(g))
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if !decode(w, r, &req) {
		return
	}
	g, ok := h.lookup(w, req.GameID)
	if !ok {
		return
	}
	writeJSON(w, stateOf(g))
}

func (h *Handler) handleLegalMoves(w http.ResponseWriter, r *http.Request) {
	var req LegalMovesRequest
	if !decode(w, r, &req) {
		return
	}
	g, ok := h.lookup(w, req.GameID)
	if !ok {
		return
	}

	s := g.Snapshot()
	var moves []trichess.Move
	switch {
	case s.Phase != game.PhasePlay:
	case req.From == nil:
		moves = s.Pos.AllLegalMoves(s.Pos.ToMove)
	case trichess.IsPlayable(*req.From):
		// 只给当前行棋方的子算着法，别人的子返回空
		if s.Pos.At(*req.From).Owner() == s.Pos.ToMove {
			moves = s.Pos.LegalMoves(*req.From)
		}
	}
	writeJSON(w, LegalMovesResponse{LegalMoves: movesToDTO(moves)})
}

func (h *Handler) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req SetupRequest
	if !decode(w, r, &req) {
		return
	}
	g, ok := h.lookup(w, req.GameID)
	if !ok {
		return
	}

	side := trichess.Player(req.Player)
	var err error
	if req.Auto {
		err = g.AutoSetup(side)
	} else {
		_, err = g.PlaceSetupPiece(side, req.Square)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, stateOf(g))
}

func (h *Handler) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req PlayRequest
	if !decode(w, r, &req) {
		return
	}
	g, ok := h.lookup(w, req.GameID)
	if !ok {
		return
	}

	if _, err := g.Play(trichess.Player(req.Player), dtoToMove(req.Move)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, stateOf(g))
}

// handleAiMove 让当前行棋的 AI 座位走一步，返回走完之后的局面
func (h *Handler) handleAiMove(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if !decode(w, r, &req) {
		return
	}
	g, ok := h.lookup(w, req.GameID)
	if !ok {
		return
	}

	res, played, err := g.AIMove(r.Context(), h.aiTime)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := AiMoveResponse{
		StateResponse: stateOf(g),
		BestMove:      moveToDTO(played),
		Resigned:      played.IsNull(),
		Mate:          res.Mate,
		Score:         res.Score,
		Depth:         res.Depth,
		Nodes:         res.Nodes,
		TimeMs:        res.TimeUsed.Milliseconds(),
	}
	writeJSON(w, resp)
}

func (h *Handler) handleResign(w http.ResponseWriter, r *http.Request) {
	var req ResignRequest
	if !decode(w, r, &req) {
		return
	}
	g, ok := h.lookup(w, req.GameID)
	if !ok {
		return
	}

	side := trichess.Player(req.Player)
	// 正在替这个座位思考的话先停掉
	if s := g.Snapshot(); s.Phase == game.PhasePlay && s.Pos.ToMove == side {
		g.CancelAI()
	}
	var err error
	if req.Withdraw {
		err = g.Withdraw(side)
	} else {
		err = g.Resign(side)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, stateOf(g))
}

func (h *Handler) lookup(w http.ResponseWriter, id string) (*game.GameState, bool) {
	g, err := h.mgr.Get(id)
	if err != nil {
		http.Error(w, "game not found", http.StatusNotFound)
		return nil, false
	}
	return g, true
}

func stateOf(g *game.GameState) StateResponse {
	s := g.Snapshot()
	var legal []trichess.Move
	if s.Phase == game.PhasePlay {
		legal = s.Pos.AllLegalMoves(s.Pos.ToMove)
	}
	return stateFromSnapshot(s, legal)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		code = http.StatusNotFound
	case errors.Is(err, game.ErrIllegalMove),
		errors.Is(err, game.ErrBadPlayer),
		errors.Is(err, game.ErrBadPlayerKind),
		errors.Is(err, trichess.ErrNotHomeZone),
		errors.Is(err, trichess.ErrSquareOccupied):
		code = http.StatusBadRequest
	case errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrWrongPhase),
		errors.Is(err, game.ErrNotHuman),
		errors.Is(err, game.ErrNotAI),
		errors.Is(err, game.ErrSetupDone),
		errors.Is(err, game.ErrStaleResult):
		code = http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		code = http.StatusServiceUnavailable
	}
	if code == http.StatusInternalServerError {
		log.Println("api error:", err)
	}
	http.Error(w, err.Error(), code)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("writeJSON error:", err)
	}
}
