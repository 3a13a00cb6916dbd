package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"trichess/internal/trichess"
)

const (
	// 两人残局领先这么多时放宽思考时间
	budgetWinningMargin = 300
	budgetFactor        = 3
	budgetCap           = 30 * time.Second

	// 场上总子数少于 endgamePieces 时至少搜 endgameDepth 层
	endgamePieces = 8
	endgameDepth  = 4
)

// SearchFunc 真正执行搜索的函数，测试里可以替换
type SearchFunc func(ctx context.Context, req Request) (SearchResult, error)

type HostConfig struct {
	Logger *log.Logger // nil 时用 log.Default()
	Search SearchFunc  // nil 时用 ChooseMove
}

// Reply 一次搜索的唯一回复
type Reply struct {
	Gen    uint64
	Result SearchResult
	Err    error
}

// Resigns 没有合法着法或者搜索出错，都按认输处理
func (r Reply) Resigns() bool {
	return r.Err != nil || r.Result.Resign
}

// Host 在后台 goroutine 里跑搜索。新的 Start 会取消上一次还没结束的搜索，
// 调用方用 Gen 判断回复是不是已经过期。
type Host struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc

	logger *log.Logger
	search SearchFunc
}

func NewHost(cfg HostConfig) *Host {
	h := &Host{
		logger: cfg.Logger,
		search: cfg.Search,
	}
	if h.logger == nil {
		h.logger = log.Default()
	}
	if h.search == nil {
		h.search = ChooseMove
	}
	return h
}

// Start 开始一次新的搜索，返回代号和只会收到一条回复的 channel
func (h *Host) Start(ctx context.Context, req Request) (uint64, <-chan Reply) {
	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
	}
	h.gen++
	gen := h.gen
	sctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.mu.Unlock()

	if req.Position != nil {
		req.Position = req.Position.Clone()
	}
	req.History = append([]uint64(nil), req.History...)

	out := make(chan Reply, 1)
	go func() {
		defer cancel()
		reply := Reply{Gen: gen}
		func() {
			defer func() {
				if r := recover(); r != nil {
					reply.Err = fmt.Errorf("%w: %v", ErrSearchPanic, r)
				}
			}()
			reply.Result, reply.Err = h.search(sctx, req)
		}()
		if reply.Err != nil {
			h.logger.Printf("search %d for %v failed: %v", gen, req.Perspective, reply.Err)
		} else if reply.Result.Resign {
			h.logger.Printf("search %d: %v has no legal move", gen, req.Perspective)
		}
		out <- reply
	}()
	return gen, out
}

// Cancel 取消正在进行的搜索（如果有）
func (h *Host) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// IsCurrent gen 是否还是最新的一次搜索
func (h *Host) IsCurrent(gen uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return gen == h.gen
}

func winningTwoPlayer(pos *trichess.Position, side trichess.Player, active trichess.PlayerSet) bool {
	return active.Len() == 2 && MaterialBalance(pos, side, active) >= budgetWinningMargin
}

// Budget 两人残局明显占优时多给些时间，好把棋赢下来
func Budget(pos *trichess.Position, side trichess.Player, active trichess.PlayerSet, base time.Duration) time.Duration {
	if base <= 0 || !winningTwoPlayer(pos, side, active) {
		return base
	}
	return max(base, min(base*budgetFactor, budgetCap))
}

// SearchDepth 和 Budget 配套：子少或两人明显占优时加深到 endgameDepth，
// 多出来的时间才用得上
func SearchDepth(pos *trichess.Position, side trichess.Player, active trichess.PlayerSet, base int) int {
	if base <= 0 {
		base = defaultDepth
	}
	if pos.TotalPieces() < endgamePieces || winningTwoPlayer(pos, side, active) {
		return max(base, endgameDepth)
	}
	return base
}
