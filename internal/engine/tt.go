package engine

import "trichess/internal/trichess"

const ttCap = 1_000_000

// 简单 TT 条目：只记最佳着法给排序用。
// 三方搜索里同一哈希下的分数还依赖对决状态和路径，不拿来剪枝。
type ttEntry struct {
	Key   uint64
	Depth int
	Move  trichess.Move
}

// 存入 TT：深度不低于旧条目才覆盖
func (e *Engine) storeTT(key uint64, depth int, mv trichess.Move) {
	if mv.IsNull() {
		return
	}
	if len(e.tt) > ttCap {
		e.tt = make(map[uint64]ttEntry, 1<<18)
	}
	old, ok := e.tt[key]
	if !ok || depth >= old.Depth {
		e.tt[key] = ttEntry{
			Key:   key,
			Depth: depth,
			Move:  mv,
		}
	}
}

func (e *Engine) probeTT(key uint64) (trichess.Move, bool) {
	entry, ok := e.tt[key]
	if !ok || entry.Key != key {
		return trichess.NullMove, false
	}
	return entry.Move, true
}
