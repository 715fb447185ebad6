package metrics

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// ============================================================================
// RateMeter - 滑动窗口计数
// ============================================================================

// RateMeter 最近 60 秒的事件计数（60 个 1 秒桶）
type RateMeter struct {
	clk clock.Clock

	mu       sync.Mutex
	buckets  [60]int64
	lastIdx  int
	lastTime time.Time
}

// NewRateMeter 创建计数器
func NewRateMeter(clk clock.Clock) *RateMeter {
	if clk == nil {
		clk = clock.New()
	}
	return &RateMeter{
		clk:      clk,
		lastTime: clk.Now(),
	}
}

// Mark 在当前桶记录 n 次事件
func (r *RateMeter) Mark(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advance()
	r.buckets[r.lastIdx] += n
}

// Window 返回最近 60 秒的事件总数
func (r *RateMeter) Window() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advance()
	var total int64
	for _, v := range r.buckets {
		total += v
	}
	return total
}

// advance 按经过的整秒数前移并清空过期的桶，调用方持有锁
func (r *RateMeter) advance() {
	elapsed := r.clk.Since(r.lastTime)
	if elapsed < time.Second {
		return
	}

	seconds := int(elapsed / time.Second)
	if seconds >= len(r.buckets) {
		r.buckets = [60]int64{}
		r.lastIdx = 0
	} else {
		for i := 0; i < seconds; i++ {
			r.lastIdx = (r.lastIdx + 1) % len(r.buckets)
			r.buckets[r.lastIdx] = 0
		}
	}
	r.lastTime = r.lastTime.Add(time.Duration(seconds) * time.Second)
}
