// Package queue 实现采样器与分类器之间的有界快照队列
//
// 队列是单生产者/单消费者的，满时丢弃最新样本（drop-newest），
// 已排队的样本保持先进先出。发布永不阻塞，接收最长阻塞到给定超时。
package queue

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-linkguard/pkg/types"
)

// DefaultCapacity 默认容量
const DefaultCapacity = 10

// Queue 有界快照队列
type Queue struct {
	ch  chan types.LinkSnapshot
	clk clock.Clock

	published atomic.Uint64
	dropped   atomic.Uint64
}

// New 创建队列，capacity < 1 时使用 DefaultCapacity
func New(capacity int, clk clock.Clock) *Queue {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Queue{
		ch:  make(chan types.LinkSnapshot, capacity),
		clk: clk,
	}
}

// TryPublish 非阻塞发布
//
// 队列满时丢弃 s 并返回 false，队列内容保持不变。
func (q *Queue) TryPublish(s types.LinkSnapshot) bool {
	select {
	case q.ch <- s:
		q.published.Add(1)
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Receive 在 timeout 内取出队首快照
//
// 超时或 ctx 结束时返回 ok=false。timeout <= 0 时只做一次非阻塞尝试。
func (q *Queue) Receive(ctx context.Context, timeout time.Duration) (types.LinkSnapshot, bool) {
	select {
	case s := <-q.ch:
		return s, true
	default:
	}
	if timeout <= 0 {
		return types.LinkSnapshot{}, false
	}

	t := q.clk.Timer(timeout)
	defer t.Stop()

	select {
	case s := <-q.ch:
		return s, true
	case <-t.C:
		return types.LinkSnapshot{}, false
	case <-ctx.Done():
		return types.LinkSnapshot{}, false
	}
}

// Len 当前排队数量
func (q *Queue) Len() int { return len(q.ch) }

// Cap 队列容量
func (q *Queue) Cap() int { return cap(q.ch) }

// Published 累计成功发布数
func (q *Queue) Published() uint64 { return q.published.Load() }

// Dropped 累计丢弃数
func (q *Queue) Dropped() uint64 { return q.dropped.Load() }
