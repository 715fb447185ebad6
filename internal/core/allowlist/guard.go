package allowlist

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/dep2p/go-linkguard/pkg/lib/log"
	"github.com/dep2p/go-linkguard/pkg/types"
)

var logger = log.Logger("core/allowlist")

// DefaultLockTimeout 默认锁等待上限
const DefaultLockTimeout = 300 * time.Millisecond

// Guard 白名单守卫
//
// 白名单本身不可变，信号量只用于限定访问时长，保证查询方
// 不会无限期阻塞。
type Guard struct {
	networks    map[string]struct{}
	sem         *semaphore.Weighted
	lockTimeout time.Duration

	lookups  atomic.Uint64
	timeouts atomic.Uint64
}

// New 创建白名单守卫
//
// 空标识符和超过 31 字节的标识符会被拒绝。
func New(networks []string, lockTimeout time.Duration) (*Guard, error) {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}

	set := make(map[string]struct{}, len(networks))
	for i, id := range networks {
		if id == "" {
			return nil, fmt.Errorf("networks[%d]: %w", i, types.ErrEmptyIdentifier)
		}
		if len(id) > types.MaxIdentifierLen {
			return nil, fmt.Errorf("networks[%d] %q: %w", i, id, types.ErrIdentifierTooLong)
		}
		set[id] = struct{}{}
	}

	return &Guard{
		networks:    set,
		sem:         semaphore.NewWeighted(1),
		lockTimeout: lockTimeout,
	}, nil
}

// IsTrusted 判断标识符是否可信
//
// 对任意输入都有定义：空串、超长串和不在白名单中的标识符返回 false。
// 在 lockTimeout 内未获得许可时返回 (false, types.ErrLockTimeout)。
// ctx 被取消时同样按不可信处理，并返回 ctx 的错误。
func (g *Guard) IsTrusted(ctx context.Context, identifier string) (bool, error) {
	g.lookups.Add(1)

	waitCtx, cancel := context.WithTimeout(ctx, g.lockTimeout)
	defer cancel()

	if err := g.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		g.timeouts.Add(1)
		logger.Warn("白名单锁等待超时，按不可信处理",
			"identifier", identifier,
			"timeout", g.lockTimeout)
		return false, types.ErrLockTimeout
	}
	defer g.sem.Release(1)

	if identifier == "" || len(identifier) > types.MaxIdentifierLen {
		return false, nil
	}
	_, ok := g.networks[identifier]
	return ok, nil
}

// Networks 返回排序后的白名单副本
func (g *Guard) Networks() []string {
	out := make([]string, 0, len(g.networks))
	for id := range g.networks {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// LockTimeout 返回锁等待上限
func (g *Guard) LockTimeout() time.Duration {
	return g.lockTimeout
}

// Stats 返回查询次数和锁超时次数
func (g *Guard) Stats() (lookups, timeouts uint64) {
	return g.lookups.Load(), g.timeouts.Load()
}
