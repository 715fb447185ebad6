// Package liveness 实现存活上报
//
// 上报器在启动时向看门狗注册一次，之后每个心跳周期复位看门狗
// 并发出一次心跳事件。心跳周期必须明显小于看门狗超时。
package liveness

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
	"github.com/dep2p/go-linkguard/pkg/lib/log"
	"github.com/dep2p/go-linkguard/pkg/types"
)

var logger = log.Logger("core/liveness")

// DefaultHeartbeatPeriod 默认心跳周期
const DefaultHeartbeatPeriod = 2 * time.Second

// ============================================================================
//                              错误定义
// ============================================================================

var (
	// ErrServiceClosed 上报器已关闭
	ErrServiceClosed = errors.New("liveness reporter closed")
	// ErrNoWatchdog 未提供看门狗
	ErrNoWatchdog = errors.New("liveness: watchdog is nil")
)

// ============================================================================
//                              Reporter 实现
// ============================================================================

// Reporter 存活上报器
type Reporter struct {
	wd     pkgif.Watchdog
	clk    clock.Clock
	period time.Duration

	em pkgif.Emitter

	seq      atomic.Uint64
	failures atomic.Uint64

	mu       sync.Mutex
	lastBeat time.Time
	maxGap   time.Duration

	running atomic.Bool
	closed  atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewReporter 创建存活上报器
func NewReporter(wd pkgif.Watchdog, period time.Duration, clk clock.Clock, bus pkgif.EventBus) (*Reporter, error) {
	if wd == nil {
		return nil, ErrNoWatchdog
	}
	if clk == nil {
		clk = clock.New()
	}
	if period <= 0 {
		period = DefaultHeartbeatPeriod
	}

	r := &Reporter{wd: wd, clk: clk, period: period}
	if bus != nil {
		em, err := bus.Emitter(new(types.EvtHeartbeat))
		if err != nil {
			return nil, err
		}
		r.em = em
	}
	return r, nil
}

// Beat 执行一次心跳：复位看门狗并发出心跳事件
//
// 复位失败不会中断上报循环，错误随心跳事件输出。
func (r *Reporter) Beat() (uint64, error) {
	now := r.clk.Now()
	seq := r.seq.Add(1)

	err := r.wd.Reset()
	if err != nil {
		r.failures.Add(1)
		logger.Warn("看门狗复位失败", "seq", seq, "err", err)
	} else {
		logger.Debug("心跳", "seq", seq)
	}

	r.mu.Lock()
	if !r.lastBeat.IsZero() {
		if gap := now.Sub(r.lastBeat); gap > r.maxGap {
			r.maxGap = gap
		}
	}
	r.lastBeat = now
	r.mu.Unlock()

	if r.em != nil {
		if emitErr := r.em.Emit(types.EvtHeartbeat{
			BaseEvent: types.NewBaseEvent(types.EventHeartbeat, now),
			Seq:       seq,
			ResetErr:  err,
		}); emitErr != nil {
			logger.Debug("事件发射失败", "err", emitErr)
		}
	}
	return seq, err
}

// Seq 返回最近一次心跳序号
func (r *Reporter) Seq() uint64 {
	return r.seq.Load()
}

// Failures 返回复位失败次数
func (r *Reporter) Failures() uint64 {
	return r.failures.Load()
}

// MaxGap 返回观测到的最大心跳间隔
func (r *Reporter) MaxGap() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxGap
}

// Period 返回心跳周期
func (r *Reporter) Period() time.Duration {
	return r.period
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 注册看门狗并启动心跳循环
func (r *Reporter) Start(_ context.Context) error {
	if r.closed.Load() {
		return ErrServiceClosed
	}
	if !r.running.CompareAndSwap(false, true) {
		return nil
	}

	if err := r.wd.Register(); err != nil {
		r.running.Store(false)
		return fmt.Errorf("register watchdog: %w", err)
	}

	// 使用独立 ctx：Fx OnStart 的 ctx 在返回后会被取消
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	ticker := r.clk.Ticker(r.period)

	r.wg.Add(1)
	go r.run(ctx, ticker)

	logger.Info("存活上报已启动", "period", r.period)
	return nil
}

// Stop 停止心跳循环
func (r *Reporter) Stop() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()

	if r.em != nil {
		r.em.Close()
	}
	r.running.Store(false)
	logger.Info("存活上报已停止", "beats", r.seq.Load())
	return nil
}

func (r *Reporter) run(ctx context.Context, ticker *clock.Ticker) {
	defer r.wg.Done()
	defer ticker.Stop()

	r.Beat()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Beat()
		}
	}
}
