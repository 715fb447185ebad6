// Package sampler 实现周期性链路采样
//
// 每个周期读取一次 connected 标志：已连接时查询关联信息，生成快照并
// 非阻塞写入队列；未连接时只报告一次空闲。关联信息暂不可用时跳过本周期。
package sampler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
	"github.com/dep2p/go-linkguard/pkg/lib/log"
	"github.com/dep2p/go-linkguard/pkg/types"
)

var logger = log.Logger("core/sampler")

// DefaultPeriod 默认采样周期
const DefaultPeriod = 5 * time.Second

// Outcome 单次采样结果
type Outcome int

const (
	// OutcomeIdle 未连接
	OutcomeIdle Outcome = iota
	// OutcomeUnavailable 已连接但关联信息不可用
	OutcomeUnavailable
	// OutcomePublished 快照已入队
	OutcomePublished
	// OutcomeDropped 队列已满，快照被丢弃
	OutcomeDropped
)

// String 返回结果名称
func (o Outcome) String() string {
	switch o {
	case OutcomeIdle:
		return "idle"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomePublished:
		return "published"
	case OutcomeDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Sampler 链路采样器
type Sampler struct {
	stack  pkgif.NetworkStack
	state  pkgif.ConnectionStateReader
	queue  pkgif.SampleQueue
	clk    clock.Clock
	period time.Duration
	epoch  time.Time

	emSampled pkgif.Emitter
	emDropped pkgif.Emitter
	emIdle    pkgif.Emitter

	ticks atomic.Uint64

	running atomic.Bool
	closed  atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Config 采样器依赖
type Config struct {
	Stack  pkgif.NetworkStack
	State  pkgif.ConnectionStateReader
	Queue  pkgif.SampleQueue
	Bus    pkgif.EventBus
	Clock  clock.Clock
	Period time.Duration
}

// New 创建采样器
func New(cfg Config) (*Sampler, error) {
	if cfg.Stack == nil || cfg.State == nil || cfg.Queue == nil {
		return nil, errors.New("sampler: stack, state and queue are required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Period <= 0 {
		cfg.Period = DefaultPeriod
	}

	s := &Sampler{
		stack:  cfg.Stack,
		state:  cfg.State,
		queue:  cfg.Queue,
		clk:    cfg.Clock,
		period: cfg.Period,
		epoch:  cfg.Clock.Now(),
	}

	if cfg.Bus != nil {
		var err error
		if s.emSampled, err = cfg.Bus.Emitter(new(types.EvtLinkSampled)); err != nil {
			return nil, err
		}
		if s.emDropped, err = cfg.Bus.Emitter(new(types.EvtSampleDropped)); err != nil {
			return nil, err
		}
		if s.emIdle, err = cfg.Bus.Emitter(new(types.EvtSamplerIdle)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Tick 执行一次采样
//
// 返回本次生成的快照（若有）和结果。
func (s *Sampler) Tick() (types.LinkSnapshot, Outcome) {
	s.ticks.Add(1)
	now := s.clk.Now()

	if !s.state.Connected() {
		logger.Debug("未连接，跳过采样")
		s.emit(s.emIdle, types.EvtSamplerIdle{
			BaseEvent: types.NewBaseEvent(types.EventSamplerIdle, now),
		})
		return types.LinkSnapshot{}, OutcomeIdle
	}

	info, err := s.stack.AssociationInfo()
	if err != nil {
		logger.Warn("已连接但无法读取关联信息，跳过本周期", "err", err)
		return types.LinkSnapshot{}, OutcomeUnavailable
	}

	snap := types.NewLinkSnapshot(info, now.Sub(s.epoch).Microseconds())
	published := s.queue.TryPublish(snap)

	logger.Info("链路采样",
		"ssid", snap.Identifier,
		"rssi", snap.SignalStrength,
		"timestamp", snap.CapturedAtMicros)
	s.emit(s.emSampled, types.EvtLinkSampled{
		BaseEvent: types.NewBaseEvent(types.EventLinkSampled, now),
		Snapshot:  snap,
		QueueLen:  s.queue.Len(),
	})

	if !published {
		logger.Warn("采样队列已满，丢弃最新样本", "ssid", snap.Identifier, "capacity", s.queue.Cap())
		s.emit(s.emDropped, types.EvtSampleDropped{
			BaseEvent: types.NewBaseEvent(types.EventSampleDropped, now),
			Snapshot:  snap,
		})
		return snap, OutcomeDropped
	}
	return snap, OutcomePublished
}

// Ticks 返回已执行的采样次数
func (s *Sampler) Ticks() uint64 {
	return s.ticks.Load()
}

// Period 返回采样周期
func (s *Sampler) Period() time.Duration {
	return s.period
}

func (s *Sampler) emit(em pkgif.Emitter, evt interface{}) {
	if em == nil {
		return
	}
	if err := em.Emit(evt); err != nil {
		logger.Debug("事件发射失败", "err", err)
	}
}

// ============================================================================
// 生命周期
// ============================================================================

// Start 启动采样循环，立即执行第一次采样
func (s *Sampler) Start(_ context.Context) error {
	if s.closed.Load() {
		return errors.New("sampler: closed")
	}
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	// 在返回前创建 ticker，mock 时钟推进时不会错过第一个周期
	ticker := s.clk.Ticker(s.period)

	s.wg.Add(1)
	go s.run(ctx, ticker)

	logger.Info("链路采样器已启动", "period", s.period, "capacity", s.queue.Cap())
	return nil
}

// Stop 停止采样循环
func (s *Sampler) Stop() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()

	for _, em := range []pkgif.Emitter{s.emSampled, s.emDropped, s.emIdle} {
		if em != nil {
			em.Close()
		}
	}
	s.running.Store(false)
	logger.Info("链路采样器已停止")
	return nil
}

func (s *Sampler) run(ctx context.Context, ticker *clock.Ticker) {
	defer s.wg.Done()
	defer ticker.Stop()

	s.Tick()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}
