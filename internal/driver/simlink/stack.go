// Package simlink 提供模拟的无线网络栈
//
// 用于命令行演示和集成测试：关联请求在固定延迟后产生结果事件，
// 前 FailAttempts 次关联失败（投递 LinkLost），之后成功（投递 AddressAcquired）。
// 真实设备上由驱动适配层实现 interfaces.NetworkStack。
package simlink

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-linkguard/config"
	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
	"github.com/dep2p/go-linkguard/pkg/lib/log"
	"github.com/dep2p/go-linkguard/pkg/types"
)

var logger = log.Logger("driver/simlink")

// eventBuffer 链路事件通道缓冲
const eventBuffer = 16

// ErrStackClosed 网络栈已关闭
var ErrStackClosed = errors.New("simlink: stack closed")

var _ pkgif.NetworkStack = (*Stack)(nil)

// Stack 模拟网络栈
type Stack struct {
	clk   clock.Clock
	delay time.Duration

	events chan types.LinkEvent
	done   chan struct{}

	mu         sync.Mutex
	info       types.AssociationInfo
	associated bool
	failLeft   int
	pending    map[*clock.Timer]struct{}

	// sendMu 串行化事件投递与通道关闭
	sendMu sync.Mutex

	started  atomic.Bool
	closed   atomic.Bool
	attempts atomic.Int64
	emitted  atomic.Int64
}

// New 按配置创建模拟网络栈
func New(cfg config.SimConfig, clk clock.Clock) *Stack {
	if clk == nil {
		clk = clock.New()
	}
	return &Stack{
		clk:   clk,
		delay: cfg.AssociationDelay.Duration(),
		info: types.AssociationInfo{
			Identifier:     cfg.Identifier,
			SignalStrength: cfg.SignalStrength,
		},
		failLeft: cfg.FailAttempts,
		events:   make(chan types.LinkEvent, eventBuffer),
		done:     make(chan struct{}),
		pending:  make(map[*clock.Timer]struct{}),
	}
}

// Events 返回链路事件通道
func (s *Stack) Events() <-chan types.LinkEvent {
	return s.events
}

// Start 模拟站点接口启动，投递 LinkStarted
func (s *Stack) Start(_ context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}
	logger.Info("模拟网络栈已启动", "identifier", s.info.Identifier, "failAttempts", s.failLeft)
	return s.emit(types.LinkStarted)
}

// Stop 停止网络栈并关闭事件通道
//
// 关闭事件通道后状态机的事件循环随之退出。
func (s *Stack) Stop() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(s.done)

	s.mu.Lock()
	for t := range s.pending {
		t.Stop()
	}
	s.pending = nil
	s.mu.Unlock()

	// 等待进行中的 emit 退出后再关闭通道
	s.sendMu.Lock()
	close(s.events)
	s.sendMu.Unlock()

	logger.Info("模拟网络栈已停止", "attempts", s.attempts.Load())
	return nil
}

// TriggerAssociation 请求关联，延迟后投递结果事件
func (s *Stack) TriggerAssociation() {
	n := s.attempts.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return
	}
	s.associated = false

	var t *clock.Timer
	t = s.clk.AfterFunc(s.delay, func() {
		s.complete(&t)
	})
	s.pending[t] = struct{}{}
	logger.Debug("收到关联请求", "attempt", n, "delay", s.delay)
}

// complete 关联延迟到期，按剩余失败次数决定结果
func (s *Stack) complete(t **clock.Timer) {
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		return
	}
	delete(s.pending, *t)

	ev := types.AddressAcquired
	if s.failLeft > 0 {
		s.failLeft--
		ev = types.LinkLost
	} else {
		s.associated = true
	}
	s.mu.Unlock()

	_ = s.emit(ev)
}

// Drop 模拟关联丢失
func (s *Stack) Drop() error {
	s.mu.Lock()
	s.associated = false
	s.mu.Unlock()
	return s.emit(types.LinkLost)
}

// Fail 追加 n 次关联失败
func (s *Stack) Fail(n int) {
	s.mu.Lock()
	s.failLeft += n
	s.mu.Unlock()
}

// SetSignalStrength 修改模拟信号强度
func (s *Stack) SetSignalStrength(dbm int8) {
	s.mu.Lock()
	s.info.SignalStrength = dbm
	s.mu.Unlock()
}

// SetIdentifier 切换到另一个接入点
func (s *Stack) SetIdentifier(id string) {
	s.mu.Lock()
	s.info.Identifier = id
	s.mu.Unlock()
}

// AssociationInfo 返回当前关联信息，未关联时返回 types.ErrAssociationUnavailable
func (s *Stack) AssociationInfo() (types.AssociationInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.associated {
		return types.AssociationInfo{}, types.ErrAssociationUnavailable
	}
	return s.info, nil
}

// Associated 是否已关联
func (s *Stack) Associated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.associated
}

// Attempts 返回收到的关联请求次数
func (s *Stack) Attempts() int64 {
	return s.attempts.Load()
}

// Emitted 返回已投递的事件数
func (s *Stack) Emitted() int64 {
	return s.emitted.Load()
}

// emit 投递事件，通道满时阻塞直到被消费或网络栈关闭
func (s *Stack) emit(ev types.LinkEvent) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if s.closed.Load() {
		return ErrStackClosed
	}

	select {
	case s.events <- ev:
		s.emitted.Add(1)
		logger.Debug("投递链路事件", "event", ev)
		return nil
	case <-s.done:
		return ErrStackClosed
	}
}
