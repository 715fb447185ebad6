package connstate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"

	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
	"github.com/dep2p/go-linkguard/pkg/lib/log"
	"github.com/dep2p/go-linkguard/pkg/types"
)

var logger = log.Logger("core/connstate")

// ErrNoNetworkStack 未提供网络栈
var ErrNoNetworkStack = errors.New("connstate: network stack is nil")

// Machine 连接状态机
type Machine struct {
	stack    pkgif.NetworkStack
	maxRetry int
	clk      clock.Clock

	status    atomic.Pointer[types.ConnectionStatus]
	connected atomic.Bool

	emState     pkgif.Emitter
	emAttempt   pkgif.Emitter
	emExhausted pkgif.Emitter

	processed atomic.Uint64
	attempts  atomic.Uint64

	running atomic.Bool
	closed  atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option 状态机选项
type Option func(*Machine)

// WithClock 设置时钟
func WithClock(clk clock.Clock) Option {
	return func(m *Machine) {
		if clk != nil {
			m.clk = clk
		}
	}
}

// WithEventBus 设置事件总线
//
// 状态变化事件使用有状态发射器，后订阅者能立即拿到当前状态。
func WithEventBus(bus pkgif.EventBus) Option {
	return func(m *Machine) {
		if bus == nil {
			return
		}
		var err error
		if m.emState, err = bus.Emitter(new(types.EvtConnectionStateChanged), pkgif.Stateful()); err != nil {
			logger.Warn("创建状态事件发射器失败", "err", err)
		}
		if m.emAttempt, err = bus.Emitter(new(types.EvtAssociationAttempt)); err != nil {
			logger.Warn("创建关联事件发射器失败", "err", err)
		}
		if m.emExhausted, err = bus.Emitter(new(types.EvtRetryExhausted)); err != nil {
			logger.Warn("创建耗尽事件发射器失败", "err", err)
		}
	}
}

// New 创建状态机，初始状态为 Disconnected、计数器为 0
func New(stack pkgif.NetworkStack, maxRetry int, opts ...Option) (*Machine, error) {
	if stack == nil {
		return nil, ErrNoNetworkStack
	}
	if maxRetry < 0 {
		maxRetry = 0
	}
	m := &Machine{
		stack:    stack,
		maxRetry: maxRetry,
		clk:      clock.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.status.Store(&types.ConnectionStatus{State: types.StateDisconnected})
	return m, nil
}

// ============================================================================
// 状态读取
// ============================================================================

// Connected 返回 connected 标志
func (m *Machine) Connected() bool {
	return m.connected.Load()
}

// Status 返回当前状态快照
func (m *Machine) Status() types.ConnectionStatus {
	return *m.status.Load()
}

// MaxRetry 返回重试上限
func (m *Machine) MaxRetry() int {
	return m.maxRetry
}

// Stats 返回已处理事件数和已发起的关联次数
func (m *Machine) Stats() (processed, attempts uint64) {
	return m.processed.Load(), m.attempts.Load()
}

// ============================================================================
// 事件处理
// ============================================================================

// Apply 处理一个链路事件并返回新状态
//
// 只能由单一写者调用：Start 之后由事件循环调用，测试中可直接调用。
func (m *Machine) Apply(ev types.LinkEvent) types.ConnectionStatus {
	prev := m.Status()
	next, effects := Transition(prev, ev, m.maxRetry)

	// 先发布状态，再执行副作用，关联结果事件一定晚于状态可见
	m.status.Store(&next)
	m.connected.Store(next.Connected())
	m.processed.Add(1)

	now := m.clk.Now()
	if next != prev {
		logger.Info("连接状态变化",
			"event", ev.String(),
			"from", prev.State.String(),
			"to", next.State.String(),
			"retries", next.Retries)
		emit(m.emState, types.EvtConnectionStateChanged{
			BaseEvent: types.NewBaseEvent(types.EventConnectionStateChanged, now),
			Previous:  prev.State,
			Current:   next.State,
			Retries:   next.Retries,
			Cause:     ev,
		})
	}

	for _, eff := range effects {
		switch eff {
		case EffectAssociate:
			m.attempts.Add(1)
			logger.Debug("请求关联", "retry", next.Retries, "max", m.maxRetry)
			emit(m.emAttempt, types.EvtAssociationAttempt{
				BaseEvent: types.NewBaseEvent(types.EventAssociationAttempt, now),
				Retry:     next.Retries,
			})
			m.stack.TriggerAssociation()
		case EffectRetryExhausted:
			logger.Warn("重连次数耗尽，停止自动重连", "retries", next.Retries)
			emit(m.emExhausted, types.EvtRetryExhausted{
				BaseEvent: types.NewBaseEvent(types.EventRetryExhausted, now),
				Retries:   next.Retries,
			})
		}
	}
	return next
}

func emit(em pkgif.Emitter, evt interface{}) {
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

// Start 启动事件循环
func (m *Machine) Start(_ context.Context) error {
	if m.closed.Load() {
		return errors.New("connstate: machine closed")
	}
	if !m.running.CompareAndSwap(false, true) {
		return nil
	}

	// OnStart 的 ctx 在返回后失效，循环使用独立 ctx
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	m.wg.Add(1)
	go m.run(ctx)

	logger.Info("连接状态机已启动", "maxRetry", m.maxRetry)
	return nil
}

// Stop 停止事件循环
func (m *Machine) Stop() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()

	for _, em := range []pkgif.Emitter{m.emState, m.emAttempt, m.emExhausted} {
		if em != nil {
			em.Close()
		}
	}
	m.running.Store(false)
	logger.Info("连接状态机已停止")
	return nil
}

func (m *Machine) run(ctx context.Context) {
	defer m.wg.Done()

	events := m.stack.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				logger.Warn("网络栈事件通道已关闭")
				return
			}
			m.Apply(ev)
		}
	}
}
