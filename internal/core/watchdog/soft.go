package watchdog

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
	"github.com/dep2p/go-linkguard/pkg/lib/log"
	"github.com/dep2p/go-linkguard/pkg/types"
)

var logger = log.Logger("core/watchdog")

// ExpiryFunc 看门狗超时回调
type ExpiryFunc func()

// Soft 进程内软件看门狗
type Soft struct {
	clk      clock.Clock
	timeout  time.Duration
	onExpire ExpiryFunc

	mu         sync.Mutex
	timer      *clock.Timer
	registered bool
	stopped    bool

	expired atomic.Bool
	resets  atomic.Uint64
	em      pkgif.Emitter
}

var _ pkgif.Watchdog = (*Soft)(nil)

// NewSoft 创建软件看门狗
//
// bus 可为 nil；onExpire 可为 nil，此时超时只记录日志和事件。
func NewSoft(timeout time.Duration, clk clock.Clock, onExpire ExpiryFunc, bus pkgif.EventBus) *Soft {
	if clk == nil {
		clk = clock.New()
	}
	s := &Soft{
		clk:      clk,
		timeout:  timeout,
		onExpire: onExpire,
	}
	if bus != nil {
		em, err := bus.Emitter(new(types.EvtWatchdogExpired))
		if err != nil {
			logger.Warn("创建看门狗事件发射器失败", "err", err)
		}
		s.em = em
	}
	return s
}

// Register 注册并开始计时，重复注册无副作用
func (s *Soft) Register() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.registered {
		return nil
	}
	s.registered = true
	s.timer = s.clk.AfterFunc(s.timeout, s.fire)
	logger.Info("软件看门狗已注册", "timeout", s.timeout)
	return nil
}

// Reset 复位计时器
func (s *Soft) Reset() error {
	if s.expired.Load() {
		return types.ErrWatchdogExpired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.registered {
		return types.ErrWatchdogNotRegistered
	}
	if s.stopped {
		return nil
	}
	s.timer.Reset(s.timeout)
	s.resets.Add(1)
	return nil
}

// Expired 是否已超时
func (s *Soft) Expired() bool {
	return s.expired.Load()
}

// Resets 返回复位次数
func (s *Soft) Resets() uint64 {
	return s.resets.Load()
}

// Timeout 返回超时时间
func (s *Soft) Timeout() time.Duration {
	return s.timeout
}

// Stop 停止计时，之后不会再触发超时
func (s *Soft) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.em != nil {
		s.em.Close()
		s.em = nil
	}
}

func (s *Soft) fire() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	em := s.em
	s.mu.Unlock()

	if !s.expired.CompareAndSwap(false, true) {
		return
	}

	logger.Error("看门狗超时，存活上报已停止", "timeout", s.timeout)
	if em != nil {
		if err := em.Emit(types.EvtWatchdogExpired{
			BaseEvent: types.NewBaseEvent(types.EventWatchdogExpired, s.clk.Now()),
			Timeout:   s.timeout,
		}); err != nil {
			logger.Debug("事件发射失败", "err", err)
		}
	}
	if s.onExpire != nil {
		s.onExpire()
	}
}
