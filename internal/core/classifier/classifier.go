// Package classifier 实现链路快照的安全分类
//
// 分类器从队列中取出快照，通过白名单守卫判定可信与否。
// 守卫在限定时间内无法给出结论时，按告警处理（fail-closed）。
// 接收超时只代表窗口内没有样本，记为空闲而非错误。
package classifier

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

var logger = log.Logger("core/classifier")

// DefaultReceiveTimeout 默认接收超时
const DefaultReceiveTimeout = 6 * time.Second

// Classifier 安全分类器
type Classifier struct {
	queue    pkgif.SampleQueue
	guard    pkgif.TrustChecker
	clk      clock.Clock
	timeout  time.Duration
	operator string

	emClassified pkgif.Emitter
	emIdle       pkgif.Emitter

	trusted    atomic.Uint64
	alerts     atomic.Uint64
	failClosed atomic.Uint64
	idle       atomic.Uint64

	running atomic.Bool
	closed  atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Config 分类器依赖
type Config struct {
	Queue          pkgif.SampleQueue
	Guard          pkgif.TrustChecker
	Bus            pkgif.EventBus
	Clock          clock.Clock
	ReceiveTimeout time.Duration
	Operator       string
}

// New 创建分类器
func New(cfg Config) (*Classifier, error) {
	if cfg.Queue == nil || cfg.Guard == nil {
		return nil, errors.New("classifier: queue and guard are required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.ReceiveTimeout <= 0 {
		cfg.ReceiveTimeout = DefaultReceiveTimeout
	}

	c := &Classifier{
		queue:    cfg.Queue,
		guard:    cfg.Guard,
		clk:      cfg.Clock,
		timeout:  cfg.ReceiveTimeout,
		operator: cfg.Operator,
	}
	if cfg.Bus != nil {
		var err error
		if c.emClassified, err = cfg.Bus.Emitter(new(types.EvtClassified)); err != nil {
			return nil, err
		}
		if c.emIdle, err = cfg.Bus.Emitter(new(types.EvtClassifierIdle)); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Classify 对单个快照给出结论
func (c *Classifier) Classify(ctx context.Context, snap types.LinkSnapshot) types.Classification {
	result := types.Classification{Snapshot: snap, Verdict: types.VerdictAlert}

	ok, err := c.guard.IsTrusted(ctx, snap.Identifier)
	switch {
	case err != nil:
		result.FailClosed = true
		c.failClosed.Add(1)
		c.alerts.Add(1)
		logger.Warn("白名单不可用，按未授权网络告警",
			"ssid", snap.Identifier,
			"operator", c.operator,
			"err", err)
	case ok:
		result.Verdict = types.VerdictTrusted
		c.trusted.Add(1)
		logger.Info("网络可信", "ssid", snap.Identifier, "rssi", snap.SignalStrength)
	default:
		c.alerts.Add(1)
		logger.Warn("告警：未授权网络",
			"ssid", snap.Identifier,
			"rssi", snap.SignalStrength,
			"operator", c.operator)
	}

	if c.emClassified != nil {
		if err := c.emClassified.Emit(types.EvtClassified{
			BaseEvent:      types.NewBaseEvent(types.EventClassified, c.clk.Now()),
			Classification: result,
			Operator:       c.operator,
		}); err != nil {
			logger.Debug("事件发射失败", "err", err)
		}
	}
	return result
}

// Step 等待一个快照并分类
//
// 超时返回 ok=false 并报告空闲，ctx 结束时同样返回 ok=false。
func (c *Classifier) Step(ctx context.Context) (types.Classification, bool) {
	snap, ok := c.queue.Receive(ctx, c.timeout)
	if !ok {
		if ctx.Err() != nil {
			return types.Classification{}, false
		}
		c.idle.Add(1)
		logger.Debug("接收超时，窗口内没有样本", "timeout", c.timeout)
		if c.emIdle != nil {
			if err := c.emIdle.Emit(types.EvtClassifierIdle{
				BaseEvent: types.NewBaseEvent(types.EventClassifierIdle, c.clk.Now()),
				Waited:    c.timeout,
			}); err != nil {
				logger.Debug("事件发射失败", "err", err)
			}
		}
		return types.Classification{}, false
	}
	return c.Classify(ctx, snap), true
}

// Stats 分类统计
type Stats struct {
	Trusted    uint64
	Alerts     uint64
	FailClosed uint64
	Idle       uint64
}

// Stats 返回分类统计
func (c *Classifier) Stats() Stats {
	return Stats{
		Trusted:    c.trusted.Load(),
		Alerts:     c.alerts.Load(),
		FailClosed: c.failClosed.Load(),
		Idle:       c.idle.Load(),
	}
}

// ============================================================================
// 生命周期
// ============================================================================

// Start 启动分类循环
func (c *Classifier) Start(_ context.Context) error {
	if c.closed.Load() {
		return errors.New("classifier: closed")
	}
	if !c.running.CompareAndSwap(false, true) {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.wg.Add(1)
	go c.run(ctx)

	logger.Info("安全分类器已启动", "receiveTimeout", c.timeout, "operator", c.operator)
	return nil
}

// Stop 停止分类循环
func (c *Classifier) Stop() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	for _, em := range []pkgif.Emitter{c.emClassified, c.emIdle} {
		if em != nil {
			em.Close()
		}
	}
	c.running.Store(false)
	logger.Info("安全分类器已停止")
	return nil
}

func (c *Classifier) run(ctx context.Context) {
	defer c.wg.Done()
	for ctx.Err() == nil {
		c.Step(ctx)
	}
}
