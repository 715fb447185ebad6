package linkguard

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-linkguard/config"
	"github.com/dep2p/go-linkguard/internal/core/classifier"
	"github.com/dep2p/go-linkguard/internal/driver/simlink"
	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
	"github.com/dep2p/go-linkguard/pkg/lib/log"
	"github.com/dep2p/go-linkguard/pkg/types"
)

var logger = log.Logger("linkguard")

// startTimeout Fx 应用启动超时
const startTimeout = 15 * time.Second

// ════════════════════════════════════════════════════════════════════════════
//                              状态定义
// ════════════════════════════════════════════════════════════════════════════

// State 监控器状态
type State int

const (
	// StateIdle 已创建，未启动
	StateIdle State = iota
	// StateRunning 运行中
	StateRunning
	// StateStopped 已停止，不可重新启动
	StateStopped
)

// String 返回状态的字符串表示
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              Supervisor
// ════════════════════════════════════════════════════════════════════════════

// Supervisor 无线连接监控器
//
// 持有一个 Fx 应用，Start 启动全部任务，Stop 按逆序停止。
// 停止后不能再次启动，需要重新 New。
type Supervisor struct {
	opts *options
	app  *fx.App
	c    components

	mu    sync.Mutex
	state State
}

// New 创建监控器
//
// 示例：
//
//	sup, err := linkguard.New(
//	    linkguard.WithConfig(cfg),
//	    linkguard.WithStreamWriter(os.Stdout),
//	)
func New(opts ...Option) (*Supervisor, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	s := &Supervisor{opts: o}

	var err error
	s.app, err = buildFxApp(o, s)
	if err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	return s, nil
}

// Start 启动监控器
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateRunning:
		return ErrAlreadyStarted
	case StateStopped:
		return ErrSupervisorClosed
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()

	if err := s.app.Start(startCtx); err != nil {
		s.state = StateStopped
		logger.Error("监控器启动失败", "error", err)
		return fmt.Errorf("start: %w", err)
	}

	s.state = StateRunning
	cfg := s.opts.config
	logger.Info("监控器已启动",
		"maxRetry", cfg.Link.MaxRetry,
		"trusted", len(cfg.AllowList.Networks),
		"watchdog", cfg.Liveness.Watchdog)
	return nil
}

// Stop 停止监控器
func (s *Supervisor) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateIdle:
		return ErrNotStarted
	case StateStopped:
		return ErrSupervisorClosed
	}

	s.state = StateStopped
	if err := s.app.Stop(ctx); err != nil {
		logger.Error("停止监控器失败", "error", err)
		return fmt.Errorf("stop fx app: %w", err)
	}
	logger.Info("监控器已停止")
	return nil
}

// State 返回监控器状态
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ════════════════════════════════════════════════════════════════════════════
//                              查询接口
// ════════════════════════════════════════════════════════════════════════════

// Config 返回生效的配置
func (s *Supervisor) Config() *config.Config {
	return s.opts.config
}

// Status 返回最近发布的连接状态
func (s *Supervisor) Status() types.ConnectionStatus {
	return s.c.Machine.Status()
}

// Connected 是否已连接
func (s *Supervisor) Connected() bool {
	return s.c.Machine.Connected()
}

// IsTrusted 查询标识符是否在白名单中
func (s *Supervisor) IsTrusted(ctx context.Context, identifier string) (bool, error) {
	return s.c.Guard.IsTrusted(ctx, identifier)
}

// Subscribe 订阅监控事件
//
// eventType 取 types.EvtXxx 的指针或其切片，types.AllEvents() 订阅全部。
// 订阅者缓冲区满时事件被丢弃，不会阻塞监控任务。
func (s *Supervisor) Subscribe(eventType interface{}, opts ...pkgif.SubscriptionOpt) (pkgif.Subscription, error) {
	return s.c.Bus.Subscribe(eventType, opts...)
}

// MetricsHandler 返回 Prometheus 指标的 HTTP handler
func (s *Supervisor) MetricsHandler() http.Handler {
	return s.c.Collector.Handler()
}

// SimStack 返回模拟网络栈，使用外部网络栈时返回 nil
func (s *Supervisor) SimStack() *simlink.Stack {
	return s.c.Sim
}

// Stats 监控器运行统计
type Stats struct {
	Status types.ConnectionStatus

	// 状态机
	LinkEvents          uint64
	AssociationAttempts uint64

	// 采样与队列
	SamplerTicks     uint64
	QueueLen         int
	QueueCap         int
	SamplesPublished uint64
	SamplesDropped   uint64

	// 分类
	Classifier classifier.Stats

	// 存活
	Heartbeats        uint64
	HeartbeatFailures uint64
	MaxHeartbeatGap   time.Duration
}

// Stats 返回运行统计快照
func (s *Supervisor) Stats() Stats {
	processed, attempts := s.c.Machine.Stats()
	return Stats{
		Status:              s.c.Machine.Status(),
		LinkEvents:          processed,
		AssociationAttempts: attempts,
		SamplerTicks:        s.c.Sampler.Ticks(),
		QueueLen:            s.c.Queue.Len(),
		QueueCap:            s.c.Queue.Cap(),
		SamplesPublished:    s.c.Queue.Published(),
		SamplesDropped:      s.c.Queue.Dropped(),
		Classifier:          s.c.Classifier.Stats(),
		Heartbeats:          s.c.Liveness.Seq(),
		HeartbeatFailures:   s.c.Liveness.Failures(),
		MaxHeartbeatGap:     s.c.Liveness.MaxGap(),
	}
}
