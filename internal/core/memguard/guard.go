// Package memguard 限制监控进程的堆内存
//
// 监控器需要在受限设备上长期运行，堆守护器在每次 GC 后按水位线
// 动态调整 GOGC，使堆占用保持在配置上限以内。上限为 0 时不启用。
package memguard

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/raulk/go-watchdog"

	"github.com/dep2p/go-linkguard/pkg/lib/log"
)

var logger = log.Logger("core/memguard")

// DefaultMinGOGC 默认最小 GOGC
const DefaultMinGOGC = 25

// watermarks 堆占用水位线（相对上限的比例）
var watermarks = []float64{0.50, 0.75, 0.90, 0.95, 0.99}

// Guard 堆内存守护器
//
// go-watchdog 是进程级单例，同一时刻只能有一个 Guard 处于运行状态。
type Guard struct {
	limit   uint64
	minGOGC int

	mu         sync.Mutex
	stopFn     func()
	unregister func()

	gcs atomic.Uint64
}

// New 创建守护器
func New(limit uint64, minGOGC int) *Guard {
	if minGOGC <= 0 {
		minGOGC = DefaultMinGOGC
	}
	return &Guard{limit: limit, minGOGC: minGOGC}
}

// Enabled 是否配置了堆上限
func (g *Guard) Enabled() bool {
	return g.limit > 0
}

// Limit 返回堆上限
func (g *Guard) Limit() uint64 {
	return g.limit
}

// GCs 返回守护器启动以来观察到的 GC 次数
func (g *Guard) GCs() uint64 {
	return g.gcs.Load()
}

// Running 是否正在运行
func (g *Guard) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stopFn != nil
}

// Start 启动堆守护
func (g *Guard) Start(_ context.Context) error {
	if !g.Enabled() {
		logger.Debug("未配置堆上限，跳过内存守护")
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopFn != nil {
		return nil
	}

	watchdog.Logger = logAdapter{}
	err, stopFn := watchdog.HeapDriven(g.limit, g.minGOGC, watchdog.NewWatermarkPolicy(watermarks...))
	if err != nil {
		return fmt.Errorf("start heap watchdog: %w", err)
	}
	g.stopFn = stopFn
	g.unregister = watchdog.RegisterPostGCNotifee(func() {
		g.gcs.Add(1)
	})

	logger.Info("内存守护已启动", "limitBytes", g.limit, "minGOGC", g.minGOGC)
	return nil
}

// Stop 停止堆守护
func (g *Guard) Stop() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopFn == nil {
		return nil
	}

	g.unregister()
	g.stopFn()
	g.stopFn = nil
	g.unregister = nil

	logger.Info("内存守护已停止", "gcs", g.gcs.Load())
	return nil
}

// ============================================================================
//                              日志适配
// ============================================================================

// logAdapter 将 go-watchdog 的格式化日志转到组件 logger
type logAdapter struct{}

func (logAdapter) Debugf(template string, args ...interface{}) {
	logger.Debug(fmt.Sprintf(template, args...))
}

func (logAdapter) Infof(template string, args ...interface{}) {
	logger.Debug(fmt.Sprintf(template, args...))
}

func (logAdapter) Warnf(template string, args ...interface{}) {
	logger.Warn(fmt.Sprintf(template, args...))
}

func (logAdapter) Errorf(template string, args ...interface{}) {
	logger.Error(fmt.Sprintf(template, args...))
}
