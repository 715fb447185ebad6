package linkguard

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-linkguard/internal/core/allowlist"
	"github.com/dep2p/go-linkguard/internal/core/classifier"
	"github.com/dep2p/go-linkguard/internal/core/connstate"
	"github.com/dep2p/go-linkguard/internal/core/eventbus"
	"github.com/dep2p/go-linkguard/internal/core/liveness"
	"github.com/dep2p/go-linkguard/internal/core/memguard"
	"github.com/dep2p/go-linkguard/internal/core/metrics"
	"github.com/dep2p/go-linkguard/internal/core/queue"
	"github.com/dep2p/go-linkguard/internal/core/reporter"
	"github.com/dep2p/go-linkguard/internal/core/sampler"
	"github.com/dep2p/go-linkguard/internal/core/telemetry"
	"github.com/dep2p/go-linkguard/internal/core/watchdog"
	"github.com/dep2p/go-linkguard/internal/driver/simlink"
	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
)

// buildFxApp 构建 Fx 应用
//
// 生命周期钩子按模块顺序启动、逆序停止：
//  1. 事件消费者（metrics、reporter、telemetry）先订阅，不漏掉启动期事件
//  2. 连接状态机先于网络栈启动，LinkStarted 由状态机消费
//  3. 采样、分类、存活上报最后启动，停止时最先退出
func buildFxApp(o *options, s *Supervisor) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置验证（前置）
	// ════════════════════════════════════════════════════════════════════════
	if err := o.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 基础依赖注入
	// ════════════════════════════════════════════════════════════════════════
	modules := []fx.Option{
		fx.Supply(o.config),
		fx.Supply(o.registry),
		fx.Supply(reporter.StreamWriter{Writer: o.stream}),
		fx.Provide(func() clock.Clock { return o.clock }),

		eventbus.Module(),
		allowlist.Module(),
		queue.Module(),
	}

	if o.onExpire != nil {
		modules = append(modules, fx.Provide(func() watchdog.ExpiryFunc { return o.onExpire }))
	}
	if o.redis != nil {
		modules = append(modules, fx.Provide(func() redis.UniversalClient { return o.redis }))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. 事件消费者
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		metrics.Module(),
		reporter.Module(),
		telemetry.Module(),
		memguard.Module(),
	)

	// ════════════════════════════════════════════════════════════════════════
	// 4. 连接状态机与网络栈
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, connstate.Module())
	if o.stack != nil {
		modules = append(modules, fx.Provide(func() pkgif.NetworkStack { return o.stack }))
	} else {
		modules = append(modules, simlink.Module())
	}

	// ════════════════════════════════════════════════════════════════════════
	// 5. 采样、分类与存活上报
	// ════════════════════════════════════════════════════════════════════════
	if o.watchdog != nil {
		modules = append(modules, fx.Provide(func() pkgif.Watchdog { return o.watchdog }))
	} else {
		modules = append(modules, watchdog.Module())
	}
	modules = append(modules,
		sampler.Module(),
		classifier.Module(),
		liveness.Module(),
	)

	// ════════════════════════════════════════════════════════════════════════
	// 6. 用户扩展（Fx Options）
	// ════════════════════════════════════════════════════════════════════════
	if len(o.fxOptions) > 0 {
		modules = append(modules, o.fxOptions...)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 7. Supervisor 组件注入
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, fx.Invoke(func(c components) {
		s.c = c
	}))

	// ════════════════════════════════════════════════════════════════════════
	// 8. Fx 配置
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		// 禁用 Fx 日志输出（避免干扰事件流）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return app, nil
}

// components Supervisor 持有的组件引用
type components struct {
	fx.In

	Bus        pkgif.EventBus
	Machine    *connstate.Machine
	Guard      *allowlist.Guard
	Queue      *queue.Queue
	Sampler    *sampler.Sampler
	Classifier *classifier.Classifier
	Liveness   *liveness.Reporter
	Watchdog   pkgif.Watchdog
	Collector  *metrics.Collector
	Memory     *memguard.Guard

	// 可选组件：外部网络栈时没有 Sim，未启用时 Reporter/Publisher 为 nil
	Sim       *simlink.Stack       `optional:"true"`
	Reporter  *reporter.Reporter   `optional:"true"`
	Publisher *telemetry.Publisher `optional:"true"`
}
