package liveness

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-linkguard/config"
	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
)

// ============================================================================
//                              模块输入依赖
// ============================================================================

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	Config   *config.Config
	Watchdog pkgif.Watchdog
	EventBus pkgif.EventBus
	Clock    clock.Clock
}

// ============================================================================
//                              模块定义
// ============================================================================

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("liveness",
		fx.Provide(ProvideReporter),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideReporter 提供存活上报器
func ProvideReporter(input ModuleInput) (*Reporter, error) {
	return NewReporter(
		input.Watchdog,
		input.Config.Liveness.HeartbeatPeriod.Duration(),
		input.Clock,
		input.EventBus,
	)
}

// registerLifecycle 注册生命周期
func registerLifecycle(lc fx.Lifecycle, r *Reporter) {
	lc.Append(fx.Hook{
		OnStart: r.Start,
		OnStop: func(_ context.Context) error {
			return r.Stop()
		},
	})
}
