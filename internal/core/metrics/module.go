package metrics

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-linkguard/config"
	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
)

// Params 指标模块依赖
type Params struct {
	fx.In

	Config   *config.Config
	Registry *prometheus.Registry
	EventBus pkgif.EventBus
	Clock    clock.Clock
}

// Module 是 metrics 的 Fx 模块
//
// 指标始终收集；metrics.enabled 只决定是否对外暴露 HTTP 端点。
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideCollector),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideCollector 创建并注册指标
func ProvideCollector(p Params) (*Collector, error) {
	return NewCollector(p.Registry, p.Config.Metrics.Namespace, p.EventBus, p.Clock)
}

func registerLifecycle(lc fx.Lifecycle, c *Collector) {
	lc.Append(fx.Hook{
		OnStart: c.Start,
		OnStop: func(context.Context) error {
			return c.Stop()
		},
	})
}
