package memguard

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-linkguard/config"
)

// Module 返回 Fx 模块
//
// 守护器与其他组件没有依赖关系，通过 Invoke 强制构造并挂到生命周期上。
func Module() fx.Option {
	return fx.Module("memguard",
		fx.Provide(ProvideGuard),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideGuard 按配置创建守护器
func ProvideGuard(cfg *config.Config) *Guard {
	return New(cfg.Memory.LimitBytes, cfg.Memory.MinGOGC)
}

func registerLifecycle(lc fx.Lifecycle, g *Guard) {
	lc.Append(fx.Hook{
		OnStart: g.Start,
		OnStop: func(context.Context) error {
			return g.Stop()
		},
	})
}
