package simlink

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-linkguard/config"
	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
)

// Params 模块输入
type Params struct {
	fx.In

	Config *config.Config
	Clock  clock.Clock
}

// Result 模块输出
type Result struct {
	fx.Out

	Stack        *Stack
	NetworkStack pkgif.NetworkStack
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("simlink",
		fx.Provide(ProvideStack),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideStack 按配置创建模拟网络栈
func ProvideStack(p Params) Result {
	s := New(p.Config.Sim, p.Clock)
	return Result{Stack: s, NetworkStack: s}
}

func registerLifecycle(lc fx.Lifecycle, s *Stack) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop: func(context.Context) error {
			return s.Stop()
		},
	})
}
