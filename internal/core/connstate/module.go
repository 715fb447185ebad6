package connstate

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-linkguard/config"
	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params 模块输入
type Params struct {
	fx.In

	Config   *config.Config
	Stack    pkgif.NetworkStack
	EventBus pkgif.EventBus
	Clock    clock.Clock
}

// Result 模块输出
type Result struct {
	fx.Out

	Machine *Machine
	Reader  pkgif.ConnectionStateReader
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("connstate",
		fx.Provide(ProvideMachine),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideMachine 构造状态机
func ProvideMachine(p Params) (Result, error) {
	m, err := New(p.Stack, p.Config.Link.MaxRetry,
		WithClock(p.Clock),
		WithEventBus(p.EventBus),
	)
	if err != nil {
		return Result{}, err
	}
	return Result{Machine: m, Reader: m}, nil
}

func registerLifecycle(lc fx.Lifecycle, m *Machine) {
	lc.Append(fx.Hook{
		OnStart: m.Start,
		OnStop: func(context.Context) error {
			return m.Stop()
		},
	})
}
