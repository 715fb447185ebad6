package sampler

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

	Config   *config.Config
	Stack    pkgif.NetworkStack
	State    pkgif.ConnectionStateReader
	Queue    pkgif.SampleQueue
	EventBus pkgif.EventBus
	Clock    clock.Clock
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("sampler",
		fx.Provide(ProvideSampler),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideSampler 构造采样器
func ProvideSampler(p Params) (*Sampler, error) {
	return New(Config{
		Stack:  p.Stack,
		State:  p.State,
		Queue:  p.Queue,
		Bus:    p.EventBus,
		Clock:  p.Clock,
		Period: p.Config.Sampler.Period.Duration(),
	})
}

func registerLifecycle(lc fx.Lifecycle, s *Sampler) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop: func(context.Context) error {
			return s.Stop()
		},
	})
}
