package queue

import (
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

	Queue       *Queue
	SampleQueue pkgif.SampleQueue
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("queue",
		fx.Provide(ProvideQueue),
	)
}

// ProvideQueue 按配置容量创建队列
func ProvideQueue(p Params) Result {
	q := New(p.Config.Sampler.QueueCapacity, p.Clock)
	return Result{Queue: q, SampleQueue: q}
}
