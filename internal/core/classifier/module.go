package classifier

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
	Queue    pkgif.SampleQueue
	Guard    pkgif.TrustChecker
	EventBus pkgif.EventBus
	Clock    clock.Clock
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("classifier",
		fx.Provide(ProvideClassifier),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideClassifier 构造分类器
func ProvideClassifier(p Params) (*Classifier, error) {
	return New(Config{
		Queue:          p.Queue,
		Guard:          p.Guard,
		Bus:            p.EventBus,
		Clock:          p.Clock,
		ReceiveTimeout: p.Config.Classifier.ReceiveTimeout.Duration(),
		Operator:       p.Config.Classifier.Operator,
	})
}

func registerLifecycle(lc fx.Lifecycle, c *Classifier) {
	lc.Append(fx.Hook{
		OnStart: c.Start,
		OnStop: func(context.Context) error {
			return c.Stop()
		},
	})
}
