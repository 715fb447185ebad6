package reporter

import (
	"context"
	"io"

	"go.uber.org/fx"

	"github.com/dep2p/go-linkguard/config"
	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
)

// StreamWriter 事件流输出目标
type StreamWriter struct {
	io.Writer
}

// Params 模块输入
type Params struct {
	fx.In

	Config   *config.Config
	EventBus pkgif.EventBus
	Writer   StreamWriter
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("reporter",
		fx.Provide(ProvideReporter),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideReporter 构造事件流输出，未启用时返回 nil
func ProvideReporter(p Params) (*Reporter, error) {
	if !p.Config.Reporter.Enabled || p.Writer.Writer == nil {
		return nil, nil
	}
	return New(p.Writer.Writer, p.Config.Reporter.Format, p.EventBus)
}

func registerLifecycle(lc fx.Lifecycle, cfg *config.Config, r *Reporter) {
	if r == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := r.Banner(cfg.Classifier.Operator, cfg.AllowList.Networks, cfg.Link.MaxRetry); err != nil {
				logger.Warn("启动横幅写入失败", "err", err)
			}
			return r.Start(ctx)
		},
		OnStop: func(context.Context) error {
			return r.Stop()
		},
	})
}
