package telemetry

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/dep2p/go-linkguard/config"
	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
)

// Params 模块输入
type Params struct {
	fx.In

	Config   *config.Config
	EventBus pkgif.EventBus
	// Client 外部提供的 Redis 客户端，生命周期由提供方负责
	Client redis.UniversalClient `optional:"true"`
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("telemetry",
		fx.Provide(ProvidePublisher),
		// 无其他模块依赖发布器，显式触发构造
		fx.Invoke(func(*Publisher) {}),
	)
}

// ProvidePublisher 未启用遥测时返回 nil
func ProvidePublisher(lc fx.Lifecycle, p Params) (*Publisher, error) {
	cfg := p.Config.Telemetry
	if !cfg.Enabled {
		return nil, nil
	}

	client := p.Client
	owned := false
	if client == nil {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		owned = true
	}

	pub, err := New(client, cfg.Channel, cfg.PublishTimeout.Duration(), p.EventBus)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: pub.Start,
		OnStop: func(context.Context) error {
			err := pub.Stop()
			if owned {
				if cerr := client.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}
			return err
		},
	})
	return pub, nil
}
