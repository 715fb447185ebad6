package watchdog

import (
	"context"
	"fmt"

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
	Clock    clock.Clock
	EventBus pkgif.EventBus
	OnExpire ExpiryFunc `optional:"true"`
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("watchdog",
		fx.Provide(ProvideWatchdog),
	)
}

// ProvideWatchdog 按配置选择看门狗实现
func ProvideWatchdog(lc fx.Lifecycle, p Params) (pkgif.Watchdog, error) {
	cfg := p.Config.Liveness
	switch cfg.Watchdog {
	case config.WatchdogSoft, "":
		soft := NewSoft(cfg.WatchdogTimeout.Duration(), p.Clock, p.OnExpire, p.EventBus)
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				soft.Stop()
				return nil
			},
		})
		return soft, nil
	case config.WatchdogSystemd:
		return NewSystemd(cfg.HeartbeatPeriod.Duration()), nil
	default:
		return nil, fmt.Errorf("unknown watchdog %q", cfg.Watchdog)
	}
}
