package allowlist

import (
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

	Config *config.Config
}

// Result 模块输出
type Result struct {
	fx.Out

	Guard        *Guard
	TrustChecker pkgif.TrustChecker
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("allowlist",
		fx.Provide(ProvideGuard),
	)
}

// ProvideGuard 从配置构造白名单守卫
func ProvideGuard(p Params) (Result, error) {
	cfg := p.Config.AllowList
	g, err := New(cfg.Networks, cfg.LockTimeout.Duration())
	if err != nil {
		return Result{}, err
	}
	logger.Info("白名单已加载", "networks", len(g.networks), "lockTimeout", g.lockTimeout)
	return Result{Guard: g, TrustChecker: g}, nil
}
