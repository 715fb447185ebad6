package linkguard

import (
	"io"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/dep2p/go-linkguard/config"
	"github.com/dep2p/go-linkguard/internal/core/watchdog"
	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	config *config.Config

	// 协作方，未设置时分别使用模拟网络栈和配置选定的看门狗
	stack    pkgif.NetworkStack
	watchdog pkgif.Watchdog
	onExpire watchdog.ExpiryFunc

	clock    clock.Clock
	registry *prometheus.Registry
	redis    redis.UniversalClient
	stream   io.Writer

	// 用户扩展
	fxOptions []fx.Option
}

func newOptions() *options {
	return &options{
		config:   config.NewConfig(),
		clock:    clock.New(),
		registry: prometheus.NewRegistry(),
	}
}

// WithConfig 使用完整配置
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return ErrNilConfig
		}
		o.config = cfg
		return nil
	}
}

// WithNetworkStack 使用指定的网络栈
//
// 未设置时使用 simlink 模拟网络栈（配置见 config.SimConfig）。
func WithNetworkStack(stack pkgif.NetworkStack) Option {
	return func(o *options) error {
		if stack == nil {
			return ErrNetworkStackRequired
		}
		o.stack = stack
		return nil
	}
}

// WithWatchdog 使用指定的看门狗，覆盖 liveness.watchdog 配置
func WithWatchdog(wd pkgif.Watchdog) Option {
	return func(o *options) error {
		if wd == nil {
			return ErrWatchdogRequired
		}
		o.watchdog = wd
		return nil
	}
}

// WithExpiryHandler 设置软件看门狗超时回调
//
// 真实设备上看门狗超时会重启整机；进程内的软件看门狗通过回调通知上层，
// 通常由上层退出进程交给进程管理器重启。
func WithExpiryHandler(fn func()) Option {
	return func(o *options) error {
		o.onExpire = fn
		return nil
	}
}

// WithClock 注入时钟，测试中使用 clock.NewMock()
func WithClock(clk clock.Clock) Option {
	return func(o *options) error {
		if clk != nil {
			o.clock = clk
		}
		return nil
	}
}

// WithRegistry 使用指定的 Prometheus registry
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) error {
		if reg != nil {
			o.registry = reg
		}
		return nil
	}
}

// WithRedisClient 使用已有的 Redis 客户端发布遥测
//
// 仅在 telemetry.enabled 为 true 时生效，客户端的关闭由调用方负责。
func WithRedisClient(client redis.UniversalClient) Option {
	return func(o *options) error {
		o.redis = client
		return nil
	}
}

// WithStreamWriter 设置逐行事件流的输出目标
//
// 未设置时不输出事件流。
func WithStreamWriter(w io.Writer) Option {
	return func(o *options) error {
		o.stream = w
		return nil
	}
}

// WithFxOptions 追加自定义 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOptions = append(o.fxOptions, opts...)
		return nil
	}
}
