// Package config 提供统一的配置管理
package config

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// 看门狗实现
const (
	// WatchdogSoft 进程内软件看门狗
	WatchdogSoft = "soft"
	// WatchdogSystemd systemd 服务看门狗（sd_notify WATCHDOG=1）
	WatchdogSystemd = "systemd"
)

// LivenessConfig 存活上报配置
type LivenessConfig struct {
	// HeartbeatPeriod 心跳周期，必须远小于看门狗超时
	// 默认值: 2000ms
	HeartbeatPeriod Duration `json:"heartbeat_period" yaml:"heartbeat_period" split_words:"true"`

	// WatchdogTimeout 看门狗超时
	// 默认值: 8000ms
	WatchdogTimeout Duration `json:"watchdog_timeout" yaml:"watchdog_timeout" split_words:"true"`

	// Watchdog 看门狗实现: soft / systemd
	// 默认值: soft
	Watchdog string `json:"watchdog" yaml:"watchdog"`
}

// DefaultLivenessConfig 返回默认的存活配置
func DefaultLivenessConfig() LivenessConfig {
	return LivenessConfig{
		HeartbeatPeriod: Duration(2 * time.Second),
		WatchdogTimeout: Duration(8 * time.Second),
		Watchdog:        WatchdogSoft,
	}
}

// Validate 验证存活配置
func (c *LivenessConfig) Validate() error {
	var err error
	if c.HeartbeatPeriod <= 0 {
		err = multierr.Append(err, fmt.Errorf("liveness: heartbeat_period must be > 0"))
	}
	if c.WatchdogTimeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("liveness: watchdog_timeout must be > 0"))
	}
	switch c.Watchdog {
	case WatchdogSoft, WatchdogSystemd:
	default:
		err = multierr.Append(err, fmt.Errorf("liveness: unknown watchdog %q", c.Watchdog))
	}
	return err
}
