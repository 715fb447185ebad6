// Package config 提供统一的配置管理
package config

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// TelemetryConfig Redis 遥测通道配置
//
// 事件以 JSON 记录发布到 Redis Pub/Sub 频道，不做持久化。
type TelemetryConfig struct {
	// Enabled 是否启用遥测发布
	// 默认值: false
	Enabled bool `json:"enabled" yaml:"enabled"`

	// RedisAddr Redis 地址 host:port
	RedisAddr string `json:"redis_addr" yaml:"redis_addr" split_words:"true"`

	// RedisPassword Redis 密码
	RedisPassword string `json:"redis_password" yaml:"redis_password" split_words:"true"`

	// RedisDB Redis 数据库编号
	RedisDB int `json:"redis_db" yaml:"redis_db" split_words:"true"`

	// Channel 发布频道
	// 默认值: "linkguard:events"
	Channel string `json:"channel" yaml:"channel"`

	// PublishTimeout 单次发布超时
	// 默认值: 500ms
	PublishTimeout Duration `json:"publish_timeout" yaml:"publish_timeout" split_words:"true"`
}

// DefaultTelemetryConfig 返回默认的遥测配置
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:        false,
		RedisAddr:      "127.0.0.1:6379",
		Channel:        "linkguard:events",
		PublishTimeout: Duration(500 * time.Millisecond),
	}
}

// Validate 验证遥测配置
func (c *TelemetryConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	var err error
	if c.RedisAddr == "" {
		err = multierr.Append(err, fmt.Errorf("telemetry: redis_addr is required when enabled"))
	}
	if c.Channel == "" {
		err = multierr.Append(err, fmt.Errorf("telemetry: channel is required when enabled"))
	}
	if c.PublishTimeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("telemetry: publish_timeout must be > 0"))
	}
	return err
}
