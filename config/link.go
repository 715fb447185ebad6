// Package config 提供统一的配置管理
package config

import "fmt"

// LinkConfig 连接状态机配置
type LinkConfig struct {
	// MaxRetry 链路丢失后的最大重连次数
	// 达到上限后停留在未连接状态，不再自动重连
	// 默认值: 10
	MaxRetry int `json:"max_retry" yaml:"max_retry" split_words:"true"`
}

// DefaultLinkConfig 返回默认的连接配置
func DefaultLinkConfig() LinkConfig {
	return LinkConfig{
		MaxRetry: 10,
	}
}

// Validate 验证连接配置
func (c *LinkConfig) Validate() error {
	if c.MaxRetry < 0 {
		return fmt.Errorf("link: max_retry must be >= 0, got %d", c.MaxRetry)
	}
	return nil
}
