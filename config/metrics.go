// Package config 提供统一的配置管理
package config

import "fmt"

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	// Enabled 是否暴露 /metrics
	// 默认值: true
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Addr 指标 HTTP 监听地址
	// 默认值: ":9100"
	Addr string `json:"addr" yaml:"addr"`

	// Namespace 指标命名空间
	// 默认值: "linkguard"
	Namespace string `json:"namespace" yaml:"namespace"`
}

// DefaultMetricsConfig 返回默认的指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   true,
		Addr:      ":9100",
		Namespace: "linkguard",
	}
}

// Validate 验证指标配置
func (c *MetricsConfig) Validate() error {
	if c.Enabled && c.Addr == "" {
		return fmt.Errorf("metrics: addr is required when enabled")
	}
	return nil
}
