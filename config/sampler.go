// Package config 提供统一的配置管理
package config

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// SamplerConfig 链路采样配置
type SamplerConfig struct {
	// Period 采样周期
	// 默认值: 5000ms
	Period Duration `json:"period" yaml:"period"`

	// QueueCapacity 采样队列容量，队列满时丢弃最新样本
	// 默认值: 10
	QueueCapacity int `json:"queue_capacity" yaml:"queue_capacity" split_words:"true"`
}

// DefaultSamplerConfig 返回默认的采样配置
func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		Period:        Duration(5 * time.Second),
		QueueCapacity: 10,
	}
}

// Validate 验证采样配置
func (c *SamplerConfig) Validate() error {
	var err error
	if c.Period <= 0 {
		err = multierr.Append(err, fmt.Errorf("sampler: period must be > 0"))
	}
	if c.QueueCapacity < 1 {
		err = multierr.Append(err, fmt.Errorf("sampler: queue_capacity must be >= 1, got %d", c.QueueCapacity))
	}
	return err
}
