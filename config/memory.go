// Package config 提供统一的配置管理
package config

import "fmt"

// MemoryConfig 堆内存守护配置
type MemoryConfig struct {
	// LimitBytes 堆内存上限，0 表示不启用
	LimitBytes uint64 `json:"limit_bytes" yaml:"limit_bytes" split_words:"true"`

	// MinGOGC 守护器允许的最小 GOGC
	// 默认值: 25
	MinGOGC int `json:"min_gogc" yaml:"min_gogc" split_words:"true"`
}

// DefaultMemoryConfig 返回默认的内存配置
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		MinGOGC: 25,
	}
}

// Validate 验证内存配置
func (c *MemoryConfig) Validate() error {
	if c.LimitBytes > 0 && c.MinGOGC <= 0 {
		return fmt.Errorf("memory: min_gogc must be > 0 when limit_bytes is set")
	}
	return nil
}
