// Package config 提供统一的配置管理
package config

import (
	"github.com/dep2p/go-linkguard/pkg/lib/log"
)

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别: debug / info / warn / error
	// 默认值: info
	Level string `json:"level" yaml:"level"`

	// Format 输出格式: text / json
	// 默认值: text
	Format string `json:"format" yaml:"format"`

	// File 日志文件路径，空表示输出到 stderr
	File string `json:"file" yaml:"file"`
}

// DefaultLogConfig 返回默认的日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: log.FormatText,
	}
}

// Validate 验证日志配置
func (c *LogConfig) Validate() error {
	_, err := log.ParseLevel(c.Level)
	return err
}
