// Package config 提供统一的配置管理
package config

import "fmt"

// 事件流格式
const (
	// StreamText 每个事件一行文本
	StreamText = "text"
	// StreamJSON 每个事件一行 JSON
	StreamJSON = "json"
)

// ReporterConfig 事件流输出配置
//
// 事件流写到标准输出，与写到标准错误的日志分开。
type ReporterConfig struct {
	// Enabled 是否输出事件流
	// 默认值: true
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Format 输出格式: text / json
	// 默认值: text
	Format string `json:"format" yaml:"format"`
}

// DefaultReporterConfig 返回默认的事件流配置
func DefaultReporterConfig() ReporterConfig {
	return ReporterConfig{
		Enabled: true,
		Format:  StreamText,
	}
}

// Validate 验证事件流配置
func (c *ReporterConfig) Validate() error {
	switch c.Format {
	case StreamText, StreamJSON:
		return nil
	default:
		return fmt.Errorf("reporter: unknown format %q", c.Format)
	}
}
