// Package config 提供统一的配置管理
package config

import (
	"fmt"
	"time"
)

// SimConfig 模拟网络栈配置
//
// 仅用于命令行演示和集成测试，真实设备由驱动实现 NetworkStack。
type SimConfig struct {
	// Identifier 模拟接入点的网络标识符
	// 默认值: "gigi5g"
	Identifier string `json:"identifier" yaml:"identifier"`

	// SignalStrength 模拟信号强度（dBm）
	// 默认值: -55
	SignalStrength int8 `json:"signal_strength" yaml:"signal_strength" split_words:"true"`

	// AssociationDelay 关联请求到结果事件的延迟
	// 默认值: 500ms
	AssociationDelay Duration `json:"association_delay" yaml:"association_delay" split_words:"true"`

	// FailAttempts 前 N 次关联失败（投递 LinkLost）
	FailAttempts int `json:"fail_attempts" yaml:"fail_attempts" split_words:"true"`
}

// DefaultSimConfig 返回默认的模拟配置
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Identifier:       "gigi5g",
		SignalStrength:   -55,
		AssociationDelay: Duration(500 * time.Millisecond),
	}
}

// Validate 验证模拟配置
func (c *SimConfig) Validate() error {
	if c.AssociationDelay < 0 {
		return fmt.Errorf("sim: association_delay must be >= 0")
	}
	if c.FailAttempts < 0 {
		return fmt.Errorf("sim: fail_attempts must be >= 0")
	}
	return nil
}
