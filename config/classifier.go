// Package config 提供统一的配置管理
package config

import (
	"fmt"
	"time"
)

// ClassifierConfig 安全分类器配置
type ClassifierConfig struct {
	// ReceiveTimeout 等待样本的超时，必须大于采样周期
	// 默认值: 6000ms
	ReceiveTimeout Duration `json:"receive_timeout" yaml:"receive_timeout" split_words:"true"`

	// Operator 告警责任人，随告警事件输出
	Operator string `json:"operator" yaml:"operator"`
}

// DefaultClassifierConfig 返回默认的分类器配置
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		ReceiveTimeout: Duration(6 * time.Second),
		Operator:       "Supervisor Giovanna",
	}
}

// Validate 验证分类器配置
func (c *ClassifierConfig) Validate() error {
	if c.ReceiveTimeout <= 0 {
		return fmt.Errorf("classifier: receive_timeout must be > 0")
	}
	return nil
}
