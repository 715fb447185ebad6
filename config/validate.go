package config

import (
	"errors"

	"go.uber.org/multierr"
)

// ValidateAll 验证整个配置的有效性
//
// 这是 Config.Validate() 的别名，返回值可用 Errors 拆分为单条错误。
func ValidateAll(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}

// Errors 将聚合的校验错误拆分为单条错误
func Errors(err error) []error {
	return multierr.Errors(err)
}
