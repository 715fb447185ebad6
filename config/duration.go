// Package config 提供统一的配置管理
package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration 是支持 JSON/YAML/环境变量解析的 time.Duration 包装类型
//
// 支持的格式:
//   - 数字: 毫秒数（所有周期和超时默认以毫秒表达）
//   - 字符串: "300ms", "5s", "1m30s" 等；纯数字字符串同样按毫秒解析
//
// 使用示例:
//
//	type Config struct {
//	    Period Duration `json:"period" yaml:"period"`
//	}
//
//	// JSON: {"period": 5000} 或 {"period": "5s"}
type Duration time.Duration

// Millis 以毫秒数构造 Duration
func Millis(ms int64) Duration {
	return Duration(time.Duration(ms) * time.Millisecond)
}

// parseDuration 解析毫秒数或 Go duration 字符串
func parseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Millis(ms), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return Duration(d), nil
}

// UnmarshalJSON 实现 json.Unmarshaler 接口
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := parseDuration(s)
		if err != nil {
			return err
		}
		*d = v
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*d = Millis(n)
		return nil
	}

	return fmt.Errorf("duration must be a string (e.g., \"5s\") or number (milliseconds)")
}

// MarshalJSON 实现 json.Marshaler 接口
//
// 输出为人类可读的字符串格式
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalYAML 实现 yaml.Unmarshaler 接口
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar, got yaml kind %d", value.Kind)
	}
	v, err := parseDuration(value.Value)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalYAML 实现 yaml.Marshaler 接口
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Decode 实现 envconfig.Decoder 接口
func (d *Duration) Decode(value string) error {
	v, err := parseDuration(value)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Duration 返回底层的 time.Duration 值
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// String 返回字符串表示
func (d Duration) String() string {
	return time.Duration(d).String()
}
