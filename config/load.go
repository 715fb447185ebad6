// Package config 提供统一的配置管理
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix 环境变量前缀
//
// 例如 LINKGUARD_LINK_MAX_RETRY=3, LINKGUARD_SAMPLER_PERIOD=5s,
// LINKGUARD_ALLOW_LIST_NETWORKS=netA,netB
const EnvPrefix = "LINKGUARD"

// Load 加载配置
//
// 顺序：默认值 → 配置文件（可选）→ 环境变量覆盖 → 校验。
// 文件按扩展名选择格式：.yaml/.yml 使用 YAML，其余按 JSON 解析。
// 文件中缺省的字段保留默认值。
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // G304: 用户指定的配置文件路径是预期行为
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := Decode(cfg, data, filepath.Ext(path)); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Decode 按格式把 data 解码到已有配置上
func Decode(cfg *Config, data []byte, ext string) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

// ApplyEnv 应用环境变量覆盖
//
// 只覆盖设置了对应环境变量的字段。
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("apply env overrides: %w", err)
	}
	return nil
}
