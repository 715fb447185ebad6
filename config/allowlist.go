// Package config 提供统一的配置管理
package config

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/dep2p/go-linkguard/pkg/types"
)

// AllowListConfig 可信网络白名单配置
//
// 白名单在启动时固定，运行期间不可修改。
type AllowListConfig struct {
	// Networks 可信网络标识符（SSID），每项不超过 31 字节
	Networks []string `json:"networks" yaml:"networks"`

	// LockTimeout 查询白名单时获取锁的最长等待
	// 超时按不可信处理
	// 默认值: 300ms
	LockTimeout Duration `json:"lock_timeout" yaml:"lock_timeout" split_words:"true"`
}

// DefaultAllowListConfig 返回默认的白名单配置
func DefaultAllowListConfig() AllowListConfig {
	return AllowListConfig{
		Networks: []string{
			"gigi5g",
			"REDE_SEGURA_1",
			"REDE_SEGURA_2",
			"REDE_GIOVANNA",
			"LAB_CORPORATIVO",
		},
		LockTimeout: Duration(300 * time.Millisecond),
	}
}

// Validate 验证白名单配置
func (c *AllowListConfig) Validate() error {
	var err error
	if c.LockTimeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("allow_list: lock_timeout must be > 0"))
	}

	seen := make(map[string]struct{}, len(c.Networks))
	for i, id := range c.Networks {
		switch {
		case id == "":
			err = multierr.Append(err, fmt.Errorf("allow_list: networks[%d]: %w", i, types.ErrEmptyIdentifier))
		case len(id) > types.MaxIdentifierLen:
			err = multierr.Append(err, fmt.Errorf("allow_list: networks[%d] %q: %w", i, id, types.ErrIdentifierTooLong))
		}
		if _, dup := seen[id]; dup {
			err = multierr.Append(err, fmt.Errorf("allow_list: duplicate network %q", id))
		}
		seen[id] = struct{}{}
	}
	return err
}
