package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestNewConfig 测试默认配置即参考配置
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10, cfg.Link.MaxRetry)
	assert.Len(t, cfg.AllowList.Networks, 5)
	assert.Equal(t, 300*time.Millisecond, cfg.AllowList.LockTimeout.Duration())
	assert.Equal(t, 10, cfg.Sampler.QueueCapacity)
	assert.Equal(t, 5*time.Second, cfg.Sampler.Period.Duration())
	assert.Equal(t, 6*time.Second, cfg.Classifier.ReceiveTimeout.Duration())
	assert.Equal(t, 2*time.Second, cfg.Liveness.HeartbeatPeriod.Duration())
	assert.Equal(t, 8*time.Second, cfg.Liveness.WatchdogTimeout.Duration())
	assert.Equal(t, WatchdogSoft, cfg.Liveness.Watchdog)
}

// TestConfig_ValidateAggregatesErrors 测试所有错误一次返回
func TestConfig_ValidateAggregatesErrors(t *testing.T) {
	cfg := NewConfig()
	cfg.Link.MaxRetry = -1
	cfg.Sampler.QueueCapacity = 0
	cfg.AllowList.Networks = []string{"", strings.Repeat("x", 32), "dup", "dup"}

	err := ValidateAll(cfg)
	require.Error(t, err)

	errs := Errors(err)
	assert.Len(t, errs, 5)
	assert.Contains(t, err.Error(), "max_retry")
	assert.Contains(t, err.Error(), "queue_capacity")
	assert.Contains(t, err.Error(), "duplicate network")
}

// TestConfig_CrossFieldRules 测试跨字段时序约束
func TestConfig_CrossFieldRules(t *testing.T) {
	t.Run("ReceiveTimeoutNotAbovePeriod", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Classifier.ReceiveTimeout = cfg.Sampler.Period
		assert.ErrorContains(t, cfg.Validate(), "receive_timeout")
	})

	t.Run("WatchdogTooTight", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Liveness.WatchdogTimeout = Millis(3000)
		assert.ErrorContains(t, cfg.Validate(), "watchdog_timeout")
	})

	t.Run("LockTimeoutTooLong", func(t *testing.T) {
		cfg := NewConfig()
		cfg.AllowList.LockTimeout = Millis(7000)
		assert.ErrorContains(t, cfg.Validate(), "lock_timeout")
	})

	t.Run("UnknownWatchdog", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Liveness.Watchdog = "hardware"
		assert.ErrorContains(t, cfg.Validate(), "unknown watchdog")
	})

	t.Run("TelemetryEnabledWithoutAddr", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.RedisAddr = ""
		assert.ErrorContains(t, cfg.Validate(), "redis_addr")
	})
}

// TestDuration_Formats 测试毫秒数与字符串两种格式
func TestDuration_Formats(t *testing.T) {
	var s struct {
		A Duration `json:"a" yaml:"a"`
		B Duration `json:"b" yaml:"b"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"a": 5000, "b": "300ms"}`), &s))
	assert.Equal(t, 5*time.Second, s.A.Duration())
	assert.Equal(t, 300*time.Millisecond, s.B.Duration())

	require.NoError(t, yaml.Unmarshal([]byte("a: 2000\nb: 1m\n"), &s))
	assert.Equal(t, 2*time.Second, s.A.Duration())
	assert.Equal(t, time.Minute, s.B.Duration())

	var d Duration
	require.NoError(t, d.Decode("8000"))
	assert.Equal(t, 8*time.Second, d.Duration())
	assert.Error(t, d.Decode("soon"))

	out, err := json.Marshal(Millis(1500))
	require.NoError(t, err)
	assert.Equal(t, `"1.5s"`, string(out))
}

// TestLoad_YAML 测试 YAML 文件加载并保留缺省字段的默认值
func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkguard.yaml")
	data := `
link:
  max_retry: 3
allow_list:
  networks: ["gigi5g", "REDE_SEGURA_1"]
sampler:
  period: 1000
classifier:
  receive_timeout: 1500
  operator: "ops-team"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Link.MaxRetry)
	assert.Equal(t, []string{"gigi5g", "REDE_SEGURA_1"}, cfg.AllowList.Networks)
	assert.Equal(t, time.Second, cfg.Sampler.Period.Duration())
	assert.Equal(t, 1500*time.Millisecond, cfg.Classifier.ReceiveTimeout.Duration())
	assert.Equal(t, "ops-team", cfg.Classifier.Operator)
	// 未出现在文件中的字段保留默认值
	assert.Equal(t, 10, cfg.Sampler.QueueCapacity)
	assert.Equal(t, 8*time.Second, cfg.Liveness.WatchdogTimeout.Duration())
}

// TestLoad_JSON 测试 JSON 文件加载
func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkguard.json")
	data := `{"sampler": {"queue_capacity": 4}, "liveness": {"watchdog": "systemd"}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Sampler.QueueCapacity)
	assert.Equal(t, WatchdogSystemd, cfg.Liveness.Watchdog)
}

// TestLoad_EnvOverrides 测试环境变量覆盖优先于文件
func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkguard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("link:\n  max_retry: 3\n"), 0o600))

	t.Setenv("LINKGUARD_LINK_MAX_RETRY", "2")
	t.Setenv("LINKGUARD_ALLOW_LIST_NETWORKS", "netA,netB")
	t.Setenv("LINKGUARD_ALLOW_LIST_LOCK_TIMEOUT", "250ms")
	t.Setenv("LINKGUARD_SAMPLER_QUEUE_CAPACITY", "20")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Link.MaxRetry)
	assert.Equal(t, []string{"netA", "netB"}, cfg.AllowList.Networks)
	assert.Equal(t, 250*time.Millisecond, cfg.AllowList.LockTimeout.Duration())
	assert.Equal(t, 20, cfg.Sampler.QueueCapacity)
}

// TestLoad_Errors 测试加载失败路径
func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sampler:\n  period: soon\n"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)

	path = filepath.Join(t.TempDir(), "invalid.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"link": {"max_retry": -5}}`), 0o600))
	_, err = Load(path)
	assert.ErrorContains(t, err, "max_retry")
}

// TestLoad_NoFile 测试无配置文件时使用默认值
func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, NewConfig().Link, cfg.Link)
}
