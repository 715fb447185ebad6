// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义，带 DefaultXxxConfig 和 Validate
//   - 支持从 JSON / YAML 文件加载，环境变量（LINKGUARD_ 前缀）覆盖
//   - 所有周期和超时以毫秒数或 duration 字符串表达
//
// 配置在启动时固定，核心运行期间不会修改。
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Link.MaxRetry = 3
//
//	// 从文件加载（并应用环境变量覆盖）
//	cfg, err := config.Load("/etc/linkguard/config.yaml")
package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// Config 是 LinkGuard 的完整配置结构
//
// 配置按照功能模块组织：
//   - Link: 连接状态机（重试上限）
//   - AllowList: 可信网络白名单
//   - Sampler: 链路采样与队列
//   - Classifier: 安全分类
//   - Liveness: 心跳与看门狗
//   - Reporter / Metrics / Telemetry / Log: 可观测输出
//   - Memory: 堆内存守护
//   - Sim: 模拟网络栈
type Config struct {
	// Link 连接状态机配置
	Link LinkConfig `json:"link" yaml:"link"`

	// AllowList 白名单配置
	AllowList AllowListConfig `json:"allow_list" yaml:"allow_list" split_words:"true"`

	// Sampler 采样配置
	Sampler SamplerConfig `json:"sampler" yaml:"sampler"`

	// Classifier 分类器配置
	Classifier ClassifierConfig `json:"classifier" yaml:"classifier"`

	// Liveness 存活上报配置
	Liveness LivenessConfig `json:"liveness" yaml:"liveness"`

	// Reporter 事件流配置
	Reporter ReporterConfig `json:"reporter" yaml:"reporter"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Telemetry 遥测配置
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry"`

	// Memory 内存守护配置
	Memory MemoryConfig `json:"memory" yaml:"memory"`

	// Log 日志配置
	Log LogConfig `json:"log" yaml:"log"`

	// Sim 模拟网络栈配置
	Sim SimConfig `json:"sim" yaml:"sim"`
}

// NewConfig 创建默认配置
//
// 默认值即参考配置：重试 10 次、5 个可信网络、队列 10、采样 5s、
// 接收超时 6s、锁等待 300ms、心跳 2s、看门狗 8s。
func NewConfig() *Config {
	return &Config{
		Link:       DefaultLinkConfig(),
		AllowList:  DefaultAllowListConfig(),
		Sampler:    DefaultSamplerConfig(),
		Classifier: DefaultClassifierConfig(),
		Liveness:   DefaultLivenessConfig(),
		Reporter:   DefaultReporterConfig(),
		Metrics:    DefaultMetricsConfig(),
		Telemetry:  DefaultTelemetryConfig(),
		Memory:     DefaultMemoryConfig(),
		Log:        DefaultLogConfig(),
		Sim:        DefaultSimConfig(),
	}
}

// Validate 验证配置的有效性
//
// 汇总所有子配置和跨字段约束的错误，一次性返回。
func (c *Config) Validate() error {
	err := multierr.Combine(
		c.Link.Validate(),
		c.AllowList.Validate(),
		c.Sampler.Validate(),
		c.Classifier.Validate(),
		c.Liveness.Validate(),
		c.Reporter.Validate(),
		c.Metrics.Validate(),
		c.Telemetry.Validate(),
		c.Memory.Validate(),
		c.Log.Validate(),
		c.Sim.Validate(),
	)
	return multierr.Append(err, c.validateCross())
}

// validateCross 跨子配置的时序约束
func (c *Config) validateCross() error {
	var err error

	// 接收超时必须严格大于采样周期，正常采样节奏下不会误报空闲
	if c.Classifier.ReceiveTimeout <= c.Sampler.Period {
		err = multierr.Append(err, fmt.Errorf(
			"classifier.receive_timeout (%s) must be greater than sampler.period (%s)",
			c.Classifier.ReceiveTimeout, c.Sampler.Period))
	}

	// 看门狗超时至少是心跳周期的两倍
	if c.Liveness.WatchdogTimeout < 2*c.Liveness.HeartbeatPeriod {
		err = multierr.Append(err, fmt.Errorf(
			"liveness.watchdog_timeout (%s) must be at least twice liveness.heartbeat_period (%s)",
			c.Liveness.WatchdogTimeout, c.Liveness.HeartbeatPeriod))
	}

	// 锁等待不应超过接收超时，否则分类会拖慢下一轮接收
	if c.AllowList.LockTimeout >= c.Classifier.ReceiveTimeout {
		err = multierr.Append(err, fmt.Errorf(
			"allow_list.lock_timeout (%s) must be less than classifier.receive_timeout (%s)",
			c.AllowList.LockTimeout, c.Classifier.ReceiveTimeout))
	}

	return err
}
