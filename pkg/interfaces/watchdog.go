// Package interfaces 定义 LinkGuard 公共接口
package interfaces

// Watchdog 看门狗协作方
//
// 注册后必须在超时时间内持续复位，否则由外部强制重启。
type Watchdog interface {
	// Register 将调用方注册为受监控任务
	Register() error

	// Reset 复位存活计时器
	Reset() error
}
