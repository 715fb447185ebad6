package linkguard

import "errors"

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 监控器生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted 监控器未启动
	ErrNotStarted = errors.New("supervisor not started")

	// ErrAlreadyStarted 监控器已启动
	ErrAlreadyStarted = errors.New("supervisor already started")

	// ErrSupervisorClosed 监控器已关闭
	ErrSupervisorClosed = errors.New("supervisor closed")

	// ────────────────────────────────────────────────────────────────────────
	// 选项错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNilConfig 配置为空
	ErrNilConfig = errors.New("config is nil")

	// ErrNetworkStackRequired 网络栈为空
	ErrNetworkStackRequired = errors.New("network stack is nil")

	// ErrWatchdogRequired 看门狗为空
	ErrWatchdogRequired = errors.New("watchdog is nil")
)
