// Package types 定义 LinkGuard 的基础类型
//
// 本文件定义所有公共错误类型。
package types

import "errors"

// ============================================================================
//                              链路相关错误
// ============================================================================

var (
	// ErrAssociationUnavailable 当前没有可查询的关联信息
	ErrAssociationUnavailable = errors.New("association info unavailable")

	// ErrLockTimeout 在限定时间内未能获取锁
	ErrLockTimeout = errors.New("lock acquisition timed out")

	// ErrIdentifierTooLong 标识符超过长度上限
	ErrIdentifierTooLong = errors.New("identifier exceeds 31 bytes")

	// ErrEmptyIdentifier 空标识符
	ErrEmptyIdentifier = errors.New("empty identifier")
)

// ============================================================================
//                              看门狗相关错误
// ============================================================================

var (
	// ErrWatchdogNotRegistered 看门狗尚未注册
	ErrWatchdogNotRegistered = errors.New("watchdog not registered")

	// ErrWatchdogExpired 看门狗已超时
	ErrWatchdogExpired = errors.New("watchdog expired")
)
