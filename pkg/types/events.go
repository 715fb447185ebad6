// Package types 定义 LinkGuard 公共类型
//
// 本文件定义事件相关类型。
package types

import (
	"time"
)

// ============================================================================
//                              Event - 事件接口
// ============================================================================

// Event 基础事件接口
type Event interface {
	// Type 返回事件类型
	Type() string

	// Timestamp 返回事件时间戳
	Timestamp() time.Time
}

// BaseEvent 基础事件实现
type BaseEvent struct {
	EventType string
	Time      time.Time
}

// Type 返回事件类型
func (e BaseEvent) Type() string {
	return e.EventType
}

// Timestamp 返回事件时间戳
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// NewBaseEvent 创建基础事件
//
// 时间由调用方提供，组件统一使用注入的 clock，便于测试。
func NewBaseEvent(eventType string, at time.Time) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      at,
	}
}

// 事件类型名
const (
	EventConnectionStateChanged = "connection.state_changed"
	EventAssociationAttempt     = "connection.association_attempt"
	EventRetryExhausted         = "connection.retry_exhausted"
	EventLinkSampled            = "sampler.sampled"
	EventSampleDropped          = "sampler.dropped"
	EventSamplerIdle            = "sampler.idle"
	EventClassified             = "classifier.classified"
	EventClassifierIdle         = "classifier.idle"
	EventHeartbeat              = "liveness.heartbeat"
	EventWatchdogExpired        = "liveness.watchdog_expired"
)

// ============================================================================
//                              连接事件
// ============================================================================

// EvtConnectionStateChanged 连接状态变更事件
//
// 状态或重试计数发生变化时发射一次。
type EvtConnectionStateChanged struct {
	BaseEvent
	Previous ConnectionState
	Current  ConnectionState
	Retries  int
	Cause    LinkEvent
}

// EvtAssociationAttempt 发起关联尝试事件
type EvtAssociationAttempt struct {
	BaseEvent
	// Retry 重试序号，0 表示首次关联
	Retry int
}

// EvtRetryExhausted 重试次数耗尽事件
type EvtRetryExhausted struct {
	BaseEvent
	Retries int
}

// ============================================================================
//                              采样事件
// ============================================================================

// EvtLinkSampled 采集到链路快照
type EvtLinkSampled struct {
	BaseEvent
	Snapshot LinkSnapshot
	QueueLen int
}

// EvtSampleDropped 队列已满，最新快照被丢弃
type EvtSampleDropped struct {
	BaseEvent
	Snapshot LinkSnapshot
}

// EvtSamplerIdle 未连接，本周期不采样
type EvtSamplerIdle struct {
	BaseEvent
}

// ============================================================================
//                              分类事件
// ============================================================================

// EvtClassified 分类结论事件
type EvtClassified struct {
	BaseEvent
	Classification
	// Operator 告警责任人
	Operator string
}

// EvtClassifierIdle 接收超时，窗口内没有样本
type EvtClassifierIdle struct {
	BaseEvent
	Waited time.Duration
}

// ============================================================================
//                              存活事件
// ============================================================================

// EvtHeartbeat 心跳事件
type EvtHeartbeat struct {
	BaseEvent
	Seq uint64
	// ResetErr 看门狗复位失败时的错误
	ResetErr error
}

// EvtWatchdogExpired 软件看门狗超时事件
type EvtWatchdogExpired struct {
	BaseEvent
	Timeout time.Duration
}

// AllEvents 返回所有事件类型的指针，用于订阅全部事件
func AllEvents() []interface{} {
	return []interface{}{
		new(EvtConnectionStateChanged),
		new(EvtAssociationAttempt),
		new(EvtRetryExhausted),
		new(EvtLinkSampled),
		new(EvtSampleDropped),
		new(EvtSamplerIdle),
		new(EvtClassified),
		new(EvtClassifierIdle),
		new(EvtHeartbeat),
		new(EvtWatchdogExpired),
	}
}
