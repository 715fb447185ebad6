package types

import "unicode/utf8"

// ============================================================================
//                              ConnectionState - 连接状态
// ============================================================================

// ConnectionState 无线链路连接状态
//
// 由状态机独占写入，其他组件只读取派生出的 connected 标志。
type ConnectionState int

const (
	// StateDisconnected 未连接
	StateDisconnected ConnectionState = iota
	// StateConnecting 关联中
	StateConnecting
	// StateConnected 已关联并获取地址
	StateConnected
)

// String 返回连接状态的字符串表示
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              LinkEvent - 链路事件
// ============================================================================

// LinkEvent 网络栈投递的连接事件
type LinkEvent int

const (
	// LinkStarted 站点接口已启动
	LinkStarted LinkEvent = iota + 1
	// LinkLost 关联丢失
	LinkLost
	// AddressAcquired 已获取 IP 地址
	AddressAcquired
)

// String 返回链路事件的字符串表示
func (e LinkEvent) String() string {
	switch e {
	case LinkStarted:
		return "link-started"
	case LinkLost:
		return "link-lost"
	case AddressAcquired:
		return "address-acquired"
	default:
		return "unknown"
	}
}

// ConnectionStatus 状态机对外发布的状态快照
type ConnectionStatus struct {
	State   ConnectionState
	Retries int
}

// Connected 是否处于已连接状态
func (s ConnectionStatus) Connected() bool {
	return s.State == StateConnected
}

// ============================================================================
//                              LinkSnapshot - 链路快照
// ============================================================================

// MaxIdentifierLen 网络标识符最大字节数（不含终止符）
const MaxIdentifierLen = 31

// AssociationInfo 当前关联的接入点信息
type AssociationInfo struct {
	Identifier     string
	SignalStrength int8
}

// LinkSnapshot 某一时刻的链路质量快照
//
// 通过队列按值传递，不存在共享可变所有权。
type LinkSnapshot struct {
	// Identifier 网络标识符（SSID），不超过 MaxIdentifierLen 字节
	Identifier string `json:"identifier"`

	// SignalStrength 信号强度（dBm）
	SignalStrength int8 `json:"signal_strength"`

	// CapturedAtMicros 采样时刻，自监控器启动以来的单调微秒数
	CapturedAtMicros int64 `json:"captured_at_us"`
}

// NewLinkSnapshot 根据关联信息创建快照，标识符超长时截断
func NewLinkSnapshot(info AssociationInfo, capturedAtMicros int64) LinkSnapshot {
	return LinkSnapshot{
		Identifier:       TruncateIdentifier(info.Identifier),
		SignalStrength:   info.SignalStrength,
		CapturedAtMicros: capturedAtMicros,
	}
}

// TruncateIdentifier 将标识符截断到 MaxIdentifierLen 字节
//
// 截断点回退到 UTF-8 字符边界，避免产生非法编码。
func TruncateIdentifier(id string) string {
	if len(id) <= MaxIdentifierLen {
		return id
	}
	cut := MaxIdentifierLen
	for cut > 0 && !utf8.RuneStart(id[cut]) {
		cut--
	}
	return id[:cut]
}
