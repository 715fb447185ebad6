// Package interfaces 定义 LinkGuard 公共接口
package interfaces

import "github.com/dep2p/go-linkguard/pkg/types"

// NetworkStack 网络栈协作方
//
// 驱动初始化、凭据配置、认证模式选择都在协作方内部完成，
// 核心只消费事件并发起关联请求。
type NetworkStack interface {
	// Events 返回链路事件通道
	//
	// 同一链路的事件按发生顺序投递，至少一次。
	Events() <-chan types.LinkEvent

	// TriggerAssociation 请求（重新）关联
	//
	// 发出即返回，结果只通过后续事件观察。
	TriggerAssociation()

	// AssociationInfo 查询当前关联的接入点信息
	//
	// 无法获取时返回 types.ErrAssociationUnavailable。
	AssociationInfo() (types.AssociationInfo, error)
}

// ConnectionStateReader 连接状态只读视图
type ConnectionStateReader interface {
	// Connected 返回原子发布的 connected 标志
	Connected() bool

	// Status 返回最近一次发布的状态快照
	Status() types.ConnectionStatus
}
