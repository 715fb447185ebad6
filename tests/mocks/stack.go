package mocks

import (
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-linkguard/pkg/types"
)

// MockStack 模拟 interfaces.NetworkStack
//
// Info/InfoErr 决定 AssociationInfo 的返回值；
// 设置了 XxxFunc 时优先调用。
type MockStack struct {
	events chan types.LinkEvent

	mu      sync.Mutex
	Info    types.AssociationInfo
	InfoErr error

	TriggerAssociationFunc func()
	AssociationInfoFunc    func() (types.AssociationInfo, error)

	associations atomic.Int64
	infoCalls    atomic.Int64
}

// NewMockStack 创建事件缓冲为 buf 的 MockStack
func NewMockStack(buf int) *MockStack {
	return &MockStack{events: make(chan types.LinkEvent, buf)}
}

// Events 返回事件通道
func (m *MockStack) Events() <-chan types.LinkEvent {
	return m.events
}

// Push 注入一个链路事件
func (m *MockStack) Push(ev types.LinkEvent) {
	m.events <- ev
}

// CloseEvents 关闭事件通道
func (m *MockStack) CloseEvents() {
	close(m.events)
}

// TriggerAssociation 记录关联请求
func (m *MockStack) TriggerAssociation() {
	m.associations.Add(1)
	if m.TriggerAssociationFunc != nil {
		m.TriggerAssociationFunc()
	}
}

// AssociationInfo 返回预设的关联信息
func (m *MockStack) AssociationInfo() (types.AssociationInfo, error) {
	m.infoCalls.Add(1)
	if m.AssociationInfoFunc != nil {
		return m.AssociationInfoFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Info, m.InfoErr
}

// SetInfo 并发安全地更新关联信息
func (m *MockStack) SetInfo(info types.AssociationInfo, err error) {
	m.mu.Lock()
	m.Info, m.InfoErr = info, err
	m.mu.Unlock()
}

// Associations 返回关联请求次数
func (m *MockStack) Associations() int {
	return int(m.associations.Load())
}

// InfoCalls 返回 AssociationInfo 调用次数
func (m *MockStack) InfoCalls() int {
	return int(m.infoCalls.Load())
}
