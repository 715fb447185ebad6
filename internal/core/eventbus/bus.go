// Package eventbus 实现事件总线
package eventbus

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
	"github.com/dep2p/go-linkguard/pkg/lib/log"
)

var logger = log.Logger("core/eventbus")

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrClosed 事件总线已关闭
	ErrClosed = errors.New("eventbus closed")
	// ErrInvalidEventType 无效的事件类型
	ErrInvalidEventType = errors.New("invalid event type")
	// ErrNonPointerType 非指针类型
	ErrNonPointerType = errors.New("subscribe called with non-pointer type")
	// ErrEmitterClosed 发射器已关闭
	ErrEmitterClosed = errors.New("emitter is closed")
)

// DefaultBufSize 默认订阅缓冲区大小
const DefaultBufSize = 64

// slowConsumerWarnInterval 慢消费者告警的最小间隔
const slowConsumerWarnInterval = 10 * time.Second

// ============================================================================
// Bus 实现
// ============================================================================

// Bus 事件总线
type Bus struct {
	mu sync.RWMutex

	// nodes 事件类型节点映射
	nodes map[reflect.Type]*node

	// dropped 全局丢弃计数
	dropped atomic.Int64
}

// node 事件类型节点
type node struct {
	lk        sync.Mutex
	typ       reflect.Type
	sinks     []*Subscription // 订阅者列表
	nEmitters atomic.Int32    // 发射器引用计数
	keepLast  bool            // 是否保持最后一个事件（Stateful）
	last      interface{}     // 最后一个事件
	warn      rate.Sometimes  // 慢消费者告警采样
}

// NewBus 创建新的事件总线
func NewBus() *Bus {
	return &Bus{
		nodes: make(map[reflect.Type]*node),
	}
}

var (
	_ pkgif.EventBus      = (*Bus)(nil)
	_ pkgif.EventBusStats = (*Bus)(nil)
)

// ============================================================================
// EventBus 接口实现
// ============================================================================

// Subscribe 订阅事件
//
// eventType 可以是单个指针（new(types.EvtHeartbeat)），
// 也可以是指针切片（[]interface{}{new(A), new(B)}），
// 多类型订阅共享一个输出通道，同一发射方的事件保持发射顺序。
func (b *Bus) Subscribe(eventType interface{}, opts ...pkgif.SubscriptionOpt) (pkgif.Subscription, error) {
	if eventType == nil {
		return nil, ErrInvalidEventType
	}

	settings := &subscriptionSettings{
		Buffer: DefaultBufSize,
	}
	for _, opt := range opts {
		opt(settings)
	}

	var requested []interface{}
	if list, ok := eventType.([]interface{}); ok {
		requested = list
	} else {
		requested = []interface{}{eventType}
	}
	if len(requested) == 0 {
		return nil, ErrInvalidEventType
	}

	elemTypes := make([]reflect.Type, 0, len(requested))
	for _, et := range requested {
		typ := reflect.TypeOf(et)
		if typ == nil {
			return nil, ErrInvalidEventType
		}
		// 必须是指针类型
		if typ.Kind() != reflect.Ptr {
			return nil, ErrNonPointerType
		}
		elemTypes = append(elemTypes, typ.Elem())
	}

	sub := &Subscription{
		bus:   b,
		types: elemTypes,
		out:   make(chan interface{}, settings.Buffer),
	}

	for _, typ := range elemTypes {
		b.withNode(typ, func(n *node) {
			n.sinks = append(n.sinks, sub)

			// 如果是有状态节点，发送最后的事件
			if n.keepLast && n.last != nil {
				select {
				case sub.out <- n.last:
				default:
				}
			}
		})
	}

	return sub, nil
}

// Emitter 获取发射器
func (b *Bus) Emitter(eventType interface{}, opts ...pkgif.EmitterOpt) (pkgif.Emitter, error) {
	if eventType == nil {
		return nil, ErrInvalidEventType
	}

	settings := &emitterSettings{}
	for _, opt := range opts {
		opt(settings)
	}

	typ := reflect.TypeOf(eventType)
	if typ == nil {
		return nil, ErrInvalidEventType
	}
	if typ.Kind() != reflect.Ptr {
		return nil, ErrNonPointerType
	}
	elemType := typ.Elem()

	var n *node
	b.withNode(elemType, func(nd *node) {
		n = nd
		n.nEmitters.Add(1)
		if settings.Stateful {
			n.keepLast = true
		}
	})

	return &Emitter{
		bus:  b,
		node: n,
		typ:  elemType,
	}, nil
}

// GetAllEventTypes 返回所有已注册的事件类型
func (b *Bus) GetAllEventTypes() []interface{} {
	b.mu.RLock()
	defer b.mu.RUnlock()

	types := make([]interface{}, 0, len(b.nodes))
	for typ := range b.nodes {
		types = append(types, reflect.Zero(typ).Interface())
	}
	return types
}

// Dropped 返回因订阅者缓冲区满而丢弃的事件总数
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

// ============================================================================
// 内部方法
// ============================================================================

// withNode 在节点上执行操作
func (b *Bus) withNode(typ reflect.Type, cb func(*node)) {
	b.mu.Lock()

	n, ok := b.nodes[typ]
	if !ok {
		n = &node{
			typ:   typ,
			sinks: make([]*Subscription, 0),
			warn:  rate.Sometimes{First: 1, Interval: slowConsumerWarnInterval},
		}
		b.nodes[typ] = n
	}

	n.lk.Lock()
	b.mu.Unlock()

	cb(n)
	n.lk.Unlock()
}

// tryDropNode 尝试删除节点（如果没有订阅者和发射器）
func (b *Bus) tryDropNode(typ reflect.Type) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n, ok := b.nodes[typ]
	if !ok {
		return
	}

	n.lk.Lock()
	busy := len(n.sinks) > 0 || n.nEmitters.Load() > 0 || n.keepLast
	n.lk.Unlock()
	if busy {
		return
	}

	delete(b.nodes, typ)
}

// removeSub 从订阅的所有类型节点中移除订阅
func (b *Bus) removeSub(sub *Subscription) {
	for _, typ := range sub.types {
		b.mu.Lock()
		n, ok := b.nodes[typ]
		if !ok {
			b.mu.Unlock()
			continue
		}
		n.lk.Lock()
		b.mu.Unlock()

		for i, s := range n.sinks {
			if s == sub {
				n.sinks = append(n.sinks[:i], n.sinks[i+1:]...)
				break
			}
		}
		shouldDrop := len(n.sinks) == 0 && n.nEmitters.Load() == 0
		n.lk.Unlock()

		if shouldDrop {
			b.tryDropNode(typ)
		}
	}
}

// emit 发射事件到所有订阅者
//
// 发射方永不阻塞：订阅者缓冲区满时丢弃该订阅者的这一份事件。
func (n *node) emit(bus *Bus, event interface{}) {
	n.lk.Lock()
	defer n.lk.Unlock()

	if n.keepLast {
		n.last = event
	}

	for _, sub := range n.sinks {
		if sub.closed.Load() {
			continue
		}
		select {
		case sub.out <- event:
		default:
			dropped := bus.dropped.Add(1)
			n.warn.Do(func() {
				logger.Warn("慢消费者检测",
					"dropped", dropped,
					"type", n.typ,
					"reason", "subscriber buffer full")
			})
		}
	}
}
