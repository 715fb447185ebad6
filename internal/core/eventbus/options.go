// Package eventbus 实现事件总线
package eventbus

import pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"

// subscriptionSettings 是 pkg/interfaces.SubscriptionSettings 的别名
type subscriptionSettings = pkgif.SubscriptionSettings

// emitterSettings 是 pkg/interfaces.EmitterSettings 的别名
type emitterSettings = pkgif.EmitterSettings

// BufSize 设置订阅缓冲区大小
func BufSize(size int) pkgif.SubscriptionOpt {
	return pkgif.BufSize(size)
}

// Stateful 设置发射器为有状态模式
//
// 新订阅者会立即收到最后一个事件，适合连接状态这类“当前值”事件。
func Stateful() pkgif.EmitterOpt {
	return pkgif.Stateful()
}
