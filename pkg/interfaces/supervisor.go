// Package interfaces 定义 LinkGuard 公共接口
package interfaces

import (
	"context"
	"time"

	"github.com/dep2p/go-linkguard/pkg/types"
)

// TrustChecker 可信网络判定
type TrustChecker interface {
	// IsTrusted 判断标识符是否在白名单中
	//
	// 在限定时间内拿不到锁时返回 false 和 types.ErrLockTimeout。
	IsTrusted(ctx context.Context, identifier string) (bool, error)
}

// SampleQueue 单生产者/单消费者的有界快照队列
type SampleQueue interface {
	// TryPublish 非阻塞发布，队列满时丢弃本次快照并返回 false
	TryPublish(s types.LinkSnapshot) bool

	// Receive 在 timeout 内等待一个快照，超时返回 ok=false
	Receive(ctx context.Context, timeout time.Duration) (s types.LinkSnapshot, ok bool)

	// Len 当前排队数量
	Len() int

	// Cap 队列容量
	Cap() int
}
