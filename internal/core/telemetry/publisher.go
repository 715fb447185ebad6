// Package telemetry 把事件记录发布到 Redis Pub/Sub 频道
//
// 每条记录带有本次启动的 boot ID，订阅方据此区分重启前后的事件流。
// 发布失败只记录日志，不影响监控主流程。
package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/dep2p/go-linkguard/internal/core/reporter"
	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
	"github.com/dep2p/go-linkguard/pkg/lib/log"
	"github.com/dep2p/go-linkguard/pkg/types"
)

var logger = log.Logger("core/telemetry")

// DefaultPublishTimeout 默认单次发布超时
const DefaultPublishTimeout = 500 * time.Millisecond

const subscriptionBuffer = 256

// Publisher Redis 遥测发布器
type Publisher struct {
	client  redis.UniversalClient
	channel string
	timeout time.Duration
	bootID  string
	bus     pkgif.EventBus

	published atomic.Uint64
	failed    atomic.Uint64
	warn      rate.Sometimes

	sub    pkgif.Subscription
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New 创建发布器，boot ID 在创建时生成
func New(client redis.UniversalClient, channel string, timeout time.Duration, bus pkgif.EventBus) (*Publisher, error) {
	if client == nil {
		return nil, errors.New("telemetry: redis client is nil")
	}
	if channel == "" {
		return nil, errors.New("telemetry: channel is empty")
	}
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &Publisher{
		client:  client,
		channel: channel,
		timeout: timeout,
		bootID:  uuid.NewString(),
		bus:     bus,
		warn:    rate.Sometimes{First: 1, Interval: 30 * time.Second},
	}, nil
}

// BootID 返回本次启动的标识
func (p *Publisher) BootID() string {
	return p.bootID
}

// Channel 返回发布频道
func (p *Publisher) Channel() string {
	return p.channel
}

// Publish 发布一个事件，非监控事件被忽略
func (p *Publisher) Publish(ctx context.Context, evt interface{}) error {
	rec, ok := reporter.NewRecord(evt)
	if !ok {
		return nil
	}
	rec.Boot = p.bootID

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		p.failed.Add(1)
		return fmt.Errorf("publish %s: %w", p.channel, err)
	}
	p.published.Add(1)
	return nil
}

// Stats 返回发布成功和失败次数
func (p *Publisher) Stats() (published, failed uint64) {
	return p.published.Load(), p.failed.Load()
}

// Ping 检查 Redis 连通性
func (p *Publisher) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.client.Ping(ctx).Err()
}

// ============================================================================
// 生命周期
// ============================================================================

// Start 订阅事件总线并开始发布
//
// Redis 不可达不会阻止启动。
func (p *Publisher) Start(ctx context.Context) error {
	if p.bus == nil {
		return errors.New("telemetry: event bus is nil")
	}
	if err := p.Ping(ctx); err != nil {
		logger.Warn("Redis 不可达，遥测发布将持续重试", "channel", p.channel, "err", err)
	}

	sub, err := p.bus.Subscribe(types.AllEvents(), pkgif.BufSize(subscriptionBuffer))
	if err != nil {
		return fmt.Errorf("telemetry subscribe: %w", err)
	}
	p.sub = sub

	loopCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	p.wg.Add(1)
	go p.loop(loopCtx)

	logger.Info("遥测发布已启动", "channel", p.channel, "boot", p.bootID)
	return nil
}

// Stop 停止发布
func (p *Publisher) Stop() error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	if p.sub != nil {
		p.sub.Close()
	}
	published, failed := p.Stats()
	logger.Info("遥测发布已停止", "published", published, "failed", failed)
	return nil
}

func (p *Publisher) loop(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-p.sub.Out():
			if !ok {
				return
			}
			if err := p.Publish(ctx, evt); err != nil {
				p.warn.Do(func() {
					logger.Warn("遥测发布失败", "err", err)
				})
			}
		}
	}
}
