package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
	"github.com/dep2p/go-linkguard/pkg/types"
)

func snap(id string) types.LinkSnapshot {
	return types.LinkSnapshot{Identifier: id, SignalStrength: -60}
}

func TestQueue_ImplementsInterface(t *testing.T) {
	var _ pkgif.SampleQueue = (*Queue)(nil)
}

// TestQueue_DropNewestWhenFull 满队列拒绝新样本，队首保持不变
func TestQueue_DropNewestWhenFull(t *testing.T) {
	q := New(10, clock.NewMock())

	for i := 0; i < 10; i++ {
		require.True(t, q.TryPublish(snap(fmt.Sprintf("net%d", i))))
	}
	assert.False(t, q.TryPublish(snap("overflow")))

	assert.Equal(t, 10, q.Len())
	assert.Equal(t, uint64(10), q.Published())
	assert.Equal(t, uint64(1), q.Dropped())

	s, ok := q.Receive(context.Background(), 0)
	require.True(t, ok)
	assert.Equal(t, "net0", s.Identifier)
}

// TestQueue_ElevenIntoTen 11 个样本写入容量 10 的队列，第 11 个被丢弃
func TestQueue_ElevenIntoTen(t *testing.T) {
	q := New(10, clock.NewMock())

	ids := []string{"netA", "netB", "netC", "netD", "netE", "netF", "netG", "netH", "netI", "netJ", "netK"}
	for _, id := range ids {
		q.TryPublish(snap(id))
	}

	var got []string
	for {
		s, ok := q.Receive(context.Background(), 0)
		if !ok {
			break
		}
		got = append(got, s.Identifier)
	}

	assert.Equal(t, ids[:10], got)
	assert.NotContains(t, got, "netK")
}

// TestQueue_ReceiveTimeout 空队列在超时后返回 ok=false
func TestQueue_ReceiveTimeout(t *testing.T) {
	clk := clock.NewMock()
	q := New(2, clk)

	done := make(chan bool)
	go func() {
		_, ok := q.Receive(context.Background(), 6*time.Second)
		done <- ok
	}()

	// 等待 Receive 注册计时器
	require.Eventually(t, func() bool {
		clk.Add(time.Second)
		select {
		case ok := <-done:
			assert.False(t, ok)
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}

// TestQueue_ReceiveWakesOnPublish 阻塞中的接收被发布唤醒
func TestQueue_ReceiveWakesOnPublish(t *testing.T) {
	q := New(2, clock.NewMock())

	done := make(chan types.LinkSnapshot, 1)
	go func() {
		s, ok := q.Receive(context.Background(), time.Hour)
		if ok {
			done <- s
		}
	}()

	time.Sleep(10 * time.Millisecond)
	require.True(t, q.TryPublish(snap("gigi5g")))

	select {
	case s := <-done:
		assert.Equal(t, "gigi5g", s.Identifier)
	case <-time.After(time.Second):
		t.Fatal("Receive was not woken by publish")
	}
}

// TestQueue_ReceiveContextCanceled ctx 结束时返回
func TestQueue_ReceiveContextCanceled(t *testing.T) {
	q := New(1, clock.NewMock())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := q.Receive(ctx, time.Hour)
	assert.False(t, ok)
}

func TestNew_Defaults(t *testing.T) {
	q := New(0, nil)
	assert.Equal(t, DefaultCapacity, q.Cap())
	assert.Zero(t, q.Len())
}
