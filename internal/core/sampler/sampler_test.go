package sampler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-linkguard/internal/core/eventbus"
	"github.com/dep2p/go-linkguard/internal/core/queue"
	"github.com/dep2p/go-linkguard/pkg/types"
	"github.com/dep2p/go-linkguard/tests/mocks"
)

// fakeState 可控的连接状态
type fakeState struct {
	connected atomic.Bool
}

func (f *fakeState) Connected() bool { return f.connected.Load() }

func (f *fakeState) Status() types.ConnectionStatus {
	if f.Connected() {
		return types.ConnectionStatus{State: types.StateConnected}
	}
	return types.ConnectionStatus{State: types.StateDisconnected}
}

type fixture struct {
	clk     *clock.Mock
	stack   *mocks.MockStack
	state   *fakeState
	queue   *queue.Queue
	bus     *eventbus.Bus
	sampler *Sampler
}

func newFixture(t *testing.T, capacity int) *fixture {
	t.Helper()
	f := &fixture{
		clk:   clock.NewMock(),
		stack: mocks.NewMockStack(1),
		state: &fakeState{},
		bus:   eventbus.NewBus(),
	}
	f.queue = queue.New(capacity, f.clk)
	f.stack.Info = types.AssociationInfo{Identifier: "gigi5g", SignalStrength: -48}

	s, err := New(Config{
		Stack:  f.stack,
		State:  f.state,
		Queue:  f.queue,
		Bus:    f.bus,
		Clock:  f.clk,
		Period: 5 * time.Second,
	})
	require.NoError(t, err)
	f.sampler = s
	return f
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

// TestTick_NotConnected 未连接时不查询关联信息
func TestTick_NotConnected(t *testing.T) {
	f := newFixture(t, 10)
	sub, _ := f.bus.Subscribe(new(types.EvtSamplerIdle), eventbus.BufSize(4))
	defer sub.Close()

	_, outcome := f.sampler.Tick()

	assert.Equal(t, OutcomeIdle, outcome)
	assert.Zero(t, f.stack.InfoCalls())
	assert.Zero(t, f.queue.Len())
	assert.Len(t, sub.Out(), 1)
}

// TestTick_Connected 已连接时生成快照并入队
func TestTick_Connected(t *testing.T) {
	f := newFixture(t, 10)
	f.state.connected.Store(true)
	f.clk.Add(1500 * time.Millisecond)

	snap, outcome := f.sampler.Tick()

	assert.Equal(t, OutcomePublished, outcome)
	assert.Equal(t, "gigi5g", snap.Identifier)
	assert.Equal(t, int8(-48), snap.SignalStrength)
	assert.Equal(t, int64(1_500_000), snap.CapturedAtMicros)

	got, ok := f.queue.Receive(context.Background(), 0)
	require.True(t, ok)
	assert.Equal(t, snap, got)
}

// TestTick_InfoUnavailable 关联信息不可用时跳过本周期
func TestTick_InfoUnavailable(t *testing.T) {
	f := newFixture(t, 10)
	f.state.connected.Store(true)
	f.stack.SetInfo(types.AssociationInfo{}, types.ErrAssociationUnavailable)

	sub, _ := f.bus.Subscribe([]interface{}{
		new(types.EvtLinkSampled),
		new(types.EvtSamplerIdle),
	}, eventbus.BufSize(4))
	defer sub.Close()

	_, outcome := f.sampler.Tick()

	assert.Equal(t, OutcomeUnavailable, outcome)
	assert.Zero(t, f.queue.Len())
	assert.Empty(t, sub.Out())
}

// TestTick_TruncatesIdentifier 超长标识符截断到 31 字节
func TestTick_TruncatesIdentifier(t *testing.T) {
	f := newFixture(t, 10)
	f.state.connected.Store(true)
	f.stack.SetInfo(types.AssociationInfo{Identifier: "an-unusually-long-network-identifier"}, nil)

	snap, _ := f.sampler.Tick()
	assert.Len(t, snap.Identifier, types.MaxIdentifierLen)
}

// TestTick_QueueFull 队列满时丢弃最新样本并发出丢弃事件
func TestTick_QueueFull(t *testing.T) {
	f := newFixture(t, 1)
	f.state.connected.Store(true)

	sub, _ := f.bus.Subscribe(new(types.EvtSampleDropped), eventbus.BufSize(4))
	defer sub.Close()

	_, first := f.sampler.Tick()
	_, second := f.sampler.Tick()

	assert.Equal(t, OutcomePublished, first)
	assert.Equal(t, OutcomeDropped, second)
	assert.Equal(t, 1, f.queue.Len())
	assert.Len(t, sub.Out(), 1)
}

// TestTick_ElevenSamplesIntoTen 消费端来不及处理时第 11 个样本被丢弃
func TestTick_ElevenSamplesIntoTen(t *testing.T) {
	f := newFixture(t, 10)
	f.state.connected.Store(true)

	ids := []string{"netA", "netB", "netC", "netD", "netE", "netF", "netG", "netH", "netI", "netJ", "netK"}
	for _, id := range ids {
		f.stack.SetInfo(types.AssociationInfo{Identifier: id, SignalStrength: -60}, nil)
		f.sampler.Tick()
	}

	seen := make(map[string]struct{})
	var order []string
	for {
		s, ok := f.queue.Receive(context.Background(), 0)
		if !ok {
			break
		}
		seen[s.Identifier] = struct{}{}
		order = append(order, s.Identifier)
	}

	assert.Len(t, seen, 10)
	assert.Equal(t, ids[:10], order)
	assert.NotContains(t, seen, "netK")
	assert.Equal(t, uint64(1), f.queue.Dropped())
}

// TestSampler_Loop 启动后立即采样，之后按周期采样
func TestSampler_Loop(t *testing.T) {
	f := newFixture(t, 10)
	f.state.connected.Store(true)

	require.NoError(t, f.sampler.Start(context.Background()))
	defer f.sampler.Stop()

	require.Eventually(t, func() bool { return f.sampler.Ticks() == 1 }, time.Second, time.Millisecond)

	f.clk.Add(5 * time.Second)
	require.Eventually(t, func() bool { return f.sampler.Ticks() == 2 }, time.Second, time.Millisecond)

	f.clk.Add(5 * time.Second)
	require.Eventually(t, func() bool { return f.queue.Len() == 3 }, time.Second, time.Millisecond)
}

func TestSampler_StopIdempotent(t *testing.T) {
	f := newFixture(t, 10)
	require.NoError(t, f.sampler.Start(context.Background()))
	require.NoError(t, f.sampler.Stop())
	require.NoError(t, f.sampler.Stop())
	assert.Error(t, f.sampler.Start(context.Background()))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "idle", OutcomeIdle.String())
	assert.Equal(t, "unavailable", OutcomeUnavailable.String())
	assert.Equal(t, "published", OutcomePublished.String())
	assert.Equal(t, "dropped", OutcomeDropped.String())
	assert.Equal(t, "unknown", Outcome(9).String())
}
