package linkguard

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dep2p/go-linkguard/config"
	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
	"github.com/dep2p/go-linkguard/pkg/types"
	"github.com/dep2p/go-linkguard/tests/mocks"
)

// syncBuffer 并发安全的 bytes.Buffer
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Metrics.Enabled = false
	cfg.Sim.AssociationDelay = config.Millis(100)
	return cfg
}

const waitFor = 2 * time.Second

// ============================================================================
// 选项与生命周期
// ============================================================================

func TestNew_OptionErrors(t *testing.T) {
	_, err := New(WithConfig(nil))
	assert.ErrorIs(t, err, ErrNilConfig)

	_, err = New(WithNetworkStack(nil))
	assert.ErrorIs(t, err, ErrNetworkStackRequired)

	_, err = New(WithWatchdog(nil))
	assert.ErrorIs(t, err, ErrWatchdogRequired)

	cfg := testConfig()
	cfg.Sampler.QueueCapacity = 0
	_, err = New(WithConfig(cfg))
	assert.ErrorContains(t, err, "queue_capacity")
}

func TestSupervisor_LifecycleErrors(t *testing.T) {
	sup, err := New(WithConfig(testConfig()), WithClock(clock.NewMock()))
	require.NoError(t, err)
	assert.Equal(t, StateIdle, sup.State())

	ctx := context.Background()
	assert.ErrorIs(t, sup.Stop(ctx), ErrNotStarted)

	require.NoError(t, sup.Start(ctx))
	assert.Equal(t, StateRunning, sup.State())
	assert.ErrorIs(t, sup.Start(ctx), ErrAlreadyStarted)

	require.NoError(t, sup.Stop(ctx))
	assert.Equal(t, StateStopped, sup.State())
	assert.ErrorIs(t, sup.Stop(ctx), ErrSupervisorClosed)
	assert.ErrorIs(t, sup.Start(ctx), ErrSupervisorClosed)
}

// ============================================================================
// 端到端：模拟网络栈
// ============================================================================

func TestSupervisor_SimulatedLink(t *testing.T) {
	clk := clock.NewMock()
	reg := prometheus.NewRegistry()
	out := &syncBuffer{}

	cfg := testConfig()
	cfg.Classifier.Operator = "ops-team"

	sup, err := New(
		WithConfig(cfg),
		WithClock(clk),
		WithRegistry(reg),
		WithStreamWriter(out),
	)
	require.NoError(t, err)

	sub, err := sup.Subscribe(new(types.EvtClassified), pkgif.BufSize(16))
	require.NoError(t, err)
	defer sub.Close()
	idle, err := sup.Subscribe(new(types.EvtSamplerIdle), pkgif.BufSize(16))
	require.NoError(t, err)
	defer idle.Close()

	ctx := context.Background()
	require.NoError(t, sup.Start(ctx))
	defer sup.Stop(ctx)

	sim := sup.SimStack()
	require.NotNil(t, sim)

	// LinkStarted 触发首次关联
	require.Eventually(t, func() bool { return sim.Attempts() == 1 }, waitFor, time.Millisecond)
	assert.Equal(t, types.StateConnecting, sup.Status().State)

	// 启动时的首次采样发生在连接之前
	select {
	case <-idle.Out():
	case <-time.After(waitFor):
		t.Fatal("sampler did not report idle before association")
	}

	clk.Add(100 * time.Millisecond)
	require.Eventually(t, sup.Connected, waitFor, time.Millisecond)

	// 第一个采样周期到期，快照经队列送达分类器
	clk.Add(4900 * time.Millisecond)
	select {
	case evt := <-sub.Out():
		c := evt.(types.EvtClassified)
		assert.True(t, c.Trusted())
		assert.Equal(t, "gigi5g", c.Snapshot.Identifier)
	case <-time.After(waitFor):
		t.Fatal("no classification received")
	}

	// 切换到不可信网络
	sim.SetIdentifier("cafe-guest")
	clk.Add(5 * time.Second)
	select {
	case evt := <-sub.Out():
		c := evt.(types.EvtClassified)
		assert.False(t, c.Trusted())
		assert.Equal(t, "ops-team", c.Operator)
	case <-time.After(waitFor):
		t.Fatal("no alert received")
	}

	// 链路丢失后自动重连，重试计数在获取地址后归零
	require.NoError(t, sim.Drop())
	require.Eventually(t, func() bool { return sim.Attempts() == 2 }, waitFor, time.Millisecond)
	assert.Equal(t, 1, sup.Status().Retries)

	clk.Add(100 * time.Millisecond)
	require.Eventually(t, sup.Connected, waitFor, time.Millisecond)
	assert.Equal(t, 0, sup.Status().Retries)

	stats := sup.Stats()
	assert.Equal(t, uint64(1), stats.Classifier.Trusted)
	assert.Equal(t, uint64(1), stats.Classifier.Alerts)
	assert.Equal(t, uint64(2), stats.AssociationAttempts)
	assert.Equal(t, 10, stats.QueueCap)
	assert.Greater(t, stats.Heartbeats, uint64(1))
	assert.Less(t, stats.MaxHeartbeatGap, cfg.Liveness.WatchdogTimeout.Duration())

	trusted, err := sup.IsTrusted(ctx, "REDE_SEGURA_1")
	require.NoError(t, err)
	assert.True(t, trusted)

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(sup.c.Collector.AssociationAttempts) == 2
	}, waitFor, time.Millisecond)

	require.NoError(t, sup.Stop(ctx))

	stream := out.String()
	assert.Contains(t, stream, `=== linkguard supervisor | operator="ops-team" trusted=5 max_retry=10 ===`)
	assert.Contains(t, stream, "["+types.EventConnectionStateChanged+"]")
	assert.Contains(t, stream, `operator="ops-team"`)
	assert.Contains(t, stream, `ssid="cafe-guest"`)
}

// ============================================================================
// 外部协作方
// ============================================================================

func TestSupervisor_ExternalCollaborators(t *testing.T) {
	ctrl := gomock.NewController(t)
	wd := mocks.NewMockWatchdog(ctrl)
	wd.EXPECT().Register().Return(nil).Times(1)
	wd.EXPECT().Reset().Return(nil).AnyTimes()

	stack := mocks.NewMockStack(8)
	stack.Info = types.AssociationInfo{Identifier: "LAB_CORPORATIVO", SignalStrength: -61}

	sup, err := New(
		WithConfig(testConfig()),
		WithClock(clock.NewMock()),
		WithNetworkStack(stack),
		WithWatchdog(wd),
	)
	require.NoError(t, err)
	assert.Nil(t, sup.SimStack())

	ctx := context.Background()
	require.NoError(t, sup.Start(ctx))

	stack.Push(types.LinkStarted)
	require.Eventually(t, func() bool { return stack.Associations() == 1 }, waitFor, time.Millisecond)

	stack.Push(types.AddressAcquired)
	require.Eventually(t, sup.Connected, waitFor, time.Millisecond)

	require.NoError(t, sup.Stop(ctx))
}

func TestSupervisor_WatchdogRegisterFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	wd := mocks.NewMockWatchdog(ctrl)
	wd.EXPECT().Register().Return(errors.New("no watchdog device"))

	sup, err := New(
		WithConfig(testConfig()),
		WithClock(clock.NewMock()),
		WithWatchdog(wd),
	)
	require.NoError(t, err)

	err = sup.Start(context.Background())
	assert.ErrorContains(t, err, "no watchdog device")
	assert.Equal(t, StateStopped, sup.State())
}

// ============================================================================
// 软件看门狗
// ============================================================================

func TestSupervisor_SoftWatchdogExpiry(t *testing.T) {
	clk := clock.NewMock()
	expired := make(chan struct{})

	sup, err := New(
		WithConfig(testConfig()),
		WithClock(clk),
		WithExpiryHandler(func() { close(expired) }),
	)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sup.Start(ctx))
	defer sup.Stop(ctx)

	// 心跳持续时看门狗不会超时
	for i := 0; i < 10; i++ {
		clk.Add(2 * time.Second)
	}
	select {
	case <-expired:
		t.Fatal("watchdog expired while heartbeats were running")
	default:
	}

	// 停止心跳后一个超时周期内触发
	require.NoError(t, sup.c.Liveness.Stop())
	clk.Add(8 * time.Second)

	select {
	case <-expired:
	case <-time.After(waitFor):
		t.Fatal("watchdog did not expire after heartbeats stopped")
	}
}
