package simlink

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-linkguard/config"
	"github.com/dep2p/go-linkguard/pkg/types"
)

func newTestStack(t *testing.T, failAttempts int) (*Stack, *clock.Mock) {
	t.Helper()
	clk := clock.NewMock()
	cfg := config.DefaultSimConfig()
	cfg.FailAttempts = failAttempts
	s := New(cfg, clk)
	t.Cleanup(func() { _ = s.Stop() })
	return s, clk
}

func nextEvent(t *testing.T, s *Stack) types.LinkEvent {
	t.Helper()
	select {
	case ev, ok := <-s.Events():
		require.True(t, ok, "event channel closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for link event")
		return 0
	}
}

func TestStack_StartEmitsLinkStarted(t *testing.T) {
	s, _ := newTestStack(t, 0)

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, types.LinkStarted, nextEvent(t, s))

	// 重复启动不再投递
	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, int64(1), s.Emitted())
}

func TestStack_AssociationSucceeds(t *testing.T) {
	s, clk := newTestStack(t, 0)

	_, err := s.AssociationInfo()
	assert.ErrorIs(t, err, types.ErrAssociationUnavailable)

	s.TriggerAssociation()
	clk.Add(499 * time.Millisecond)
	assert.Equal(t, 0, len(s.Events()))

	clk.Add(time.Millisecond)
	assert.Equal(t, types.AddressAcquired, nextEvent(t, s))
	assert.True(t, s.Associated())

	info, err := s.AssociationInfo()
	require.NoError(t, err)
	assert.Equal(t, "gigi5g", info.Identifier)
	assert.Equal(t, int8(-55), info.SignalStrength)
}

func TestStack_FailAttempts(t *testing.T) {
	s, clk := newTestStack(t, 2)

	for i := 0; i < 2; i++ {
		s.TriggerAssociation()
		clk.Add(500 * time.Millisecond)
		assert.Equal(t, types.LinkLost, nextEvent(t, s))
		assert.False(t, s.Associated())
	}

	s.TriggerAssociation()
	clk.Add(500 * time.Millisecond)
	assert.Equal(t, types.AddressAcquired, nextEvent(t, s))
	assert.Equal(t, int64(3), s.Attempts())

	s.Fail(1)
	s.TriggerAssociation()
	assert.False(t, s.Associated())
	clk.Add(500 * time.Millisecond)
	assert.Equal(t, types.LinkLost, nextEvent(t, s))
}

func TestStack_DropAndMutate(t *testing.T) {
	s, clk := newTestStack(t, 0)

	s.TriggerAssociation()
	clk.Add(500 * time.Millisecond)
	require.Equal(t, types.AddressAcquired, nextEvent(t, s))

	s.SetIdentifier("cafe-guest")
	s.SetSignalStrength(-80)
	info, err := s.AssociationInfo()
	require.NoError(t, err)
	assert.Equal(t, types.AssociationInfo{Identifier: "cafe-guest", SignalStrength: -80}, info)

	require.NoError(t, s.Drop())
	assert.Equal(t, types.LinkLost, nextEvent(t, s))
	_, err = s.AssociationInfo()
	assert.ErrorIs(t, err, types.ErrAssociationUnavailable)
}

func TestStack_Stop(t *testing.T) {
	s, clk := newTestStack(t, 0)

	s.TriggerAssociation()
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())

	// 停止后挂起的关联不再产生事件，通道已关闭
	clk.Add(time.Second)
	_, ok := <-s.Events()
	assert.False(t, ok)

	assert.ErrorIs(t, s.Drop(), ErrStackClosed)
	s.TriggerAssociation()
	assert.Equal(t, int64(0), s.Emitted())
}

func TestStack_StopUnblocksFullChannel(t *testing.T) {
	s, _ := newTestStack(t, 0)

	for i := 0; i < eventBuffer; i++ {
		require.NoError(t, s.Drop())
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.Drop() }()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.Stop())

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrStackClosed)
	case <-time.After(time.Second):
		t.Fatal("blocked emit not released by Stop")
	}
}
