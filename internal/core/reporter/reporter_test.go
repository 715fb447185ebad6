package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-linkguard/internal/core/eventbus"
	"github.com/dep2p/go-linkguard/pkg/types"
)

var at = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewRecord(t *testing.T) {
	tests := []struct {
		name   string
		evt    interface{}
		typ    string
		fields map[string]any
	}{
		{
			name: "StateChanged",
			evt: types.EvtConnectionStateChanged{
				BaseEvent: types.NewBaseEvent(types.EventConnectionStateChanged, at),
				Previous:  types.StateConnected,
				Current:   types.StateConnecting,
				Retries:   1,
				Cause:     types.LinkLost,
			},
			typ: types.EventConnectionStateChanged,
			fields: map[string]any{
				"from": "connected", "to": "connecting", "retries": 1, "cause": "link-lost",
			},
		},
		{
			name: "Alert",
			evt: types.EvtClassified{
				BaseEvent: types.NewBaseEvent(types.EventClassified, at),
				Classification: types.Classification{
					Snapshot: types.LinkSnapshot{Identifier: "evil-twin", SignalStrength: -40, CapturedAtMicros: 7},
					Verdict:  types.VerdictAlert,
				},
				Operator: "Supervisor Giovanna",
			},
			typ: types.EventClassified,
			fields: map[string]any{
				"ssid": "evil-twin", "rssi": int8(-40), "captured_at_us": int64(7),
				"verdict": "alert, unauthorized network", "fail_closed": false,
				"operator": "Supervisor Giovanna",
			},
		},
		{
			name: "TrustedOmitsOperator",
			evt: types.EvtClassified{
				BaseEvent:      types.NewBaseEvent(types.EventClassified, at),
				Classification: types.Classification{Snapshot: types.LinkSnapshot{Identifier: "gigi5g"}, Verdict: types.VerdictTrusted},
				Operator:       "Supervisor Giovanna",
			},
			typ: types.EventClassified,
			fields: map[string]any{
				"ssid": "gigi5g", "rssi": int8(0), "captured_at_us": int64(0),
				"verdict": "trusted", "fail_closed": false,
			},
		},
		{
			name: "HeartbeatWithError",
			evt: types.EvtHeartbeat{
				BaseEvent: types.NewBaseEvent(types.EventHeartbeat, at),
				Seq:       9,
				ResetErr:  errors.New("busy"),
			},
			typ:    types.EventHeartbeat,
			fields: map[string]any{"seq": uint64(9), "reset_error": "busy"},
		},
		{
			name: "SamplerIdle",
			evt:  types.EvtSamplerIdle{BaseEvent: types.NewBaseEvent(types.EventSamplerIdle, at)},
			typ:  types.EventSamplerIdle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := NewRecord(tt.evt)
			require.True(t, ok)
			assert.Equal(t, tt.typ, rec.Type)
			assert.Equal(t, at, rec.Time)
			assert.Equal(t, tt.fields, rec.Fields)
		})
	}

	_, ok := NewRecord("not an event")
	assert.False(t, ok)
}

func TestFormatLine(t *testing.T) {
	line := FormatLine(Record{
		Type:   types.EventLinkSampled,
		Time:   at,
		Fields: map[string]any{"ssid": "gigi5g", "rssi": int8(-48), "queue_len": 1},
	})
	assert.Equal(t, `2024-03-01T12:00:00.000Z [sampler.sampled] queue_len=1 rssi=-48 ssid="gigi5g"`+"\n", line)
}

func TestReporter_JSON(t *testing.T) {
	var buf bytes.Buffer
	r, err := New(&buf, FormatJSON, nil)
	require.NoError(t, err)

	require.NoError(t, r.Write(types.EvtRetryExhausted{
		BaseEvent: types.NewBaseEvent(types.EventRetryExhausted, at),
		Retries:   10,
	}))

	var rec Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, types.EventRetryExhausted, rec.Type)
	assert.Equal(t, float64(10), rec.Fields["retries"])
	assert.Equal(t, uint64(1), r.Written())
}

func TestReporter_Banner(t *testing.T) {
	var buf bytes.Buffer
	r, err := New(&buf, "", nil)
	require.NoError(t, err)

	require.NoError(t, r.Banner("Supervisor Giovanna", []string{"a", "b"}, 10))
	assert.Equal(t, `=== linkguard supervisor | operator="Supervisor Giovanna" trusted=2 max_retry=10 ===`+"\n", buf.String())
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(nil, FormatText, nil)
	assert.Error(t, err)
	_, err = New(&bytes.Buffer{}, "xml", nil)
	assert.Error(t, err)
}

// TestReporter_OneLinePerEvent 每个事件恰好输出一行
func TestReporter_OneLinePerEvent(t *testing.T) {
	var buf syncBuffer
	bus := eventbus.NewBus()
	r, err := New(&buf, FormatText, bus)
	require.NoError(t, err)
	require.NoError(t, r.Start(context.Background()))

	em, err := bus.Emitter(new(types.EvtHeartbeat))
	require.NoError(t, err)
	defer em.Close()

	for i := 1; i <= 3; i++ {
		require.NoError(t, em.Emit(types.EvtHeartbeat{
			BaseEvent: types.NewBaseEvent(types.EventHeartbeat, at),
			Seq:       uint64(i),
		}))
	}

	require.Eventually(t, func() bool { return r.Written() == 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, r.Stop())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "seq=1")
	assert.Contains(t, lines[2], "seq=3")
}
