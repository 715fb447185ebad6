package reporter

import (
	"time"

	"github.com/dep2p/go-linkguard/pkg/types"
)

// Record 事件流中的一条记录
//
// 同一条记录同时用于标准输出事件流和遥测通道。
type Record struct {
	Type   string         `json:"type"`
	Time   time.Time      `json:"time"`
	Boot   string         `json:"boot,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// NewRecord 把事件转换为记录，未知事件返回 ok=false
func NewRecord(evt interface{}) (rec Record, ok bool) {
	e, isEvent := evt.(types.Event)
	if !isEvent {
		return Record{}, false
	}
	rec = Record{Type: e.Type(), Time: e.Timestamp()}

	switch v := evt.(type) {
	case types.EvtConnectionStateChanged:
		rec.Fields = map[string]any{
			"from":    v.Previous.String(),
			"to":      v.Current.String(),
			"retries": v.Retries,
			"cause":   v.Cause.String(),
		}
	case types.EvtAssociationAttempt:
		rec.Fields = map[string]any{"retry": v.Retry}
	case types.EvtRetryExhausted:
		rec.Fields = map[string]any{"retries": v.Retries}
	case types.EvtLinkSampled:
		rec.Fields = snapshotFields(v.Snapshot)
		rec.Fields["queue_len"] = v.QueueLen
	case types.EvtSampleDropped:
		rec.Fields = snapshotFields(v.Snapshot)
	case types.EvtSamplerIdle:
	case types.EvtClassified:
		rec.Fields = snapshotFields(v.Snapshot)
		rec.Fields["verdict"] = v.Verdict.String()
		rec.Fields["fail_closed"] = v.FailClosed
		if !v.Trusted() && v.Operator != "" {
			rec.Fields["operator"] = v.Operator
		}
	case types.EvtClassifierIdle:
		rec.Fields = map[string]any{"waited_ms": v.Waited.Milliseconds()}
	case types.EvtHeartbeat:
		rec.Fields = map[string]any{"seq": v.Seq}
		if v.ResetErr != nil {
			rec.Fields["reset_error"] = v.ResetErr.Error()
		}
	case types.EvtWatchdogExpired:
		rec.Fields = map[string]any{"timeout_ms": v.Timeout.Milliseconds()}
	default:
		return Record{}, false
	}
	return rec, true
}

func snapshotFields(s types.LinkSnapshot) map[string]any {
	return map[string]any{
		"ssid":           s.Identifier,
		"rssi":           s.SignalStrength,
		"captured_at_us": s.CapturedAtMicros,
	}
}
