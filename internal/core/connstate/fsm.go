package connstate

import "github.com/dep2p/go-linkguard/pkg/types"

// Effect 状态转换产生的副作用
type Effect int

const (
	// EffectAssociate 请求网络栈（重新）关联
	EffectAssociate Effect = iota + 1
	// EffectRetryExhausted 报告重试耗尽
	EffectRetryExhausted
)

// String 返回副作用名称
func (e Effect) String() string {
	switch e {
	case EffectAssociate:
		return "associate"
	case EffectRetryExhausted:
		return "retry-exhausted"
	default:
		return "unknown"
	}
}

// Transition 计算一次事件处理后的状态和副作用
//
// 纯函数，不依赖调度器或网络栈。未知事件不改变状态。
// maxRetry < 0 按 0 处理。
func Transition(s types.ConnectionStatus, ev types.LinkEvent, maxRetry int) (types.ConnectionStatus, []Effect) {
	if maxRetry < 0 {
		maxRetry = 0
	}

	switch ev {
	case types.LinkStarted:
		if s.State == types.StateConnected {
			return s, nil
		}
		s.State = types.StateConnecting
		return s, []Effect{EffectAssociate}

	case types.LinkLost:
		if s.Retries < maxRetry {
			s.Retries++
			s.State = types.StateConnecting
			return s, []Effect{EffectAssociate}
		}
		s.State = types.StateDisconnected
		return s, []Effect{EffectRetryExhausted}

	case types.AddressAcquired:
		s.State = types.StateConnected
		s.Retries = 0
		return s, nil

	default:
		return s, nil
	}
}
