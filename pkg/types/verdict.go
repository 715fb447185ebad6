package types

// ============================================================================
//                              Verdict - 分类结论
// ============================================================================

// Verdict 安全分类结论
type Verdict int

const (
	// VerdictAlert 未授权网络（默认值，失败即关闭）
	VerdictAlert Verdict = iota
	// VerdictTrusted 可信网络
	VerdictTrusted
)

// String 返回结论的字符串表示
func (v Verdict) String() string {
	switch v {
	case VerdictTrusted:
		return "trusted"
	default:
		return "alert, unauthorized network"
	}
}

// Classification 单个快照的分类结果
type Classification struct {
	Snapshot LinkSnapshot
	Verdict  Verdict

	// FailClosed 为 true 表示未能在时限内获取白名单锁，按不可信处理
	FailClosed bool
}

// Trusted 是否为可信结论
func (c Classification) Trusted() bool {
	return c.Verdict == VerdictTrusted
}
