// Package allowlist 实现可信网络白名单守卫
//
// 白名单在构造时固定，之后只读。每次查询都要在限定时间内获取
// 访问许可，获取失败一律按不可信处理（fail-closed）：
//
//	guard, _ := allowlist.New(cfg.Networks, 300*time.Millisecond)
//	ok, err := guard.IsTrusted(ctx, "gigi5g")
//	if errors.Is(err, types.ErrLockTimeout) {
//	    // ok == false
//	}
//
// 比较是逐字节精确匹配，区分大小写，不做前缀或去空白处理。
package allowlist
