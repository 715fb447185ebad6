// Package linkguard 提供无线连接监控器
//
// LinkGuard 监控单个无线站点接口：维护连接状态机并在链路丢失后有限次重连，
// 周期采样链路质量，按可信网络白名单对当前网络做安全分类，
// 并定期复位看门狗以证明自身存活。
//
// # 核心概念
//
//   - Supervisor: 监控器，用户交互的主入口
//   - NetworkStack: 网络栈协作方，投递链路事件、接受关联请求
//   - Watchdog: 看门狗协作方，超时未复位即由外部重启
//
// # 快速开始
//
//	import "github.com/dep2p/go-linkguard"
//
//	sup, err := linkguard.New(
//	    linkguard.WithConfig(cfg),
//	    linkguard.WithNetworkStack(stack),
//	    linkguard.WithStreamWriter(os.Stdout),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := sup.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer sup.Stop(context.Background())
//
// # 任务结构
//
//	┌──────────────┐  LinkEvent   ┌──────────────┐ connected ┌──────────────┐
//	│ NetworkStack │ ───────────▶ │  connstate   │ ────────▶ │   sampler    │
//	└──────────────┘ ◀─────────── └──────────────┘           └──────┬───────┘
//	                  Associate                                     │ snapshot
//	                                                                ▼
//	┌──────────────┐    Reset     ┌──────────────┐           ┌──────────────┐
//	│   Watchdog   │ ◀─────────── │   liveness   │           │    queue     │
//	└──────────────┘              └──────────────┘           └──────┬───────┘
//	                                                                ▼
//	                              ┌──────────────┐ IsTrusted ┌──────────────┐
//	                              │  allowlist   │ ◀──────── │  classifier  │
//	                              └──────────────┘           └──────────────┘
//
// 所有组件的可观测输出都经由事件总线发布，
// 由 reporter（逐行事件流）、metrics（Prometheus）和 telemetry（Redis）消费。
//
// # 文件组织
//
//	linkguard.go   版本信息
//	supervisor.go  Supervisor 生命周期与查询
//	options.go     用户选项
//	fx.go          Fx 模块装配
//	errors.go      公共错误
package linkguard
