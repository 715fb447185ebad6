// Package eventbus 实现进程内事件总线
//
// 核心组件通过事件总线发布可观测输出：连接状态变更、关联尝试、重试耗尽、
// 链路采样、样本丢弃、分类结论、空闲报告、心跳。日志、指标、遥测各自订阅。
//
// 提供类型安全的事件发布/订阅机制，支持：
//   - 多订阅者、多类型订阅
//   - 缓冲区配置
//   - 发射器引用计数
//   - 有状态模式（Stateful）
//
// # 快速开始
//
//	bus := eventbus.NewBus()
//
//	sub, _ := bus.Subscribe([]interface{}{
//	    new(types.EvtClassified),
//	    new(types.EvtHeartbeat),
//	})
//	defer sub.Close()
//
//	em, _ := bus.Emitter(new(types.EvtHeartbeat))
//	defer em.Close()
//	em.Emit(types.EvtHeartbeat{Seq: 1})
//
// # 投递语义
//
// 发射方永不阻塞。订阅者缓冲区满时丢弃该订阅者的这一份事件并计数，
// 慢消费者告警按间隔采样输出，避免日志泛滥。
package eventbus
