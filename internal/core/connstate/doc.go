// Package connstate 实现连接状态机
//
// 状态机由纯函数 Transition 描述，Machine 负责消费网络栈事件、
// 执行副作用并原子发布当前状态。
//
// 状态转换：
//
//	Disconnected/Connecting --LinkStarted-->     Connecting   (关联)
//	Connected               --LinkStarted-->     Connected    (无动作)
//	任意状态                --LinkLost, r<max--> Connecting   (r+1, 关联)
//	任意状态                --LinkLost, r>=max-> Disconnected (重试耗尽)
//	任意状态                --AddressAcquired--> Connected    (r=0)
//
// 重试耗尽后只有 AddressAcquired 能把计数器清零；之后的 LinkStarted
// 仍会发起关联，LinkLost 仍会报告耗尽。
//
// 状态与计数器只由 Machine 的事件循环写入，其他组件通过
// Connected / Status 读取原子快照。
package connstate
