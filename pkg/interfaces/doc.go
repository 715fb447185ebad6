// Package interfaces 定义 LinkGuard 的公共接口
//
// 外部协作方（网络栈驱动、看门狗）只通过这里的接口接入核心：
//   - link.go       - NetworkStack 网络栈协作方，ConnectionStateReader
//   - watchdog.go   - Watchdog 看门狗协作方
//   - eventbus.go   - 事件总线
//   - supervisor.go - 核心组件接口（TrustChecker, SampleQueue）
package interfaces
