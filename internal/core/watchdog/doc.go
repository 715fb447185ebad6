// Package watchdog 提供看门狗协作方实现
//
// 两种实现：
//
//   - Soft: 进程内软件看门狗，超时未复位时回调 ExpiryFunc（通常令进程以非零码退出，
//     交由外部守护重启）
//   - Systemd: 通过 sd_notify 向 systemd 发送 WATCHDOG=1，超时由 systemd 处理
//
// 两者都实现 interfaces.Watchdog，由配置 liveness.watchdog 选择。
package watchdog
