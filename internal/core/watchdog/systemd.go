package watchdog

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
	"github.com/dep2p/go-linkguard/pkg/types"
)

// Systemd systemd 服务看门狗
//
// Register 发送 READY=1 并读取 WATCHDOG_USEC，Reset 发送 WATCHDOG=1。
// 未运行在 systemd 下（NOTIFY_SOCKET 未设置）时通知静默失败。
type Systemd struct {
	heartbeat  time.Duration
	interval   time.Duration
	registered atomic.Bool
	sent       atomic.Uint64
}

var _ pkgif.Watchdog = (*Systemd)(nil)

// NewSystemd 创建 systemd 看门狗，heartbeat 用于校验 WatchdogSec 设置是否足够
func NewSystemd(heartbeat time.Duration) *Systemd {
	return &Systemd{heartbeat: heartbeat}
}

// Register 通知 systemd 服务就绪
func (s *Systemd) Register() error {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		return fmt.Errorf("systemd watchdog: %w", err)
	}
	s.interval = interval

	switch {
	case interval == 0:
		logger.Warn("systemd 看门狗未启用（WATCHDOG_USEC 未设置），仅发送存活通知")
	case s.heartbeat > 0 && interval < 2*s.heartbeat:
		logger.Warn("systemd WatchdogSec 小于两倍心跳周期",
			"watchdogSec", interval,
			"heartbeat", s.heartbeat)
	default:
		logger.Info("systemd 看门狗已启用", "watchdogSec", interval)
	}

	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		return fmt.Errorf("systemd notify ready: %w", err)
	}
	s.registered.Store(true)
	return nil
}

// Reset 发送 WATCHDOG=1
func (s *Systemd) Reset() error {
	if !s.registered.Load() {
		return types.ErrWatchdogNotRegistered
	}
	ok, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog)
	if err != nil {
		return fmt.Errorf("systemd notify watchdog: %w", err)
	}
	if ok {
		s.sent.Add(1)
	}
	return nil
}

// Interval 返回 systemd 配置的看门狗间隔，未启用时为 0
func (s *Systemd) Interval() time.Duration {
	return s.interval
}

// Sent 返回成功送达的通知数
func (s *Systemd) Sent() uint64 {
	return s.sent.Load()
}
