// Package main 提供 linkguard 命令行入口
//
// 事件流逐行输出到标准输出，运行日志输出到标准错误（或 log.file）。
// 未接入真实驱动时使用模拟网络栈（配置见 sim 段）。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	linkguard "github.com/dep2p/go-linkguard"
	"github.com/dep2p/go-linkguard/config"
	"github.com/dep2p/go-linkguard/pkg/lib/log"
)

var logger = log.Logger("linkguard/cmd")

// shutdownTimeout 优雅关闭超时
const shutdownTimeout = 10 * time.Second

// errWatchdogExpired 软件看门狗超时，进程以非零状态退出交给进程管理器重启
var errWatchdogExpired = errors.New("watchdog expired, restart required")

var (
	configFile  = flag.String("config", "", "配置文件路径（.json / .yaml）")
	dropEvery   = flag.Duration("sim-drop-every", 0, "模拟网络栈每隔多久丢失一次关联（0 = 不丢失）")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(linkguard.VersionInfo())
		return nil
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	closeLog, err := setupLogging(cfg.Log)
	if err != nil {
		return fmt.Errorf("设置日志失败: %w", err)
	}
	defer closeLog()

	logger.Info("启动 linkguard", "version", linkguard.Version, "commit", linkguard.GitCommit, "buildDate", linkguard.BuildDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	expired := make(chan struct{})
	var expireOnce sync.Once

	sup, err := linkguard.New(
		linkguard.WithConfig(cfg),
		linkguard.WithStreamWriter(os.Stdout),
		linkguard.WithExpiryHandler(func() {
			expireOnce.Do(func() { close(expired) })
		}),
	)
	if err != nil {
		return fmt.Errorf("创建监控器失败: %w", err)
	}
	if err := sup.Start(ctx); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case <-gctx.Done():
			return nil
		case <-expired:
			logger.Error("看门狗超时，退出进程")
			return errWatchdogExpired
		}
	})

	if cfg.Metrics.Enabled {
		serveMetrics(gctx, g, cfg.Metrics.Addr, sup)
	}

	if *dropEvery > 0 && sup.SimStack() != nil {
		g.Go(func() error {
			return dropLoop(gctx, sup, *dropEvery)
		})
	}

	err = g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if serr := sup.Stop(shutdownCtx); serr != nil {
		logger.Warn("停止监控器失败", "error", serr)
	}

	stats := sup.Stats()
	logger.Info("linkguard 已退出",
		"linkEvents", stats.LinkEvents,
		"samples", stats.SamplesPublished,
		"dropped", stats.SamplesDropped,
		"trusted", stats.Classifier.Trusted,
		"alerts", stats.Classifier.Alerts,
		"heartbeats", stats.Heartbeats)
	return err
}

// setupLogging 按配置设置默认 logger，返回关闭日志文件的函数
func setupLogging(cfg config.LogConfig) (func(), error) {
	if cfg.File == "" {
		return func() {}, log.Setup(os.Stderr, cfg.Level, cfg.Format)
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // G304: 用户指定的日志路径
	if err != nil {
		return func() {}, err
	}
	if err := log.Setup(f, cfg.Level, cfg.Format); err != nil {
		_ = f.Close()
		return func() {}, err
	}
	return func() { _ = f.Close() }, nil
}

// serveMetrics 启动 /metrics HTTP 服务，随 gctx 结束而关闭
func serveMetrics(gctx context.Context, g *errgroup.Group, addr string, sup *linkguard.Supervisor) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", sup.MetricsHandler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		logger.Info("暴露 Prometheus 指标", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	})
}

// dropLoop 周期性让模拟网络栈丢失关联，演示重连
func dropLoop(ctx context.Context, sup *linkguard.Supervisor, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !sup.Connected() {
				continue
			}
			logger.Info("模拟关联丢失")
			if err := sup.SimStack().Drop(); err != nil {
				logger.Warn("模拟关联丢失失败", "error", err)
			}
		}
	}
}
