package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
	"github.com/dep2p/go-linkguard/pkg/lib/log"
	"github.com/dep2p/go-linkguard/pkg/types"
)

var logger = log.Logger("core/metrics")

// subscriptionBuffer 指标订阅的缓冲区
const subscriptionBuffer = 256

// Collector 事件驱动的 Prometheus 指标
type Collector struct {
	gatherer prometheus.Gatherer
	bus      pkgif.EventBus

	ConnectionState     prometheus.Gauge
	ConnectionRetries   prometheus.Gauge
	AssociationAttempts prometheus.Counter
	RetryExhausted      prometheus.Counter

	Samples        prometheus.Counter
	SamplesDropped prometheus.Counter
	SamplerIdle    prometheus.Counter
	SignalStrength prometheus.Gauge
	QueueLength    prometheus.Gauge

	Verdicts       *prometheus.CounterVec
	ClassifierIdle prometheus.Counter
	alerts         *RateMeter

	Heartbeats            prometheus.Counter
	WatchdogResetFailures prometheus.Counter
	WatchdogExpired       prometheus.Counter

	observed atomic.Uint64

	sub    pkgif.Subscription
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCollector 在 reg 上注册全部指标
//
// reg 为 nil 时使用 Prometheus 全局注册表；bus 实现 EventBusStats 时
// 额外导出事件丢弃计数。
func NewCollector(reg prometheus.Registerer, namespace string, bus pkgif.EventBus, clk clock.Clock) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{
		gatherer: gatherer,
		bus:      bus,
		alerts:   NewRateMeter(clk),

		ConnectionState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connection_state",
			Help:      "Current connection state (0 disconnected, 1 connecting, 2 connected).",
		}),
		ConnectionRetries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connection_retries",
			Help:      "Current reconnection retry counter.",
		}),
		AssociationAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "association_attempts_total",
			Help:      "Association requests issued to the network stack.",
		}),
		RetryExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retry_exhausted_total",
			Help:      "Link losses that found the retry budget exhausted.",
		}),
		Samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Link samples taken while connected.",
		}),
		SamplesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_dropped_total",
			Help:      "Samples discarded because the queue was full.",
		}),
		SamplerIdle: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sampler_idle_total",
			Help:      "Sampling periods skipped because the link was not connected.",
		}),
		SignalStrength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "signal_strength_dbm",
			Help:      "Signal strength of the most recent sample.",
		}),
		QueueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_length",
			Help:      "Sample queue length after the most recent sample.",
		}),
		Verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "Classification verdicts, labeled by verdict and fail-closed flag.",
		}, []string{"verdict", "fail_closed"}),
		ClassifierIdle: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifier_idle_total",
			Help:      "Classifier receive windows that ended without a sample.",
		}),
		Heartbeats: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "heartbeats_total",
			Help:      "Liveness heartbeats emitted.",
		}),
		WatchdogResetFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "watchdog_reset_failures_total",
			Help:      "Heartbeats whose watchdog reset failed.",
		}),
		WatchdogExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "watchdog_expired_total",
			Help:      "Software watchdog expirations.",
		}),
	}

	collectors := []prometheus.Collector{
		c.ConnectionState,
		c.ConnectionRetries,
		c.AssociationAttempts,
		c.RetryExhausted,
		c.Samples,
		c.SamplesDropped,
		c.SamplerIdle,
		c.SignalStrength,
		c.QueueLength,
		c.Verdicts,
		c.ClassifierIdle,
		c.Heartbeats,
		c.WatchdogResetFailures,
		c.WatchdogExpired,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alerts_per_minute",
			Help:      "Alert verdicts within the last 60 seconds.",
		}, func() float64 { return float64(c.alerts.Window()) }),
	}
	if stats, ok := bus.(pkgif.EventBusStats); ok {
		collectors = append(collectors, prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eventbus_dropped_total",
			Help:      "Events dropped because a subscriber buffer was full.",
		}, func() float64 { return float64(stats.Dropped()) }))
	}

	for _, col := range collectors {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return c, nil
}

// Observe 根据一个事件更新指标
func (c *Collector) Observe(evt interface{}) {
	c.observed.Add(1)

	switch e := evt.(type) {
	case types.EvtConnectionStateChanged:
		c.ConnectionState.Set(float64(e.Current))
		c.ConnectionRetries.Set(float64(e.Retries))
	case types.EvtAssociationAttempt:
		c.AssociationAttempts.Inc()
	case types.EvtRetryExhausted:
		c.RetryExhausted.Inc()
	case types.EvtLinkSampled:
		c.Samples.Inc()
		c.SignalStrength.Set(float64(e.Snapshot.SignalStrength))
		c.QueueLength.Set(float64(e.QueueLen))
	case types.EvtSampleDropped:
		c.SamplesDropped.Inc()
	case types.EvtSamplerIdle:
		c.SamplerIdle.Inc()
	case types.EvtClassified:
		verdict := "alert"
		if e.Trusted() {
			verdict = "trusted"
		} else {
			c.alerts.Mark(1)
		}
		c.Verdicts.WithLabelValues(verdict, strconv.FormatBool(e.FailClosed)).Inc()
	case types.EvtClassifierIdle:
		c.ClassifierIdle.Inc()
	case types.EvtHeartbeat:
		c.Heartbeats.Inc()
		if e.ResetErr != nil {
			c.WatchdogResetFailures.Inc()
		}
	case types.EvtWatchdogExpired:
		c.WatchdogExpired.Inc()
	}
}

// Observed 返回已处理事件数
func (c *Collector) Observed() uint64 {
	return c.observed.Load()
}

// Handler 返回 /metrics 处理器
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// Start 订阅事件总线
func (c *Collector) Start(_ context.Context) error {
	if c.bus == nil {
		return errors.New("metrics: event bus is nil")
	}
	sub, err := c.bus.Subscribe(types.AllEvents(), pkgif.BufSize(subscriptionBuffer))
	if err != nil {
		return fmt.Errorf("metrics subscribe: %w", err)
	}
	c.sub = sub

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.wg.Add(1)
	go c.loop(ctx)
	return nil
}

// Stop 取消订阅
func (c *Collector) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	if c.sub != nil {
		c.sub.Close()
	}
	c.wg.Wait()
	return nil
}

func (c *Collector) loop(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-c.sub.Out():
			if !ok {
				return
			}
			c.Observe(evt)
		}
	}
}
