// Package metrics 将监控事件转换为 Prometheus 指标
//
// Collector 订阅事件总线上的全部事件，并维护以下指标（默认命名空间 linkguard）：
//
//	连接
//	  connection_state            当前状态（0 未连接 / 1 连接中 / 2 已连接）
//	  connection_retries          当前重试计数
//	  association_attempts_total  关联请求次数
//	  retry_exhausted_total       重试耗尽次数
//
//	采样
//	  samples_total               已连接时的采样次数
//	  samples_dropped_total       队列满被丢弃的样本数
//	  sampler_idle_total          未连接跳过的周期数
//	  signal_strength_dbm         最近一次信号强度
//	  queue_length                最近一次采样后的队列长度
//
//	分类
//	  verdicts_total{verdict,fail_closed}  分类结论次数
//	  classifier_idle_total                接收超时次数
//	  alerts_per_minute                    最近 60 秒告警数
//
//	存活
//	  heartbeats_total                  心跳次数
//	  watchdog_reset_failures_total     看门狗复位失败次数
//	  watchdog_expired_total            软件看门狗超时次数
//
//	事件总线
//	  eventbus_dropped_total            因订阅者缓冲区满被丢弃的事件数
//
// 使用示例：
//
//	reg := prometheus.NewRegistry()
//	c, _ := metrics.NewCollector(reg, "linkguard", bus, clk)
//	_ = c.Start(ctx)
//	http.Handle("/metrics", c.Handler())
package metrics
