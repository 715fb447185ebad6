// Package reporter 把监控事件写成面向运维的事件流
//
// 每个事件恰好输出一行：text 格式便于人读，json 格式便于采集。
// 事件流与诊断日志分开输出。
package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	pkgif "github.com/dep2p/go-linkguard/pkg/interfaces"
	"github.com/dep2p/go-linkguard/pkg/lib/log"
	"github.com/dep2p/go-linkguard/pkg/types"
)

var logger = log.Logger("core/reporter")

// 事件流格式
const (
	FormatText = "text"
	FormatJSON = "json"
)

const subscriptionBuffer = 256

// Reporter 事件流输出
type Reporter struct {
	bus    pkgif.EventBus
	format string

	wmu sync.Mutex
	w   *bufio.Writer

	written atomic.Uint64

	sub    pkgif.Subscription
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New 创建事件流输出
func New(w io.Writer, format string, bus pkgif.EventBus) (*Reporter, error) {
	if w == nil {
		return nil, errors.New("reporter: writer is nil")
	}
	switch format {
	case "":
		format = FormatText
	case FormatText, FormatJSON:
	default:
		return nil, fmt.Errorf("reporter: unknown format %q", format)
	}
	return &Reporter{bus: bus, format: format, w: bufio.NewWriter(w)}, nil
}

// Banner 输出启动横幅
func (r *Reporter) Banner(operator string, networks []string, maxRetry int) error {
	r.wmu.Lock()
	defer r.wmu.Unlock()

	var err error
	if r.format == FormatJSON {
		err = json.NewEncoder(r.w).Encode(Record{
			Type: "supervisor.started",
			Time: time.Now(),
			Fields: map[string]any{
				"operator":  operator,
				"networks":  networks,
				"max_retry": maxRetry,
			},
		})
	} else {
		_, err = fmt.Fprintf(r.w, "=== linkguard supervisor | operator=%q trusted=%d max_retry=%d ===\n",
			operator, len(networks), maxRetry)
	}
	if err != nil {
		return err
	}
	return r.w.Flush()
}

// Write 输出一个事件
func (r *Reporter) Write(evt interface{}) error {
	rec, ok := NewRecord(evt)
	if !ok {
		return nil
	}

	r.wmu.Lock()
	defer r.wmu.Unlock()

	var err error
	if r.format == FormatJSON {
		err = json.NewEncoder(r.w).Encode(rec)
	} else {
		_, err = io.WriteString(r.w, FormatLine(rec))
	}
	if err != nil {
		return err
	}
	r.written.Add(1)
	return r.w.Flush()
}

// Written 返回已输出的事件数
func (r *Reporter) Written() uint64 {
	return r.written.Load()
}

// FormatLine 把记录格式化为一行文本
//
//	2024-01-02T15:04:05.000Z [classifier.classified] fail_closed=false rssi=-48 ssid="gigi5g" verdict="trusted"
func FormatLine(rec Record) string {
	var b strings.Builder
	b.WriteString(rec.Time.UTC().Format("2006-01-02T15:04:05.000Z07:00"))
	b.WriteString(" [")
	b.WriteString(rec.Type)
	b.WriteString("]")

	keys := make([]string, 0, len(rec.Fields))
	for k := range rec.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := rec.Fields[k].(type) {
		case string:
			fmt.Fprintf(&b, " %s=%q", k, v)
		default:
			fmt.Fprintf(&b, " %s=%v", k, v)
		}
	}
	b.WriteByte('\n')
	return b.String()
}

// ============================================================================
// 生命周期
// ============================================================================

// Start 订阅全部事件
func (r *Reporter) Start(_ context.Context) error {
	if r.bus == nil {
		return errors.New("reporter: event bus is nil")
	}
	sub, err := r.bus.Subscribe(types.AllEvents(), pkgif.BufSize(subscriptionBuffer))
	if err != nil {
		return fmt.Errorf("reporter subscribe: %w", err)
	}
	r.sub = sub

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(1)
	go r.loop(ctx)
	return nil
}

// Stop 取消订阅并输出剩余事件
func (r *Reporter) Stop() error {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	if r.sub == nil {
		return nil
	}

	// 取消前已入队的事件仍然输出
drain:
	for {
		select {
		case evt, ok := <-r.sub.Out():
			if !ok {
				break drain
			}
			r.write(evt)
		default:
			break drain
		}
	}
	r.sub.Close()
	return nil
}

func (r *Reporter) loop(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-r.sub.Out():
			if !ok {
				return
			}
			r.write(evt)
		}
	}
}

func (r *Reporter) write(evt interface{}) {
	if err := r.Write(evt); err != nil {
		logger.Warn("事件流写入失败", "err", err)
	}
}
