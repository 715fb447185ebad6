package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/dep2p/go-linkguard/pkg/types"
)

// ============================================================================
// 并发测试
// ============================================================================

// TestConcurrent_MultipleEmitters 测试多发射器并发
func TestConcurrent_MultipleEmitters(t *testing.T) {
	bus := NewBus()

	sub, _ := bus.Subscribe(new(types.EvtHeartbeat), BufSize(100))
	defer sub.Close()

	numEmitters := 10
	eventsPerEmitter := 10

	var wg sync.WaitGroup
	wg.Add(numEmitters)

	for i := 0; i < numEmitters; i++ {
		go func(id int) {
			defer wg.Done()

			em, _ := bus.Emitter(new(types.EvtHeartbeat))
			defer em.Close()

			for j := 0; j < eventsPerEmitter; j++ {
				em.Emit(types.EvtHeartbeat{Seq: uint64(id*1000 + j)})
			}
		}(i)
	}

	wg.Wait()

	received := 0
	timeout := time.After(time.Second)

loop:
	for {
		select {
		case <-sub.Out():
			received++
			if received >= numEmitters*eventsPerEmitter {
				break loop
			}
		case <-timeout:
			break loop
		}
	}

	if received != numEmitters*eventsPerEmitter {
		t.Errorf("Received %d events, want %d", received, numEmitters*eventsPerEmitter)
	}
}

// TestConcurrent_CloseWhileEmitting 测试发射过程中关闭订阅不会 panic
func TestConcurrent_CloseWhileEmitting(t *testing.T) {
	bus := NewBus()

	em, _ := bus.Emitter(new(types.EvtSamplerIdle))
	defer em.Close()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				em.Emit(types.EvtSamplerIdle{})
			}
		}
	}()

	for i := 0; i < 50; i++ {
		sub, _ := bus.Subscribe(new(types.EvtSamplerIdle), BufSize(1))
		sub.Close()
	}

	close(stop)
	wg.Wait()
}

// TestConcurrent_GetAllEventTypes 测试并发获取事件类型
func TestConcurrent_GetAllEventTypes(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	for _, et := range []interface{}{new(types.EvtHeartbeat), new(types.EvtClassified), new(types.EvtLinkSampled)} {
		wg.Add(1)
		go func(et interface{}) {
			defer wg.Done()
			sub, _ := bus.Subscribe(et)
			defer sub.Close()
			time.Sleep(10 * time.Millisecond)
		}(et)
	}

	wg.Add(10)
	for i := 0; i < 10; i++ {
		go func() {
			defer wg.Done()
			_ = bus.GetAllEventTypes()
		}()
	}

	wg.Wait()
}
