package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/joseph-ayodele/orders-intake/internal/common"
	"github.com/joseph-ayodele/orders-intake/internal/services/orders"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingHandler struct {
	calls atomic.Int32
	block chan struct{}
	mu    sync.Mutex
	ids   []string
}

func (h *countingHandler) Handle(ctx context.Context, message string) (orders.Result, error) {
	if h.block != nil {
		<-h.block
	}
	h.calls.Add(1)
	h.mu.Lock()
	h.ids = append(h.ids, common.RequestIDFromContext(ctx))
	h.mu.Unlock()
	if message == "fail" {
		return orders.Result{}, errors.New("boom")
	}
	return orders.Result{InvoiceID: "WKY00001", Saved: true}, nil
}

func TestOrderQueue_DrainsOnShutdown(t *testing.T) {
	h := &countingHandler{}
	var failed atomic.Int32
	q := NewOrderQueue(h, nil, WithWorkers(3), WithQueueSize(4),
		WithOnDone(func(_ Job, _ orders.Result, err error) {
			if err != nil {
				failed.Add(1)
			}
		}))

	for i := 0; i < 20; i++ {
		msg := "pedido"
		if i == 7 {
			msg = "fail"
		}
		require.NoError(t, q.Enqueue(context.Background(), Job{RequestID: "req", Message: msg}))
	}
	q.Shutdown(context.Background())

	assert.Equal(t, int32(20), h.calls.Load())
	assert.Equal(t, int32(1), failed.Load())
	assert.Equal(t, "req", h.ids[0])

	assert.ErrorIs(t, q.Enqueue(context.Background(), Job{Message: "late"}), ErrQueueClosed)
	q.Shutdown(context.Background())
}

func TestOrderQueue_EnqueueRespectsContext(t *testing.T) {
	h := &countingHandler{block: make(chan struct{})}
	q := NewOrderQueue(h, nil, WithWorkers(1), WithQueueSize(1))

	// one job held by the worker, one in the buffer
	require.NoError(t, q.Enqueue(context.Background(), Job{Message: "a"}))
	require.Eventually(t, func() bool { return len(q.ch) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, q.Enqueue(context.Background(), Job{Message: "b"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Enqueue(ctx, Job{Message: "c"}), context.DeadlineExceeded)

	close(h.block)
	q.Shutdown(context.Background())
	assert.Equal(t, int32(2), h.calls.Load())
}

func TestOrderQueue_BlockedSenderDoesNotStallOthers(t *testing.T) {
	h := &countingHandler{block: make(chan struct{})}
	q := NewOrderQueue(h, nil, WithWorkers(1), WithQueueSize(1))

	require.NoError(t, q.Enqueue(context.Background(), Job{Message: "a"}))
	require.Eventually(t, func() bool { return len(q.ch) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, q.Enqueue(context.Background(), Job{Message: "b"}))

	// waits with no deadline on a full buffer
	blocked := make(chan error, 1)
	go func() { blocked <- q.Enqueue(context.Background(), Job{Message: "c"}) }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	assert.ErrorIs(t, q.Enqueue(ctx, Job{Message: "d"}), context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)

	stopped := make(chan struct{})
	go func() {
		q.Shutdown(context.Background())
		close(stopped)
	}()

	select {
	case err := <-blocked:
		assert.ErrorIs(t, err, ErrQueueClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("blocked Enqueue was not released by Shutdown")
	}

	close(h.block)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not return after the worker drained")
	}
	assert.Equal(t, int32(2), h.calls.Load())
}
