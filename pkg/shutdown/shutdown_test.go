package shutdown

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestManager_ShutdownReverseOrder(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t), time.Second)

	var order []string
	m.RegisterNoErr("first", func() { order = append(order, "first") })
	m.Register("second", func(context.Context) error {
		order = append(order, "second")
		return errors.New("stuck")
	})
	m.RegisterNoErr("third", func() { order = append(order, "third") })

	err := m.Shutdown()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second: stuck")
	assert.Equal(t, []string{"third", "second", "first"}, order)

	// Second call is a no-op returning the same result.
	assert.Equal(t, err, m.Shutdown())
	assert.Len(t, order, 3)
}

func TestManager_WaitForShutdownOnContext(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t), time.Second)
	var called atomic.Bool
	m.RegisterNoErr("server", func() { called.Store(true) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, m.WaitForShutdown(ctx))
	assert.True(t, called.Load())
}

func TestInFlightTracker_Middleware(t *testing.T) {
	tracker := NewInFlightTracker("http", zaptest.NewLogger(t))

	release := make(chan struct{})
	entered := make(chan struct{})
	h := tracker.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	go h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	<-entered

	shutdownDone := make(chan error)
	go func() { shutdownDone <- tracker.Shutdown(context.Background()) }()

	require.Eventually(t, tracker.IsShuttingDown, time.Second, time.Millisecond)

	late := httptest.NewRecorder()
	h.ServeHTTP(late, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, late.Code)

	close(release)
	assert.NoError(t, <-shutdownDone)
}

func TestInFlightTracker_ShutdownTimeout(t *testing.T) {
	tracker := NewInFlightTracker("http", zaptest.NewLogger(t))
	require.True(t, tracker.Add())
	defer tracker.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, tracker.Shutdown(ctx), context.DeadlineExceeded)
	assert.False(t, tracker.Add())
}

func TestPeriodicWorker(t *testing.T) {
	w := NewPeriodicWorker("probe", 5*time.Millisecond, zaptest.NewLogger(t))

	var runs atomic.Int32
	w.Start(func(ctx context.Context) { runs.Add(1) })

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)
	require.NoError(t, w.Shutdown(context.Background()))

	after := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}
