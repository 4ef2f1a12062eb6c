package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestHealthChecker_Check(t *testing.T) {
	h := NewHealthChecker(time.Second)
	h.Register("renderer", func(ctx context.Context) error { return nil })

	st := h.Check(context.Background())
	assert.Equal(t, "healthy", st.Status)
	assert.Equal(t, "healthy", st.Checks["renderer"])

	h.Register("encoder", func(ctx context.Context) error { return errors.New("boom") })
	st = h.Check(context.Background())
	assert.Equal(t, "unhealthy", st.Status)
	assert.Equal(t, "unhealthy: boom", st.Checks["encoder"])
}

func TestHealthChecker_CheckTimeout(t *testing.T) {
	h := NewHealthChecker(10 * time.Millisecond)
	h.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	st := h.Check(context.Background())
	assert.Equal(t, "unhealthy", st.Status)
	assert.Contains(t, st.Checks["slow"], "deadline exceeded")
}

func TestMetricsMux(t *testing.T) {
	h := NewHealthChecker(time.Second)
	h.Register("renderer", func(ctx context.Context) error { return nil })
	mux := MetricsMux(h)

	tests := []struct {
		name     string
		path     string
		ready    bool
		wantCode int
		wantBody string
	}{
		{name: "health", path: "/health", wantCode: http.StatusOK, wantBody: `"status":"healthy"`},
		{name: "not_ready", path: "/ready", wantCode: http.StatusServiceUnavailable, wantBody: "not ready"},
		{name: "ready", path: "/ready", ready: true, wantCode: http.StatusOK, wantBody: "ready"},
		{name: "metrics", path: "/metrics", wantCode: http.StatusOK, wantBody: "go_goroutines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.SetReady(tt.ready)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestHealthHandler_Unhealthy(t *testing.T) {
	h := NewHealthChecker(time.Second)
	h.Register("renderer", func(ctx context.Context) error { return errors.New("down") })

	rec := httptest.NewRecorder()
	h.HealthHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestHTTPMetrics(t *testing.T) {
	r := chi.NewRouter()
	r.Use(HTTPMetrics)
	r.Post("/metrics-test/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/metrics-test/{id}", http.MethodPost, "418"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/metrics-test/42", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/metrics-test/{id}", http.MethodPost, "418"))
	assert.Equal(t, before+1, after)
}

func TestUnaryServerInterceptor(t *testing.T) {
	interceptor := UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Fail"}

	before := testutil.ToFloat64(grpcRequestsTotal.WithLabelValues(info.FullMethod, "Unavailable"))

	_, err := interceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.Unavailable, "down")
	})
	require.Error(t, err)

	after := testutil.ToFloat64(grpcRequestsTotal.WithLabelValues(info.FullMethod, "Unavailable"))
	assert.Equal(t, before+1, after)
}

func TestRecordPayload(t *testing.T) {
	before := testutil.ToFloat64(qrAmountSatang.WithLabelValues("764"))

	RecordPayload("customer", "image", "success", "764", decimal.RequireFromString("50.25"), 116)
	RecordPayload("customer", "image", "invalid", "764", decimal.RequireFromString("10"), 0)

	after := testutil.ToFloat64(qrAmountSatang.WithLabelValues("764"))
	assert.Equal(t, before+5025, after)

	verifiedBefore := testutil.ToFloat64(qrVerificationsTotal.WithLabelValues("valid"))
	RecordVerification("valid")
	assert.Equal(t, verifiedBefore+1, testutil.ToFloat64(qrVerificationsTotal.WithLabelValues("valid")))

	RecordRender("low", 0.002)
	assert.Equal(t, 1, testutil.CollectAndCount(qrRenderDuration))
}
