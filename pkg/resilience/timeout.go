package resilience

import (
	"context"
	"time"
)

// TimeoutConfig defines the request timeout hierarchy
//
// Timeout Hierarchy (from outermost to innermost):
//
//	HTTP Handler (REQUEST_TIMEOUT, default 5s)
//	  ↓
//	Service Layer (90% of handler)
//	  ↓
//	QR Rasterizer (80% of handler)
//
// Each layer expires before its parent so the handler still has time to
// map the failure to a response.
type TimeoutConfig struct {
	HTTPHandler time.Duration
	Service     time.Duration
	Render      time.Duration
}

// DefaultTimeoutConfig returns production timeout values
func DefaultTimeoutConfig() *TimeoutConfig {
	return NewTimeoutConfig(5 * time.Second)
}

// NewTimeoutConfig derives the inner layers from the handler timeout
func NewTimeoutConfig(handler time.Duration) *TimeoutConfig {
	return &TimeoutConfig{
		HTTPHandler: handler,
		Service:     handler * 9 / 10,
		Render:      handler * 8 / 10,
	}
}

// TestTimeoutConfig returns shorter timeouts for testing
func TestTimeoutConfig() *TimeoutConfig {
	return NewTimeoutConfig(time.Second)
}

// HandlerContext creates a context with timeout for HTTP handlers
func (tc *TimeoutConfig) HandlerContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.HTTPHandler)
}

// ServiceContext creates a context with timeout for service layer operations
func (tc *TimeoutConfig) ServiceContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.Service)
}

// RenderContext creates a context for one rasterizer call
func (tc *TimeoutConfig) RenderContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.Render)
}
