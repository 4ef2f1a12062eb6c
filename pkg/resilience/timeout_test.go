package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTimeoutConfig(t *testing.T) {
	config := DefaultTimeoutConfig()

	assert.Equal(t, 5*time.Second, config.HTTPHandler)
	assert.Equal(t, 4500*time.Millisecond, config.Service)
	assert.Equal(t, 4*time.Second, config.Render)
}

func TestTimeoutConfig_Hierarchy(t *testing.T) {
	tests := []struct {
		name    string
		handler time.Duration
	}{
		{name: "default", handler: 5 * time.Second},
		{name: "short", handler: 100 * time.Millisecond},
		{name: "long", handler: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewTimeoutConfig(tt.handler)
			assert.Greater(t, config.HTTPHandler, config.Service)
			assert.Greater(t, config.Service, config.Render)
			assert.Positive(t, config.Render)
		})
	}
}

func TestTimeoutConfig_Contexts(t *testing.T) {
	config := TestTimeoutConfig()

	tests := []struct {
		name string
		make func(context.Context) (context.Context, context.CancelFunc)
		want time.Duration
	}{
		{name: "handler", make: config.HandlerContext, want: config.HTTPHandler},
		{name: "service", make: config.ServiceContext, want: config.Service},
		{name: "render", make: config.RenderContext, want: config.Render},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			ctx, cancel := tt.make(context.Background())
			defer cancel()

			deadline, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.WithinDuration(t, start.Add(tt.want), deadline, 50*time.Millisecond)
		})
	}
}

func TestTimeoutConfig_RespectsParentDeadline(t *testing.T) {
	config := TestTimeoutConfig()
	parent, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	ctx, cancelChild := config.ServiceContext(parent)
	defer cancelChild()

	deadline, _ := ctx.Deadline()
	parentDeadline, _ := parent.Deadline()
	assert.Equal(t, parentDeadline, deadline)
}
