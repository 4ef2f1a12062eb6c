package qrcode

import (
	"context"
	"errors"
	"sync"

	"github.com/kevin07696/promptpay-service/internal/adapters/ports"
)

// probeContent is a short payload-shaped text; probeSize keeps the probe cheap.
const (
	probeContent = "000201010211"
	probeSize    = 64
)

var errNotProbed = errors.New("renderer not probed yet")

// Probe renders a fixed code on demand and remembers the outcome so health
// checks do not rasterize on every scrape.
type Probe struct {
	renderer ports.QRRenderer
	logger   ports.Logger

	mu      sync.RWMutex
	lastErr error
}

// NewProbe creates a probe that reports unhealthy until Run is called
func NewProbe(renderer ports.QRRenderer, logger ports.Logger) *Probe {
	return &Probe{
		renderer: renderer,
		logger:   logger,
		lastErr:  errNotProbed,
	}
}

// Run renders the probe code once and records the result
func (p *Probe) Run(ctx context.Context) {
	png, err := p.renderer.Render(ctx, probeContent, ports.ErrorCorrectionLow, probeSize)
	if err == nil && len(png) == 0 {
		err = errors.New("renderer returned an empty image")
	}
	if err != nil {
		p.logger.Warn("Renderer probe failed", ports.Err(err))
	}

	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()
}

// Check returns the error of the last Run
func (p *Probe) Check(ctx context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}
