package mocks

import (
	"context"
	"sync"

	"github.com/kevin07696/promptpay-service/internal/adapters/ports"
)

// RenderCall captures the arguments of one Render call
type RenderCall struct {
	Content string
	Level   ports.ErrorCorrection
	Size    int
}

// MockRenderer returns PNG/Err for every call and counts calls
type MockRenderer struct {
	mu    sync.Mutex
	PNG   []byte
	Err   error
	calls []RenderCall
}

// NewMockRenderer creates a renderer that returns png
func NewMockRenderer(png []byte) *MockRenderer {
	return &MockRenderer{PNG: png}
}

// Render implements ports.QRRenderer
func (m *MockRenderer) Render(ctx context.Context, content string, level ports.ErrorCorrection, size int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, RenderCall{Content: content, Level: level, Size: size})
	return m.PNG, m.Err
}

// SetResult changes what later calls return
func (m *MockRenderer) SetResult(png []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PNG, m.Err = png, err
}

// CallCount returns the number of Render calls
func (m *MockRenderer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns a copy of the captured calls
func (m *MockRenderer) Calls() []RenderCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RenderCall(nil), m.calls...)
}

var _ ports.QRRenderer = (*MockRenderer)(nil)
