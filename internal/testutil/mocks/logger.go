// Package mocks holds hand-written test doubles for the adapter ports.
package mocks

import (
	"sync"

	"github.com/kevin07696/promptpay-service/internal/adapters/ports"
)

// LogCall represents a captured log call
type LogCall struct {
	Level   string
	Message string
	Fields  []ports.Field
}

// MockLogger records every call; safe for concurrent use
type MockLogger struct {
	mu    sync.Mutex
	calls []LogCall
}

// NewMockLogger creates a new mock logger
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) record(level, msg string, fields []ports.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, LogCall{Level: level, Message: msg, Fields: fields})
}

func (m *MockLogger) Info(msg string, fields ...ports.Field)  { m.record("info", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...ports.Field) { m.record("error", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...ports.Field)  { m.record("warn", msg, fields) }
func (m *MockLogger) Debug(msg string, fields ...ports.Field) { m.record("debug", msg, fields) }

// Calls returns the captured calls at level, or all calls when level is ""
func (m *MockLogger) Calls(level string) []LogCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []LogCall
	for _, c := range m.calls {
		if level == "" || c.Level == level {
			out = append(out, c)
		}
	}
	return out
}

// Field returns the value of key in call, or nil
func (c LogCall) Field(key string) interface{} {
	for _, f := range c.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// Reset clears all captured calls
func (m *MockLogger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}
