package runner

import "sync"

// MockDisplay records every call for inspection in tests.
type MockDisplay struct {
	mu       sync.Mutex
	statuses []string
	frames   int
	cleared  bool
}

func NewMockDisplay() *MockDisplay {
	return &MockDisplay{}
}

func (m *MockDisplay) Status(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, msg)
}

func (m *MockDisplay) Frame(n int, code int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames++
}

func (m *MockDisplay) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared = true
}

func (m *MockDisplay) Statuses() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.statuses...)
}

func (m *MockDisplay) FrameCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

func (m *MockDisplay) Cleared() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cleared
}
