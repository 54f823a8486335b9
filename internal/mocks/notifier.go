package mocks

import (
	"context"
	"slices"
	"sync"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/notify"
)

// MockNotifier implements notify.Notifier and notify.Verifier and records
// every message it is asked to send.
type MockNotifier struct {
	// SendFn decides the result of a send; nil accepts everything
	SendFn   func(ctx context.Context, msg notify.Message) bool
	VerifyFn func(ctx context.Context) error

	mu       sync.Mutex
	messages []notify.Message
}

var (
	_ notify.Notifier = (*MockNotifier)(nil)
	_ notify.Verifier = (*MockNotifier)(nil)
)

// Send implements notify.Notifier.
func (m *MockNotifier) Send(ctx context.Context, msg notify.Message) bool {
	m.mu.Lock()
	m.messages = append(m.messages, msg)
	m.mu.Unlock()

	if m.SendFn != nil {
		return m.SendFn(ctx, msg)
	}
	return true
}

// Verify implements notify.Verifier.
func (m *MockNotifier) Verify(ctx context.Context) error {
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx)
	}
	return nil
}

// Messages returns a copy of every message passed to Send.
func (m *MockNotifier) Messages() []notify.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.messages)
}

// Recipients returns the address of every message passed to Send, in call order.
func (m *MockNotifier) Recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.messages))
	for i, msg := range m.messages {
		out[i] = msg.To.Email
	}
	return out
}

// Reset forgets recorded messages.
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
}
