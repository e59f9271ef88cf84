package mailer

import "sync"

// SentMessage is a single delivery accepted by the mock.
type SentMessage struct {
	Recipient    string
	TemplateFile string
	Data         any
}

// MockMailer captures outgoing mail for assertions instead of delivering it.
// Confirmation mail is sent from a background goroutine, so the record is
// guarded by a mutex.
type MockMailer struct {
	mu      sync.Mutex
	sent    []SentMessage
	sendErr error
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// FailWith makes every subsequent Send return err. Pass nil to resume
// recording deliveries.
func (m *MockMailer) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sendErr = err
}

func (m *MockMailer) Send(recipient, templateFile string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sendErr != nil {
		return m.sendErr
	}

	m.sent = append(m.sent, SentMessage{
		Recipient:    recipient,
		TemplateFile: templateFile,
		Data:         data,
	})

	return nil
}

// Sent returns a copy of the deliveries recorded so far.
func (m *MockMailer) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)

	return out
}

// Reset discards all recorded deliveries and clears any injected failure.
func (m *MockMailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = nil
	m.sendErr = nil
}
