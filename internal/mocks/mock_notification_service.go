package mocks

import (
	"sync"

	"github.com/you/eventauth/domain"
)

// MockNotificationService implements domain.NotificationService for
// testing. Sent messages are captured for assertions.
type MockNotificationService struct {
	mu         sync.Mutex
	SentSMS    []SentMessage
	SentEmails []SentMessage

	SendSMSFunc   func(to, message string) error
	SendEmailFunc func(to, subject, body string) error
}

type SentMessage struct {
	To      string
	Subject string
	Body    string
}

// NewMockNotificationService creates a new MockNotificationService
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (m *MockNotificationService) SendSMS(to, message string) error {
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentSMS = append(m.SentSMS, SentMessage{To: to, Body: message})
	return nil
}

func (m *MockNotificationService) SendEmail(to, subject, body string) error {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(to, subject, body)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentEmails = append(m.SentEmails, SentMessage{To: to, Subject: subject, Body: body})
	return nil
}

// Compile-time interface compliance verification
var _ domain.NotificationService = (*MockNotificationService)(nil)
