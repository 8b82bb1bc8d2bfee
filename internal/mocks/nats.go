package mocks

import (
	"github.com/Billy-Davies-2/bracket-champs/internal/logger"
	"github.com/Billy-Davies-2/bracket-champs/internal/pubsub"
)

// MockNATSPubSub stands in for NATS/JetStream with the in-memory bus
type MockNATSPubSub struct {
	*pubsub.PubSub
	subject string
}

// NewMockNATSPubSub creates a mock NATS pub/sub using the in-memory implementation
func NewMockNATSPubSub(subject string) *MockNATSPubSub {
	if subject == "" {
		subject = pubsub.DefaultSubject
	}
	logger.Info("Using MOCK NATS/JetStream (in-memory pub/sub) for local development", "subject", subject)
	return &MockNATSPubSub{PubSub: pubsub.New(), subject: subject}
}

// Subject reports the subject a real deployment would publish on
func (m *MockNATSPubSub) Subject() string {
	return m.subject
}
