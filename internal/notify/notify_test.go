package notify

import (
	"context"
	"testing"

	"github.com/Domenick1991/carrental/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func TestKafkaNotifier_Notify(t *testing.T) {
	mockProducer := &MockProducer{}
	notifier := NewKafkaNotifier(mockProducer, "notifications")

	ctx := context.Background()
	payload := Payload{Reference: "CR-ABCDEF0123", Reason: "missing license"}

	mockProducer.On("Publish", ctx, "notifications", "customer@example.com",
		mock.MatchedBy(func(v interface{}) bool {
			event, ok := v.(kafka.NotificationEvent)
			return ok && event.Kind == "booking_cancelled" &&
				event.Recipient == "customer@example.com" &&
				event.Reference == "CR-ABCDEF0123" &&
				event.Reason == "missing license"
		})).Return(nil).Once()

	err := notifier.Notify(ctx, KindBookingCancelled, "customer@example.com", payload)

	assert.NoError(t, err)
	mockProducer.AssertExpectations(t)
}
