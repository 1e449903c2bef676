package kafka

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestDecodeEvent(t *testing.T) {
	t.Run("valid event", func(t *testing.T) {
		msg := kafka.Message{Value: []byte(`{"kind":"booking_confirmed","recipient":"amina@example.com","reference":"CR-1234567890"}`)}

		event, err := decodeEvent(msg)

		assert.NoError(t, err)
		assert.Equal(t, "booking_confirmed", event.Kind)
		assert.Equal(t, "amina@example.com", event.Recipient)
		assert.Equal(t, "CR-1234567890", event.Reference)
	})

	t.Run("malformed json", func(t *testing.T) {
		msg := kafka.Message{Value: []byte(`{not json`)}

		_, err := decodeEvent(msg)

		assert.Error(t, err)
	})

	t.Run("missing kind", func(t *testing.T) {
		msg := kafka.Message{Value: []byte(`{"recipient":"amina@example.com"}`)}

		_, err := decodeEvent(msg)

		assert.Error(t, err)
	})

	t.Run("missing recipient", func(t *testing.T) {
		msg := kafka.Message{Value: []byte(`{"kind":"booking_cancelled"}`)}

		_, err := decodeEvent(msg)

		assert.Error(t, err)
	})
}
