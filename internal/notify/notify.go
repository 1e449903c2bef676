package notify

import (
	"context"
	"time"

	"github.com/Domenick1991/carrental/internal/kafka"
)

type Kind string

const (
	KindBookingConfirmed Kind = "booking_confirmed"
	KindBookingCancelled Kind = "booking_cancelled"
	KindBookingCompleted Kind = "booking_completed"
	KindAgencyApproved   Kind = "agency_approved"
	KindAgencyRejected   Kind = "agency_rejected"
)

// Payload carries the human-readable fields the email templates render.
// Message composition itself happens on the worker side.
type Payload struct {
	Reference       string
	CarName         string
	AgencyName      string
	PickupAt        time.Time
	DropoffAt       time.Time
	TotalPrice      int64
	SecurityDeposit int64
	Reason          string
}

// Notifier delivers a notification to a recipient. Callers treat it as
// fire-and-forget: a failed delivery is logged by the caller, never acted on.
type Notifier interface {
	Notify(ctx context.Context, kind Kind, recipient string, payload Payload) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// KafkaNotifier publishes notification events to the notifications topic;
// the worker consumes the topic and hands events to the email sender.
type KafkaNotifier struct {
	producer Producer
	topic    string
}

func NewKafkaNotifier(producer Producer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

func (n *KafkaNotifier) Notify(ctx context.Context, kind Kind, recipient string, payload Payload) error {
	event := kafka.NotificationEvent{
		Kind:            string(kind),
		Recipient:       recipient,
		Reference:       payload.Reference,
		CarName:         payload.CarName,
		AgencyName:      payload.AgencyName,
		PickupAt:        payload.PickupAt,
		DropoffAt:       payload.DropoffAt,
		TotalPrice:      payload.TotalPrice,
		SecurityDeposit: payload.SecurityDeposit,
		Reason:          payload.Reason,
	}
	return n.producer.Publish(ctx, n.topic, recipient, event)
}

var _ Notifier = (*KafkaNotifier)(nil)
