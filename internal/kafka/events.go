package kafka

import (
	"errors"
	"time"
)

// NotificationEvent is the message published to the notifications topic and
// consumed by the email worker. Payload fields are the human-readable pieces
// the templates need; unused fields stay empty for a given kind.
type NotificationEvent struct {
	Kind            string    `json:"kind"`
	Recipient       string    `json:"recipient"`
	Reference       string    `json:"reference,omitempty"`
	CarName         string    `json:"car_name,omitempty"`
	AgencyName      string    `json:"agency_name,omitempty"`
	PickupAt        time.Time `json:"pickup_at"`
	DropoffAt       time.Time `json:"dropoff_at"`
	TotalPrice      int64     `json:"total_price"`
	SecurityDeposit int64     `json:"security_deposit"`
	Reason          string    `json:"reason,omitempty"`
}

func (e NotificationEvent) Validate() error {
	if e.Kind == "" {
		return errors.New("notification event missing kind")
	}
	if e.Recipient == "" {
		return errors.New("notification event missing recipient")
	}
	return nil
}
