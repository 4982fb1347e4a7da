package models

import "time"

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// NotificationEvent is a short-lived user-facing toast. Events are ephemeral
// and expire out of the sink after a fixed display timeout.
type NotificationEvent struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"kind"`
	CreatedAt time.Time        `json:"created_at"`
}
