package events

import "time"

const UserRegisteredTopic = "leaveflow.user.lifecycle.v1"

const EventTypeUserRegistered = "user.registered"

type UserRegisteredEvent struct {
	EventType  string    `json:"event_type"`
	UserID     uint      `json:"user_id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	OccurredAt time.Time `json:"occurred_at"`
}
