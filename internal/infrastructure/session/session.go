// Package session keeps per-user session state outside the database:
// revoked token IDs and a stream of session events.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/enum"
)

// Event is pushed to every open session stream of a user
type Event struct {
	Type       enum.SessionEventType `json:"type"`
	BusinessID *uuid.UUID            `json:"business_id,omitempty"`
	Data       interface{}           `json:"data,omitempty"`
	At         time.Time             `json:"at"`
}

// NewEvent stamps an event with the current time
func NewEvent(t enum.SessionEventType, businessID *uuid.UUID, data interface{}) Event {
	return Event{Type: t, BusinessID: businessID, Data: data, At: time.Now().UTC()}
}

// Store tracks revoked token IDs until they would have expired anyway
type Store interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Bus fans session events out to subscribers of the same user.
// Subscribe returns a channel that is closed once cancel is called or ctx ends.
type Bus interface {
	Publish(ctx context.Context, userID uuid.UUID, event Event) error
	Subscribe(ctx context.Context, userID uuid.UUID) (events <-chan Event, cancel func(), err error)
}

const subscriberBuffer = 16
