// Package realtime maps domain events onto named channels of an
// external pub/sub transport. Delivery is best-effort and at-most-once
// per attempt; the durable notification rows written before any push
// carry the actual at-least-once guarantee.
package realtime

import (
	"context"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
)

// Destination is a named channel on the realtime transport.
type Destination string

// Transport is the boundary to the external pub/sub service. Publish
// sends one event to one destination and reports only the outcome of
// this attempt; it must never be treated as a delivery guarantee.
type Transport interface {
	Publish(ctx context.Context, dest Destination, event entity.EventKind, payload any) error
}

// Envelope is the wire shape pushed to clients on every channel.
type Envelope struct {
	Event entity.EventKind `json:"event"`
	Data  any              `json:"data"`
}
