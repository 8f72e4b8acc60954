package realtime

import (
	"encoding/json"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
)

// PushJob is one queued push attempt, serialized onto the broker when
// the dispatcher hands pushes off asynchronously instead of publishing
// inline.
type PushJob struct {
	Destination Destination      `json:"destination"`
	Event       entity.EventKind `json:"event"`
	Payload     json.RawMessage  `json:"payload"`
}

// NewPushJob captures the payload by value so the job survives the
// request that produced it.
func NewPushJob(dest Destination, event entity.EventKind, payload any) (PushJob, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return PushJob{}, err
	}
	return PushJob{Destination: dest, Event: event, Payload: b}, nil
}
