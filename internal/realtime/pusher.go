package realtime

import (
	"context"
	"net/http"
	"time"

	"github.com/pusher/pusher-http-go/v5"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
)

// PusherTransport delivers through Pusher Channels, the transport the
// web clients subscribe to.
type PusherTransport struct {
	client *pusher.Client
}

// NewPusherTransport builds a Pusher-backed transport. The HTTP client
// timeout is the hard ceiling for a single trigger attempt.
func NewPusherTransport(appID, key, secret, cluster string, timeout time.Duration) *PusherTransport {
	if timeout <= 0 {
		timeout = defaultPushTimeout
	}
	return &PusherTransport{
		client: &pusher.Client{
			AppID:      appID,
			Key:        key,
			Secret:     secret,
			Cluster:    cluster,
			Secure:     true,
			HTTPClient: &http.Client{Timeout: timeout},
		},
	}
}

func (t *PusherTransport) Publish(_ context.Context, dest Destination, event entity.EventKind, payload any) error {
	return t.client.Trigger(string(dest), string(event), Envelope{Event: event, Data: payload})
}

// AuthorizePrivateChannel signs a private-channel subscription request
// that has already been authorized against the requesting principal.
// Params is the raw application/x-www-form-urlencoded body Pusher's
// client library posts (channel_name and socket_id).
func (t *PusherTransport) AuthorizePrivateChannel(params []byte) ([]byte, error) {
	return t.client.AuthorizePrivateChannel(params)
}
