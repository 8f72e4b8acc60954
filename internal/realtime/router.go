package realtime

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
)

const privatePrefix = "private-"

// defaultPushTimeout bounds a single publish attempt so an unreachable
// transport never stalls the business transaction that triggered it.
const defaultPushTimeout = 2 * time.Second

// RoleChannel returns the broadcast destination reaching every
// subscribed member of a role.
func RoleChannel(role entity.Role) Destination {
	switch role {
	case entity.RoleContractor:
		return "contractors"
	case entity.RoleHomeowner:
		return "homeowners"
	case entity.RoleAdmin:
		return "admins"
	}
	return ""
}

// PrivateChannel returns the destination reaching exactly one
// identified recipient, e.g. "private-contractor-42".
func PrivateChannel(r entity.Recipient) Destination {
	return Destination(privatePrefix + string(r.Role) + "-" + r.ID)
}

// AuthorizeSubscription reports whether the given principal may
// subscribe to channel. Private channels must belong to the principal;
// role channels require the matching role. Unknown channels are denied.
func AuthorizeSubscription(principal entity.Recipient, channel Destination) bool {
	if !principal.Valid() {
		return false
	}
	name := string(channel)
	if strings.HasPrefix(name, privatePrefix) {
		rest := strings.TrimPrefix(name, privatePrefix)
		role, id, ok := strings.Cut(rest, "-")
		if !ok || id == "" {
			return false
		}
		return entity.Role(role) == principal.Role && id == principal.ID
	}
	return channel == RoleChannel(principal.Role)
}

// Router performs pushes through the configured transport with a
// bounded per-attempt timeout. It never reports a push failure as
// fatal; callers log and move on.
type Router struct {
	Transport Transport
	Logger    *logrus.Logger
	Timeout   time.Duration
}

func NewRouter(t Transport, logger *logrus.Logger) *Router {
	return &Router{Transport: t, Logger: logger, Timeout: defaultPushTimeout}
}

// Push sends one event to one destination. A nil transport is a
// configured-off push path and succeeds silently.
func (r *Router) Push(ctx context.Context, dest Destination, event entity.EventKind, payload any) error {
	if r == nil || r.Transport == nil || dest == "" {
		return nil
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultPushTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := r.Transport.Publish(ctx, dest, event, payload); err != nil {
		if r.Logger != nil {
			r.Logger.WithError(err).WithFields(logrus.Fields{
				"channel": dest,
				"event":   event,
			}).Warn("realtime push failed")
		}
		return err
	}
	return nil
}
