package handlers

import (
	"io"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Pratik980/GharNirman-sub000/internal/interface/middleware"
	"github.com/Pratik980/GharNirman-sub000/internal/realtime"
	"github.com/Pratik980/GharNirman-sub000/pkg/response"
)

type RealtimeHandler struct {
	Pusher *realtime.PusherTransport
	Logger *logrus.Logger
}

func NewRealtimeHandler(pusher *realtime.PusherTransport, logger *logrus.Logger) *RealtimeHandler {
	return &RealtimeHandler{Pusher: pusher, Logger: logger}
}

// Auth signs private-channel subscriptions. The client library posts a
// form body with channel_name and socket_id; the channel is granted
// only when it belongs to the authenticated principal.
func (h *RealtimeHandler) Auth(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		response.Unauthorized(c, "missing identity")
		return
	}
	if h.Pusher == nil {
		response.NotFound(c, "realtime auth not available on this transport")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "unreadable body", nil)
		return
	}
	form, err := url.ParseQuery(string(body))
	if err != nil {
		response.BadRequest(c, "invalid form body", nil)
		return
	}
	channel := realtime.Destination(form.Get("channel_name"))

	if !realtime.AuthorizeSubscription(principal, channel) {
		h.Logger.WithFields(logrus.Fields{
			"user":    principal.ID,
			"role":    principal.Role,
			"channel": channel,
		}).Warn("denied channel subscription")
		response.Forbidden(c, "channel not allowed")
		return
	}

	auth, err := h.Pusher.AuthorizePrivateChannel(body)
	if err != nil {
		response.BadRequest(c, "authorization failed", nil)
		return
	}
	c.Data(200, "application/json", auth)
}
