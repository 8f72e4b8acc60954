package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Pratik980/GharNirman-sub000/internal/application"
	"github.com/Pratik980/GharNirman-sub000/internal/interface/middleware"
	"github.com/Pratik980/GharNirman-sub000/pkg/response"
)

type NotificationHandler struct {
	Svc    *application.NotificationService
	Logger *logrus.Logger
}

func NewNotificationHandler(svc *application.NotificationService, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{Svc: svc, Logger: logger}
}

// Backlog returns the caller's notifications newest first. The since
// query (RFC 3339) lets reconnecting clients pull only what they
// missed; pushes are best-effort, this endpoint is authoritative.
func (h *NotificationHandler) Backlog(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		response.Unauthorized(c, "missing identity")
		return
	}

	var since time.Time
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(c, "since must be RFC 3339", nil)
			return
		}
		since = parsed
	}

	ns, err := h.Svc.Backlog(c.Request.Context(), principal, since)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.OK(c, "notifications", ns)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		response.Unauthorized(c, "missing identity")
		return
	}

	n, err := h.Svc.MarkRead(c.Request.Context(), c.Param("id"), principal)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.OK(c, "notification read", n)
}
