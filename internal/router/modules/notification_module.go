package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/Pratik980/GharNirman-sub000/internal/container"
	handlers "github.com/Pratik980/GharNirman-sub000/internal/interface/http"
	"github.com/Pratik980/GharNirman-sub000/internal/interface/middleware"
)

// NotificationModule mounts the pull side of the notification
// contract: the durable backlog and the read write-back.
type NotificationModule struct {
	Handler *handlers.NotificationHandler
}

func NewNotificationModule(h *handlers.NotificationHandler) *NotificationModule {
	return &NotificationModule{Handler: h}
}

func (m *NotificationModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/notifications")
	g.Use(middleware.Identity(container.GetIdentity()))

	g.GET("", m.Handler.Backlog)
	g.POST("/:id/read", m.Handler.MarkRead)
}
