package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Pratik980/GharNirman-sub000/internal/container"
	handlers "github.com/Pratik980/GharNirman-sub000/internal/interface/http"
	"github.com/Pratik980/GharNirman-sub000/internal/interface/middleware"
)

// RealtimeModule mounts the private-channel subscription auth
// endpoint.
type RealtimeModule struct {
	Handler *handlers.RealtimeHandler
}

func NewRealtimeModule(h *handlers.RealtimeHandler) *RealtimeModule {
	return &RealtimeModule{Handler: h}
}

func (m *RealtimeModule) Register(rg *gin.RouterGroup) {
	authLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil)

	g := rg.Group("/realtime")
	g.Use(middleware.Identity(container.GetIdentity()))
	g.POST("/auth", authLimiter, m.Handler.Auth)
}
