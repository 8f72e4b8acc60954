package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Pratik980/GharNirman-sub000/internal/container"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	handlers "github.com/Pratik980/GharNirman-sub000/internal/interface/http"
	"github.com/Pratik980/GharNirman-sub000/internal/interface/middleware"
)

// TenderModule mounts the tender lifecycle routes.
// All routes require an identity; creation and transitions are
// homeowner-only.
type TenderModule struct {
	Handler *handlers.TenderHandler
}

func NewTenderModule(h *handlers.TenderHandler) *TenderModule {
	return &TenderModule{Handler: h}
}

func (m *TenderModule) Register(rg *gin.RouterGroup) {
	createLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil)

	g := rg.Group("/tenders")
	g.Use(middleware.Identity(container.GetIdentity()))

	g.GET("", m.Handler.List)
	g.GET("/:id", m.Handler.Get)

	owner := g.Group("")
	owner.Use(middleware.RequireRole(entity.RoleHomeowner))
	owner.POST("", createLimiter, m.Handler.Create)
	owner.PATCH("/:id/status", m.Handler.Transition)
}
