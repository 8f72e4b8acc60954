package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Pratik980/GharNirman-sub000/internal/container"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	handlers "github.com/Pratik980/GharNirman-sub000/internal/interface/http"
	"github.com/Pratik980/GharNirman-sub000/internal/interface/middleware"
)

// BidModule mounts bid submission and settlement routes. Contractors
// submit; homeowners decide.
type BidModule struct {
	Handler *handlers.BidHandler
}

func NewBidModule(h *handlers.BidHandler) *BidModule {
	return &BidModule{Handler: h}
}

func (m *BidModule) Register(rg *gin.RouterGroup) {
	submitLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil)

	g := rg.Group("/bids")
	g.Use(middleware.Identity(container.GetIdentity()))

	g.GET("", m.Handler.List)
	g.GET("/:id", m.Handler.Get)

	g.POST("", middleware.RequireRole(entity.RoleContractor), submitLimiter, m.Handler.Submit)
	g.PATCH("/:id/status", middleware.RequireRole(entity.RoleHomeowner), m.Handler.Decide)
}
