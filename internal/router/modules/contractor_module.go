package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Pratik980/GharNirman-sub000/internal/container"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	handlers "github.com/Pratik980/GharNirman-sub000/internal/interface/http"
	"github.com/Pratik980/GharNirman-sub000/internal/interface/middleware"
)

// ContractorModule mounts contractor registration and the admin-side
// document verification route. Registration is open (the identity
// provider signs users up before the core sees them); verification is
// admin-only.
type ContractorModule struct {
	Handler *handlers.ContractorHandler
}

func NewContractorModule(h *handlers.ContractorHandler) *ContractorModule {
	return &ContractorModule{Handler: h}
}

func (m *ContractorModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	g := rg.Group("/contractors")
	g.POST("", registerLimiter, m.Handler.Register)

	authed := g.Group("")
	authed.Use(middleware.Identity(container.GetIdentity()))
	authed.GET("/:id", m.Handler.Get)
	authed.PUT("/:id/verify-documents", middleware.RequireRole(entity.RoleAdmin), m.Handler.VerifyDocuments)
}
