package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Pratik980/GharNirman-sub000/internal/application"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/repository"
	"github.com/Pratik980/GharNirman-sub000/internal/interface/middleware"
	"github.com/Pratik980/GharNirman-sub000/pkg/response"
	"github.com/Pratik980/GharNirman-sub000/pkg/validation"
)

type TenderHandler struct {
	Svc    *application.TenderService
	Logger *logrus.Logger
}

func NewTenderHandler(svc *application.TenderService, logger *logrus.Logger) *TenderHandler {
	return &TenderHandler{Svc: svc, Logger: logger}
}

type createTenderRequest struct {
	Title         string    `json:"title" binding:"required,min=3,max=200"`
	Description   string    `json:"description"`
	Budget        float64   `json:"budget" binding:"required,gt=0"`
	Location      string    `json:"location"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	HomeownerName string    `json:"homeownerName"`
}

type transitionTenderRequest struct {
	Expected entity.TenderStatus `json:"expected" binding:"required,oneof=open closed awarded cancelled"`
	Status   entity.TenderStatus `json:"status" binding:"required,oneof=closed cancelled"`
}

func (h *TenderHandler) Create(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		response.Unauthorized(c, "missing identity")
		return
	}

	var req createTenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", validation.ToDetails(err))
		return
	}

	t, err := h.Svc.CreateTender(c.Request.Context(), application.CreateTenderInput{
		HomeownerID:   principal.ID,
		HomeownerName: req.HomeownerName,
		Title:         req.Title,
		Description:   req.Description,
		Budget:        req.Budget,
		Location:      req.Location,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Created(c, "tender created", t)
}

func (h *TenderHandler) Get(c *gin.Context) {
	t, err := h.Svc.GetTender(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.OK(c, "tender", t)
}

func (h *TenderHandler) List(c *gin.Context) {
	f := repository.TenderFilter{
		HomeownerID: c.Query("homeownerId"),
		Status:      entity.TenderStatus(c.Query("status")),
		Limit:       queryInt(c, "limit", 50),
		Offset:      queryInt(c, "offset", 0),
	}
	ts, err := h.Svc.ListTenders(c.Request.Context(), f)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.OK(c, "tenders", ts)
}

// Transition closes or cancels a tender on behalf of its owner.
// Awarding is not accepted here; it only happens inside bid acceptance.
func (h *TenderHandler) Transition(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		response.Unauthorized(c, "missing identity")
		return
	}

	var req transitionTenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", validation.ToDetails(err))
		return
	}

	t, err := h.Svc.TransitionTender(c.Request.Context(), c.Param("id"), principal.ID, req.Expected, req.Status)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.OK(c, "tender updated", t)
}

func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
