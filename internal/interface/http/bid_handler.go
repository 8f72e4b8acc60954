package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Pratik980/GharNirman-sub000/internal/application"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/repository"
	"github.com/Pratik980/GharNirman-sub000/internal/interface/middleware"
	"github.com/Pratik980/GharNirman-sub000/pkg/response"
	"github.com/Pratik980/GharNirman-sub000/pkg/validation"
)

type BidHandler struct {
	Svc    *application.BidService
	Logger *logrus.Logger
}

func NewBidHandler(svc *application.BidService, logger *logrus.Logger) *BidHandler {
	return &BidHandler{Svc: svc, Logger: logger}
}

type submitBidRequest struct {
	TenderID        string  `json:"tenderId" binding:"required,uuid"`
	BidAmount       float64 `json:"bidAmount" binding:"required,gt=0"`
	ProjectDuration int     `json:"projectDuration" binding:"gte=0"`
	Warranty        int     `json:"warranty" binding:"gte=0"`
	Notes           string  `json:"notes" binding:"max=2000"`
}

type decideBidRequest struct {
	Expected entity.BidStatus `json:"expected" binding:"required"`
	Status   entity.BidStatus `json:"status" binding:"required"`
}

func (h *BidHandler) Submit(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		response.Unauthorized(c, "missing identity")
		return
	}

	var req submitBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", validation.ToDetails(err))
		return
	}

	b, err := h.Svc.SubmitBid(c.Request.Context(), application.SubmitBidInput{
		TenderID:        req.TenderID,
		ContractorID:    principal.ID,
		BidAmount:       req.BidAmount,
		ProjectDuration: req.ProjectDuration,
		Warranty:        req.Warranty,
		Notes:           req.Notes,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Created(c, "bid submitted", b)
}

func (h *BidHandler) Get(c *gin.Context) {
	b, err := h.Svc.GetBid(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.OK(c, "bid", b)
}

func (h *BidHandler) List(c *gin.Context) {
	f := repository.BidFilter{
		TenderID:     c.Query("tenderId"),
		ContractorID: c.Query("contractorId"),
		Status:       entity.BidStatus(c.Query("status")),
		Limit:        queryInt(c, "limit", 50),
		Offset:       queryInt(c, "offset", 0),
	}
	bs, err := h.Svc.ListBids(c.Request.Context(), f)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.OK(c, "bids", bs)
}

// Decide accepts or rejects a bid on behalf of the authenticated
// homeowner; decisions on another homeowner's tender come back 404.
// The expected status in the body is the caller's last-seen view; a
// stale value surfaces as 409 instead of silently double-settling.
func (h *BidHandler) Decide(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		response.Unauthorized(c, "missing identity")
		return
	}

	var req decideBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", validation.ToDetails(err))
		return
	}
	if !entity.ValidBidStatus(req.Expected) || !entity.ValidBidStatus(req.Status) {
		response.BadRequest(c, "unknown bid status", nil)
		return
	}

	b, err := h.Svc.DecideBid(c.Request.Context(), c.Param("id"), principal.ID, req.Expected, req.Status)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.OK(c, "bid updated", b)
}
