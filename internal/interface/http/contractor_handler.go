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

type ContractorHandler struct {
	Svc    *application.VerificationService
	Logger *logrus.Logger
}

func NewContractorHandler(svc *application.VerificationService, logger *logrus.Logger) *ContractorHandler {
	return &ContractorHandler{Svc: svc, Logger: logger}
}

type documentPayload struct {
	Type     entity.DocumentType `json:"type" binding:"required"`
	FileName string              `json:"fileName"`
	FilePath string              `json:"filePath"`
}

type registerContractorRequest struct {
	FullName            string            `json:"fullName" binding:"required,min=2,max=120"`
	Email               string            `json:"email" binding:"required,email"`
	CompanyName         string            `json:"companyName"`
	LicenseNumber       string            `json:"licenseNumber"`
	YearsOfExperience   int               `json:"yearsOfExperience" binding:"gte=0"`
	SafetyCertification string            `json:"safetyCertification"`
	Documents           []documentPayload `json:"documents" binding:"required,min=1,dive"`
}

type verifyDocumentRequest struct {
	Type            entity.DocumentType       `json:"type" binding:"required"`
	Expected        entity.VerificationStatus `json:"expected" binding:"required,oneof=pending verified rejected"`
	Status          entity.VerificationStatus `json:"status" binding:"required,oneof=pending verified rejected"`
	RejectionReason string                    `json:"rejectionReason" binding:"max=500"`
}

func (h *ContractorHandler) Register(c *gin.Context) {
	var req registerContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", validation.ToDetails(err))
		return
	}

	docs := make([]entity.Document, 0, len(req.Documents))
	for _, d := range req.Documents {
		docs = append(docs, entity.Document{Type: d.Type, FileName: d.FileName, FilePath: d.FilePath})
	}

	created, err := h.Svc.RegisterContractor(c.Request.Context(), application.RegisterContractorInput{
		FullName:            req.FullName,
		Email:               req.Email,
		CompanyName:         req.CompanyName,
		LicenseNumber:       req.LicenseNumber,
		YearsOfExperience:   req.YearsOfExperience,
		SafetyCertification: req.SafetyCertification,
		Documents:           docs,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Created(c, "contractor registered", created)
}

func (h *ContractorHandler) Get(c *gin.Context) {
	ctr, err := h.Svc.GetContractor(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.OK(c, "contractor", ctr)
}

// VerifyDocuments settles one verification document for the
// contractor. The admin's identity is recorded as the verifier; the
// aggregate status moves only as a side effect of document settles.
func (h *ContractorHandler) VerifyDocuments(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		response.Unauthorized(c, "missing identity")
		return
	}

	var req verifyDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", validation.ToDetails(err))
		return
	}
	if !entity.KnownDocumentType(req.Type) {
		response.BadRequest(c, "unknown document type", nil)
		return
	}

	upd, err := h.Svc.VerifyDocument(c.Request.Context(), c.Param("id"), repository.SetDocumentInput{
		Type:            req.Type,
		Expected:        req.Expected,
		Next:            req.Status,
		VerifiedBy:      principal.ID,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.OK(c, "document updated", gin.H{
		"contractor": upd.Contractor,
		"document":   upd.Document,
		"statusFrom": upd.AggregateBefore,
		"statusTo":   upd.AggregateAfter,
	})
}
