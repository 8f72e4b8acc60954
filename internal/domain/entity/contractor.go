package entity

import "time"

// VerificationStatus applies both to a single contractor document and to
// the contractor aggregate derived from its documents.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// ValidVerificationStatus reports whether s is a known verification status.
func ValidVerificationStatus(s VerificationStatus) bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// DocumentType identifies one of the contractor verification documents.
type DocumentType string

const (
	DocLicenseFile             DocumentType = "licenseFile"
	DocRegistrationCertificate DocumentType = "registrationCertificate"
	DocInsuranceDocument       DocumentType = "insuranceDocument"
)

// RequiredDocuments are the document types every contractor must have
// verified before the aggregate can become verified. The insurance
// document is optional and never gates verification.
var RequiredDocuments = []DocumentType{DocLicenseFile, DocRegistrationCertificate}

// KnownDocumentType reports whether t is a recognised document type.
func KnownDocumentType(t DocumentType) bool {
	switch t {
	case DocLicenseFile, DocRegistrationCertificate, DocInsuranceDocument:
		return true
	}
	return false
}

// Document is the per-document verification record of a contractor.
type Document struct {
	Type            DocumentType       `json:"type"`
	FileName        string             `json:"fileName"`
	FilePath        string             `json:"filePath"`
	UploadDate      time.Time          `json:"uploadDate"`
	Status          VerificationStatus `json:"status"`
	VerifiedBy      string             `json:"verifiedBy,omitempty"`
	VerifiedAt      time.Time          `json:"verifiedAt,omitempty"`
	RejectionReason string             `json:"rejectionReason,omitempty"`
}

// Contractor is a bidder identity with a per-document verification
// sub-state. Status is derived from Documents, never set directly.
type Contractor struct {
	ID                  string                    `json:"id"`
	FullName            string                    `json:"fullName"`
	Email               string                    `json:"email"`
	CompanyName         string                    `json:"companyName"`
	LicenseNumber       string                    `json:"licenseNumber"`
	YearsOfExperience   int                       `json:"yearsOfExperience"`
	SuccessRate         float64                   `json:"successRate"`
	ClientRating        float64                   `json:"clientRating"`
	RejectionHistory    int                       `json:"rejectionHistory"`
	SafetyCertification string                    `json:"safetyCertification"`
	Documents           map[DocumentType]Document `json:"documents"`
	Status              VerificationStatus        `json:"status"`
	CreatedAt           time.Time                 `json:"createdAt"`
	UpdatedAt           time.Time                 `json:"updatedAt"`
}

// Verified reports whether the contractor may submit bids.
func (c *Contractor) Verified() bool {
	return c.Status == VerificationVerified
}

// DeriveStatus recomputes the aggregate verification status from the
// current document set: verified iff every required document is verified,
// rejected if any required document is rejected, pending otherwise.
// A missing required document counts as pending.
func (c *Contractor) DeriveStatus() VerificationStatus {
	rejected := false
	allVerified := true
	for _, dt := range RequiredDocuments {
		doc, ok := c.Documents[dt]
		if !ok {
			allVerified = false
			continue
		}
		switch doc.Status {
		case VerificationRejected:
			rejected = true
			allVerified = false
		case VerificationPending:
			allVerified = false
		}
	}
	if allVerified {
		return VerificationVerified
	}
	if rejected {
		return VerificationRejected
	}
	return VerificationPending
}
