package entity

import "time"

// BidStatus is the lifecycle state of a bid. Accepted and Rejected are
// terminal.
type BidStatus string

const (
	BidUnderReview BidStatus = "Under Review"
	BidAccepted    BidStatus = "Accepted"
	BidRejected    BidStatus = "Rejected"
)

// ValidBidStatus reports whether s is one of the known bid statuses.
func ValidBidStatus(s BidStatus) bool {
	switch s {
	case BidUnderReview, BidAccepted, BidRejected:
		return true
	}
	return false
}

// Bid is a contractor's priced proposal against a specific tender.
// The scoring-support fields are snapshotted from the contractor profile
// at submission time for the external ranking service.
type Bid struct {
	ID                  string    `json:"id"`
	TenderID            string    `json:"tenderId"`
	ContractorID        string    `json:"contractorId"`
	ContractorName      string    `json:"contractorName"`
	TenderTitle         string    `json:"tenderTitle"`
	BidAmount           float64   `json:"bidAmount"`
	ProjectDuration     int       `json:"projectDuration"`
	Warranty            int       `json:"warranty"`
	Notes               string    `json:"notes"`
	Experience          int       `json:"experience"`
	SuccessRate         float64   `json:"successRate"`
	ClientRating        float64   `json:"clientRating"`
	RejectionHistory    int       `json:"rejectionHistory"`
	SafetyCertification string    `json:"safetyCertification"`
	Status              BidStatus `json:"status"`
	SubmissionDate      time.Time `json:"submissionDate"`
}

// Terminal reports whether the bid has reached a final status.
func (b *Bid) Terminal() bool {
	return b.Status == BidAccepted || b.Status == BidRejected
}

// CanTransition reports whether the bid may move to next. Only
// UnderReview bids may be decided, and only to a terminal status.
func (b *Bid) CanTransition(next BidStatus) bool {
	return b.Status == BidUnderReview && (next == BidAccepted || next == BidRejected)
}
