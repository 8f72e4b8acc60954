package entity

import "time"

// Role identifies which actor kind a recipient belongs to.
type Role string

const (
	RoleContractor Role = "contractor"
	RoleHomeowner  Role = "homeowner"
	RoleAdmin      Role = "admin"
)

// ValidRole reports whether r is a known actor role.
func ValidRole(r Role) bool {
	switch r {
	case RoleContractor, RoleHomeowner, RoleAdmin:
		return true
	}
	return false
}

// Recipient addresses exactly one notification target. The legacy
// store carried two addressing conventions (contractorId vs
// userId/userType); this tagged pair replaces both, and untagged
// records are rejected at the boundary.
type Recipient struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// Valid reports whether the recipient is fully tagged.
func (r Recipient) Valid() bool {
	return r.ID != "" && ValidRole(r.Role)
}

// NotificationType classifies what happened.
type NotificationType string

const (
	NotifNewTender           NotificationType = "new_tender"
	NotifNewBid              NotificationType = "new_bid"
	NotifBidAccepted         NotificationType = "bid_accepted"
	NotifBidRejected         NotificationType = "bid_rejected"
	NotifDocumentSubmitted   NotificationType = "document_submitted"
	NotifContractorVerified  NotificationType = "contractor_verified"
	NotifContractorRejected  NotificationType = "contractor_rejected"
	NotifGeneralNotification NotificationType = "general"
)

// Notification is the durable record of a domain event for one
// recipient. Rows are append-only: nothing is ever mutated after
// creation except the Read flag, and Read only ever flips false→true.
// The realtime push carrying the same payload is a latency hint; these
// rows are the sole source of truth for what happened.
type Notification struct {
	ID           string           `json:"id"`
	Recipient    Recipient        `json:"recipient"`
	Type         NotificationType `json:"type"`
	Message      string           `json:"message"`
	TenderID     string           `json:"tenderId,omitempty"`
	TenderTitle  string           `json:"tenderTitle,omitempty"`
	BidID        string           `json:"bidId,omitempty"`
	ContractorID string           `json:"contractorId,omitempty"`
	BidAmount    float64          `json:"bidAmount,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	Read         bool             `json:"read"`
}
