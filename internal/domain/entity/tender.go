package entity

import "time"

// TenderStatus is the lifecycle state of a tender.
type TenderStatus string

const (
	TenderOpen      TenderStatus = "open"
	TenderClosed    TenderStatus = "closed"
	TenderAwarded   TenderStatus = "awarded"
	TenderCancelled TenderStatus = "cancelled"
)

// Tender is a homeowner's published request for construction work.
// BidCount is derived store-side and updated transactionally with every
// bid write; client-submitted values are never trusted.
type Tender struct {
	ID            string       `json:"id"`
	HomeownerID   string       `json:"homeownerId"`
	HomeownerName string       `json:"homeownerName"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Budget        float64      `json:"budget"`
	Location      string       `json:"location"`
	StartDate     time.Time    `json:"startDate"`
	EndDate       time.Time    `json:"endDate"`
	Status        TenderStatus `json:"status"`
	BidCount      int          `json:"bidCount"`
	LastUpdated   time.Time    `json:"lastUpdated"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// CanTransition reports whether the tender may move from its current
// status to next. Awarding happens only through bid acceptance; closed,
// awarded and cancelled are terminal.
func (t *Tender) CanTransition(next TenderStatus) bool {
	if t.Status != TenderOpen {
		return false
	}
	switch next {
	case TenderClosed, TenderAwarded, TenderCancelled:
		return true
	}
	return false
}

// AcceptsBids reports whether new bids may be submitted against the tender.
func (t *Tender) AcceptsBids() bool {
	return t.Status == TenderOpen
}
