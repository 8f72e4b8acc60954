package entity

import "time"

// EventKind names a domain event produced by a lifecycle transition.
// The values double as the realtime event names the original channel
// contract exposes to clients.
type EventKind string

const (
	EventTenderCreated       EventKind = "new-tender"
	EventBidSubmitted        EventKind = "new-bid"
	EventBidAccepted         EventKind = "bid-accepted"
	EventBidRejected         EventKind = "bid-rejected"
	EventDocumentSubmitted   EventKind = "contractor-approval-request"
	EventContractorVerified  EventKind = "contractor-approved"
	EventContractorRejected  EventKind = "contractor-rejected"
	EventGeneralNotification EventKind = "general-notification"
)

// DomainEvent is emitted by the lifecycle engine on every successful
// transition and consumed by the notification dispatcher. OccurredAt is
// the transition time, not the dispatch time.
type DomainEvent struct {
	Kind         EventKind
	TenderID     string
	TenderTitle  string
	HomeownerID  string
	BidID        string
	BidAmount    float64
	ContractorID string
	Contractor   string // display name
	DocumentType DocumentType
	Message      string
	OccurredAt   time.Time
}
