package models

import "time"

type (
	RFPStatus   string // Lifecycle status of an RFP
	EmailStatus string // Delivery status of an RFP email sent to a vendor
)

const (
	DraftRFP  RFPStatus = "draft"  // RFP is being prepared
	SentRFP   RFPStatus = "sent"   // RFP was emailed to at least one vendor
	ClosedRFP RFPStatus = "closed" // RFP no longer accepts proposals

	PendingEmail EmailStatus = "pending"
	SentEmail    EmailStatus = "sent"
	FailedEmail  EmailStatus = "failed"
	BouncedEmail EmailStatus = "bounced"
)

// Requirement is a single requested item of an RFP.
type Requirement struct {
	Item          string  `json:"item"`
	Specification string  `json:"specification"`
	Quantity      float64 `json:"quantity"`
}

// RFP represents a request for proposal.
type RFP struct {
	ID                  int64         `json:"id"`
	Title               string        `json:"title"`
	Description         string        `json:"description"`
	Requirements        []Requirement `json:"requirements"`
	Budget              *string       `json:"budget"`
	Deadline            *time.Time    `json:"deadline"`
	EvaluationCriteria  []string      `json:"evaluationCriteria"`
	SpecialRequirements *string       `json:"specialRequirements"`
	Status              RFPStatus     `json:"status"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`
	Proposals           []Proposal    `json:"proposals,omitempty"`
}

// RFPDraft is the structured form of an RFP produced from free text.
// Deadline is kept as the raw YYYY-MM-DD string returned by the engine.
type RFPDraft struct {
	Title               string        `json:"title"`
	Description         string        `json:"description"`
	Requirements        []Requirement `json:"requirements"`
	Budget              *string       `json:"budget"`
	Deadline            *string       `json:"deadline"`
	EvaluationCriteria  []string      `json:"evaluationCriteria"`
	SpecialRequirements *string       `json:"specialRequirements"`
}

// RFPFromTextRequest is the request body for drafting an RFP from free text.
type RFPFromTextRequest struct {
	UserInput string `json:"userInput"`
}

// RFPVendor records that an RFP was sent to a vendor.
type RFPVendor struct {
	ID          int64       `json:"id"`
	RFPID       int64       `json:"rfpId"`
	VendorID    int64       `json:"vendorId"`
	SentAt      *time.Time  `json:"sentAt"`
	EmailStatus EmailStatus `json:"emailStatus"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// SendRFPRequest is the request body for sending an RFP to vendors.
type SendRFPRequest struct {
	VendorIDs []int64 `json:"vendorIds"`
}

// SendOutcome describes the delivery result for one vendor.
type SendOutcome struct {
	VendorID   int64  `json:"vendorId"`
	VendorName string `json:"vendorName"`
	Email      string `json:"email"`
	Error      string `json:"error,omitempty"`
}

// SendRFPResult is returned after an RFP was sent.
type SendRFPResult struct {
	ReferenceID string `json:"referenceId"`
	Results     struct {
		Success []SendOutcome `json:"success"`
		Failed  []SendOutcome `json:"failed"`
	} `json:"results"`
}
