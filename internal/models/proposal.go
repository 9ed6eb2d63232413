package models

import (
	"encoding/json"
	"time"
)

type ProposalStatus string // Review status of a proposal

const (
	PendingProposal  ProposalStatus = "pending"  // Proposal was received and parsed
	ReviewedProposal ProposalStatus = "reviewed" // Proposal was looked at
	AcceptedProposal ProposalStatus = "accepted" // Proposal won
	RejectedProposal ProposalStatus = "rejected" // Proposal was declined
)

// Valid reports whether s is a known proposal status.
func (s ProposalStatus) Valid() bool {
	switch s {
	case PendingProposal, ReviewedProposal, AcceptedProposal, RejectedProposal:
		return true
	}
	return false
}

// IsDecision reports whether s is a final decision that is announced to the vendor.
func (s ProposalStatus) IsDecision() bool {
	return s == AcceptedProposal || s == RejectedProposal
}

// PricingItem is one line of a vendor quote.
type PricingItem struct {
	Item       string   `json:"item"`
	Quantity   *float64 `json:"quantity"`
	UnitPrice  *float64 `json:"unitPrice"`
	TotalPrice *float64 `json:"totalPrice"`
}

// ContactInfo is the vendor contact found in a reply.
type ContactInfo struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// ProposalDraft is the structured data extracted from a vendor email.
type ProposalDraft struct {
	Pricing           []PricingItem `json:"pricing"`
	TotalCost         *float64      `json:"totalCost"`
	PaymentTerms      *string       `json:"paymentTerms"`
	DeliveryTimeline  *string       `json:"deliveryTimeline"`
	Warranty          *string       `json:"warranty"`
	SpecialConditions *string       `json:"specialConditions"`
	ContactInfo       *ContactInfo  `json:"contactInfo"`
}

// Analysis holds the sub-scores and remarks produced by a comparison.
type Analysis struct {
	ComplianceScore float64  `json:"complianceScore"`
	PriceScore      float64  `json:"priceScore"`
	DeliveryScore   float64  `json:"deliveryScore"`
	Pros            []string `json:"pros"`
	Cons            []string `json:"cons"`
	Deviations      []string `json:"deviations"`
}

// Proposal represents a vendor's answer to an RFP.
type Proposal struct {
	ID                int64           `json:"id"`
	RFPID             int64           `json:"rfpId"`
	VendorID          int64           `json:"vendorId"`
	Pricing           []PricingItem   `json:"pricing"`
	TotalCost         *float64        `json:"totalCost"`
	PaymentTerms      *string         `json:"paymentTerms"`
	DeliveryTimeline  *string         `json:"deliveryTimeline"`
	Warranty          *string         `json:"warranty"`
	SpecialConditions *string         `json:"specialConditions"`
	RawEmailContent   string          `json:"rawEmailContent"`
	ParsedData        json.RawMessage `json:"parsedData"`
	AIScore           *float64        `json:"aiScore"`
	AIAnalysis        *Analysis       `json:"aiAnalysis"`
	Status            ProposalStatus  `json:"status"`
	ReceivedAt        *time.Time      `json:"receivedAt"`
	CreatedAt         time.Time       `json:"createdAt"`
	Vendor            *Vendor         `json:"vendor,omitempty"`
}

// Scored reports whether a comparison result is already stored for the proposal.
func (p Proposal) Scored() bool {
	return p.AIScore != nil && p.AIAnalysis != nil
}

// ProposalStatusRequest is the request body for changing a proposal status.
type ProposalStatusRequest struct {
	Status          ProposalStatus `json:"status"`
	CustomEmailBody *string        `json:"customEmailBody"`
}

// ProposalStatusResult is returned after a status change.
type ProposalStatusResult struct {
	Proposal  *Proposal `json:"data"`
	EmailSent bool      `json:"emailSent"`
	Message   string    `json:"message"`
}

// EmailPreviewRequest is the request body for previewing a status email.
type EmailPreviewRequest struct {
	Status ProposalStatus `json:"status"`
}

// EmailPreview is a composed but unsent status email.
type EmailPreview struct {
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	VendorEmail string `json:"vendorEmail"`
	VendorName  string `json:"vendorName"`
}
