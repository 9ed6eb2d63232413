package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/senyabanana/procurement-service/internal/models"

	"github.com/nats-io/nats.go"
)

// EventHookName identifies the event publisher in Outcomes.
const EventHookName = "nats"

// Publisher is the part of *nats.Conn used by EventPublisher.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// StatusEvent is the message published for a status change.
type StatusEvent struct {
	ProposalID int64                 `json:"proposalId"`
	RFPID      int64                 `json:"rfpId"`
	VendorID   int64                 `json:"vendorId"`
	Status     models.ProposalStatus `json:"status"`
	ChangedAt  time.Time             `json:"changedAt"`
}

// EventPublisher publishes every status change as JSON.
type EventPublisher struct {
	pub     Publisher
	subject string
}

// NewEventPublisher creates an EventPublisher on subject.
func NewEventPublisher(pub Publisher, subject string) *EventPublisher {
	return &EventPublisher{pub: pub, subject: subject}
}

// ConnectNATS connects to the server at url.
func ConnectNATS(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("procurement-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return nc, nil
}

func (p *EventPublisher) Name() string { return EventHookName }

// ProposalStatusChanged publishes the change.
func (p *EventPublisher) ProposalStatusChanged(_ context.Context, change StatusChange) error {
	data, err := json.Marshal(StatusEvent{
		ProposalID: change.Proposal.ID,
		RFPID:      change.RFP.ID,
		VendorID:   change.Vendor.ID,
		Status:     change.Status,
		ChangedAt:  change.ChangedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}
	if err = p.pub.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish status event: %w", err)
	}
	return nil
}
