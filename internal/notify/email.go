package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/senyabanana/procurement-service/internal/ai"
	"github.com/senyabanana/procurement-service/internal/mailer"
	"github.com/senyabanana/procurement-service/internal/models"
)

// EmailHookName identifies the email notifier in Outcomes.
const EmailHookName = "email"

// Sender delivers an HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Composer writes the body of a status email.
type Composer interface {
	ComposeStatusEmail(ctx context.Context, rfp ai.RFPSummary, vendor ai.VendorSummary, proposal ai.ProposalSummary, decision models.ProposalStatus) ai.ParseResult[string]
}

// EmailNotifier emails the vendor when a proposal is accepted or rejected.
type EmailNotifier struct {
	sender   Sender
	composer Composer
	logger   *slog.Logger
}

// NewEmailNotifier creates an EmailNotifier.
func NewEmailNotifier(sender Sender, composer Composer, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{sender: sender, composer: composer, logger: logger}
}

func (n *EmailNotifier) Name() string { return EmailHookName }

// ProposalStatusChanged sends the custom body when given, otherwise composes one.
// Other statuses are ignored.
func (n *EmailNotifier) ProposalStatusChanged(ctx context.Context, change StatusChange) error {
	if !change.Status.IsDecision() {
		return nil
	}

	body, err := n.body(ctx, change)
	if err != nil {
		return err
	}
	html, err := mailer.RenderStatus(body)
	if err != nil {
		return err
	}

	subject := mailer.StatusSubject(change.Status, change.RFP.Title)
	if err = n.sender.Send(ctx, change.Vendor.Email, subject, html); err != nil {
		return err
	}
	n.logger.Info("Status email sent",
		"proposal_id", change.Proposal.ID,
		"vendor", change.Vendor.Name,
		"status", change.Status)
	return nil
}

func (n *EmailNotifier) body(ctx context.Context, change StatusChange) (string, error) {
	if change.CustomEmailBody != nil && *change.CustomEmailBody != "" {
		return *change.CustomEmailBody, nil
	}
	composed := n.composer.ComposeStatusEmail(ctx,
		ai.SummarizeRFP(change.RFP),
		ai.VendorSummary{Name: change.Vendor.Name, ContactPerson: change.Vendor.ContactPerson},
		ai.SummarizeProposal(change.Proposal),
		change.Status)
	if !composed.OK() {
		return "", fmt.Errorf("failed to generate email: %s", composed.Message())
	}
	return composed.Value, nil
}
