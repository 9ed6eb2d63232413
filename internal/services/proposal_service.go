package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/senyabanana/procurement-service/internal/ai"
	"github.com/senyabanana/procurement-service/internal/mailer"
	"github.com/senyabanana/procurement-service/internal/models"
	"github.com/senyabanana/procurement-service/internal/notify"
	"github.com/senyabanana/procurement-service/internal/repository"
)

// StatusHooks runs side effects after a status change was stored.
type StatusHooks interface {
	Fire(ctx context.Context, change notify.StatusChange) notify.Outcomes
}

// ProposalService reads proposals and applies status decisions.
type ProposalService struct {
	Repo     repository.ProposalRepository
	RFPRepo  repository.RFPRepository
	Composer notify.Composer
	Hooks    StatusHooks
	logger   *slog.Logger
	now      func() time.Time
}

// NewProposalService creates a new ProposalService.
func NewProposalService(repo repository.ProposalRepository, rfpRepo repository.RFPRepository, composer notify.Composer, hooks StatusHooks, logger *slog.Logger) *ProposalService {
	return &ProposalService{
		Repo:     repo,
		RFPRepo:  rfpRepo,
		Composer: composer,
		Hooks:    hooks,
		logger:   logger,
		now:      time.Now,
	}
}

// ListProposalsByRFP returns the proposals of an RFP, newest first.
func (s *ProposalService) ListProposalsByRFP(ctx context.Context, rfpId int64) ([]models.Proposal, error) {
	return s.Repo.ListProposalsByRFP(ctx, rfpId)
}

// GetProposal returns a proposal with its vendor.
func (s *ProposalService) GetProposal(ctx context.Context, proposalId int64) (*models.Proposal, error) {
	proposal, err := s.Repo.GetProposal(ctx, proposalId)
	if err != nil {
		return nil, storeError(err, "Proposal not found")
	}
	return proposal, nil
}

// loadWithRFP returns the proposal, its vendor and its RFP.
func (s *ProposalService) loadWithRFP(ctx context.Context, proposalId int64) (*models.Proposal, *models.RFP, error) {
	proposal, err := s.GetProposal(ctx, proposalId)
	if err != nil {
		return nil, nil, err
	}
	if proposal.Vendor == nil {
		return nil, nil, models.NewErrorResponse(http.StatusNotFound, "RFP or Vendor information not found")
	}
	rfp, err := s.RFPRepo.GetRFP(ctx, proposal.RFPID)
	if err != nil {
		return nil, nil, storeError(err, "RFP or Vendor information not found")
	}
	return proposal, rfp, nil
}

// PreviewStatusEmail composes an acceptance or rejection email without sending it.
func (s *ProposalService) PreviewStatusEmail(ctx context.Context, proposalId int64, decision models.ProposalStatus) (*models.EmailPreview, error) {
	if !decision.IsDecision() {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "Valid status is required (accepted or rejected)")
	}

	proposal, rfp, err := s.loadWithRFP(ctx, proposalId)
	if err != nil {
		return nil, err
	}

	composed := s.Composer.ComposeStatusEmail(ctx,
		ai.SummarizeRFP(*rfp),
		ai.VendorSummary{Name: proposal.Vendor.Name, ContactPerson: proposal.Vendor.ContactPerson},
		ai.SummarizeProposal(*proposal),
		decision)
	if !composed.OK() {
		s.logger.Warn("Failed to generate email preview", "proposal_id", proposalId, "error", composed.Message())
		return nil, engineFailure(composed,
			"AI quota exceeded. Please compose the email manually or try again later.",
			"Failed to generate email preview")
	}

	return &models.EmailPreview{
		Subject:     mailer.StatusSubject(decision, rfp.Title),
		Body:        composed.Value,
		VendorEmail: proposal.Vendor.Email,
		VendorName:  proposal.Vendor.Name,
	}, nil
}

// UpdateProposalStatus stores the new status and then fires the status hooks.
// Hook failures are reported as emailSent=false and never undo the change.
func (s *ProposalService) UpdateProposalStatus(ctx context.Context, proposalId int64, req models.ProposalStatusRequest) (*models.ProposalStatusResult, error) {
	if !req.Status.Valid() {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "Valid status is required (pending, reviewed, accepted, rejected)")
	}

	updated, err := s.Repo.UpdateProposalStatus(ctx, proposalId, req.Status)
	if err != nil {
		return nil, storeError(err, "Proposal not found")
	}

	result := &models.ProposalStatusResult{
		Proposal: updated,
		Message:  fmt.Sprintf("Proposal status updated to %s", req.Status),
	}

	proposal, rfp, err := s.loadWithRFP(ctx, proposalId)
	if err != nil {
		s.logger.Error("Failed to load proposal for status hooks", "proposal_id", proposalId, "error", err)
		return result, nil
	}

	outcomes := s.Hooks.Fire(ctx, notify.StatusChange{
		Proposal:        *proposal,
		RFP:             *rfp,
		Vendor:          *proposal.Vendor,
		Status:          req.Status,
		CustomEmailBody: req.CustomEmailBody,
		ChangedAt:       s.now().UTC(),
	})

	if req.Status.IsDecision() && outcomes.Succeeded(notify.EmailHookName) {
		result.EmailSent = true
		result.Message += ". Notification email sent to vendor."
	}
	return result, nil
}
