package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/senyabanana/procurement-service/internal/ai"
	"github.com/senyabanana/procurement-service/internal/metrics"
	"github.com/senyabanana/procurement-service/internal/models"
	"github.com/senyabanana/procurement-service/internal/repository"
)

// ProposalExtractor extracts a proposal draft from a vendor email.
type ProposalExtractor interface {
	ExtractProposalFromEmail(ctx context.Context, emailText string) ai.ParseResult[models.ProposalDraft]
}

// IngestionService stores at most one proposal per (RFP, vendor) pair.
type IngestionService struct {
	Repo      repository.ProposalRepository
	Extractor ProposalExtractor
	logger    *slog.Logger
	now       func() time.Time
}

// NewIngestionService creates a new IngestionService.
func NewIngestionService(repo repository.ProposalRepository, extractor ProposalExtractor, logger *slog.Logger) *IngestionService {
	return &IngestionService{
		Repo:      repo,
		Extractor: extractor,
		logger:    logger,
		now:       time.Now,
	}
}

// Ingest checks for an existing proposal, extracts the email and stores a pending
// proposal. Duplicates and extraction failures are skipped without an error;
// an error is returned only when the store could not be read or written.
func (s *IngestionService) Ingest(ctx context.Context, rfp models.RFP, vendor models.Vendor, emailText string) (string, error) {
	logger := s.logger.With("rfp_id", rfp.ID, "vendor_id", vendor.ID)

	existing, err := s.Repo.FindProposal(ctx, rfp.ID, vendor.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		logger.Error("Proposal lookup failed", "error", err)
		return metrics.OutcomeStoreFailed, fmt.Errorf("find proposal: %w", err)
	}
	if existing != nil {
		logger.Warn("Proposal already exists, skipping duplicate", "vendor", vendor.Name, "rfp", rfp.Title)
		return metrics.OutcomeDuplicate, nil
	}

	extraction := s.Extractor.ExtractProposalFromEmail(ctx, emailText)
	if !extraction.OK() {
		logger.Warn("Failed to parse vendor response",
			"outcome", extraction.Outcome.String(),
			"quota", extraction.Quota(),
			"error", extraction.Message())
		return metrics.OutcomeExtractionFailed, nil
	}

	draft := extraction.Value
	parsed, err := json.Marshal(draft)
	if err != nil {
		return metrics.OutcomeExtractionFailed, nil
	}

	receivedAt := s.now().UTC()
	proposal := models.Proposal{
		RFPID:             rfp.ID,
		VendorID:          vendor.ID,
		Pricing:           draft.Pricing,
		TotalCost:         draft.TotalCost,
		PaymentTerms:      draft.PaymentTerms,
		DeliveryTimeline:  draft.DeliveryTimeline,
		Warranty:          draft.Warranty,
		SpecialConditions: draft.SpecialConditions,
		RawEmailContent:   emailText,
		ParsedData:        parsed,
		Status:            models.PendingProposal,
		ReceivedAt:        &receivedAt,
	}

	created, err := s.Repo.CreateProposal(ctx, proposal)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			logger.Warn("Proposal was stored concurrently, skipping duplicate")
			return metrics.OutcomeDuplicate, nil
		}
		logger.Error("Failed to store proposal", "error", err)
		return metrics.OutcomeStoreFailed, fmt.Errorf("create proposal: %w", err)
	}

	logger.Info("Processed proposal", "proposal_id", created.ID, "vendor", vendor.Name, "rfp", rfp.Title)
	return metrics.OutcomeCreated, nil
}
