package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/senyabanana/procurement-service/internal/ai"
	"github.com/senyabanana/procurement-service/internal/mailer"
	"github.com/senyabanana/procurement-service/internal/models"
	"github.com/senyabanana/procurement-service/internal/reference"
	"github.com/senyabanana/procurement-service/internal/repository"
)

// RFPExtractor drafts an RFP from free text.
type RFPExtractor interface {
	ExtractRFPFromText(ctx context.Context, freeText string) ai.ParseResult[models.RFPDraft]
}

// Mailer delivers an HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// RFPService drafts, edits and sends RFPs to vendors.
type RFPService struct {
	Repo         repository.RFPRepository
	VendorRepo   repository.VendorRepository
	ProposalRepo repository.ProposalRepository
	Extractor    RFPExtractor
	Mailer       Mailer
	logger       *slog.Logger
	now          func() time.Time
}

// NewRFPService creates a new RFPService.
func NewRFPService(repo repository.RFPRepository, vendorRepo repository.VendorRepository, proposalRepo repository.ProposalRepository,
	extractor RFPExtractor, mailer Mailer, logger *slog.Logger) *RFPService {
	return &RFPService{
		Repo:         repo,
		VendorRepo:   vendorRepo,
		ProposalRepo: proposalRepo,
		Extractor:    extractor,
		Mailer:       mailer,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateRFPFromText drafts an RFP from free text and stores it as a draft.
func (s *RFPService) CreateRFPFromText(ctx context.Context, userInput string) (*models.RFP, error) {
	if strings.TrimSpace(userInput) == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "user input is required")
	}

	extraction := s.Extractor.ExtractRFPFromText(ctx, userInput)
	if !extraction.OK() {
		s.logger.Warn("Failed to parse RFP from text", "outcome", extraction.Outcome.String(), "error", extraction.Message())
		return nil, engineFailure(extraction,
			"AI quota exceeded. Please try again later or create the RFP manually.",
			"Failed to parse RFP from text")
	}

	draft := extraction.Value
	rfp := models.RFP{
		Title:               draft.Title,
		Description:         draft.Description,
		Requirements:        draft.Requirements,
		Budget:              draft.Budget,
		Deadline:            parseDeadline(draft.Deadline),
		EvaluationCriteria:  draft.EvaluationCriteria,
		SpecialRequirements: draft.SpecialRequirements,
		Status:              models.DraftRFP,
	}
	if rfp.Title == "" {
		rfp.Title = "New RFP"
	}
	if rfp.Description == "" {
		rfp.Description = userInput
	}

	created, err := s.Repo.CreateRFP(ctx, rfp)
	if err != nil {
		return nil, fmt.Errorf("create rfp: %w", err)
	}
	s.logger.Info("RFP created from text", "rfp_id", created.ID)
	return created, nil
}

// parseDeadline accepts YYYY-MM-DD; anything else yields no deadline.
func parseDeadline(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(*raw))
	if err != nil {
		return nil
	}
	return &d
}

// ListRFPs returns RFPs, optionally filtered by status.
func (s *RFPService) ListRFPs(ctx context.Context, status string) ([]models.RFP, error) {
	switch models.RFPStatus(status) {
	case "", models.DraftRFP, models.SentRFP, models.ClosedRFP:
	default:
		return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unsupported status: %s", status))
	}
	return s.Repo.ListRFPs(ctx, status)
}

// GetRFP returns an RFP with its proposals.
func (s *RFPService) GetRFP(ctx context.Context, rfpId int64) (*models.RFP, error) {
	rfp, err := s.Repo.GetRFP(ctx, rfpId)
	if err != nil {
		return nil, storeError(err, "RFP not found")
	}
	if rfp.Proposals, err = s.ProposalRepo.ListProposalsByRFP(ctx, rfpId); err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	return rfp, nil
}

// EditRFP updates the given fields of an RFP.
func (s *RFPService) EditRFP(ctx context.Context, rfpId int64, updateFields map[string]interface{}) (*models.RFP, error) {
	if len(updateFields) == 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "no fields to update")
	}
	if status, ok := updateFields["status"]; ok {
		switch models.RFPStatus(fmt.Sprint(status)) {
		case models.DraftRFP, models.SentRFP, models.ClosedRFP:
		default:
			return nil, models.NewErrorResponse(http.StatusBadRequest, "invalid status")
		}
	}
	if deadline, ok := updateFields["deadline"]; ok && deadline != nil {
		raw := fmt.Sprint(deadline)
		if parseDeadline(&raw) == nil {
			return nil, models.NewErrorResponse(http.StatusBadRequest, "deadline must be YYYY-MM-DD")
		}
	}

	rfp, err := s.Repo.EditRFP(ctx, rfpId, updateFields)
	if err != nil {
		return nil, storeError(err, "RFP not found")
	}
	return rfp, nil
}

// DeleteRFP removes an RFP.
func (s *RFPService) DeleteRFP(ctx context.Context, rfpId int64) error {
	if err := s.Repo.DeleteRFP(ctx, rfpId); err != nil {
		return storeError(err, "RFP not found")
	}
	return nil
}

// SendRFP emails the RFP to the given vendors under one reference ID and
// records the delivery status per vendor. The RFP becomes sent when at least
// one email went out.
func (s *RFPService) SendRFP(ctx context.Context, rfpId int64, req models.SendRFPRequest) (*models.SendRFPResult, error) {
	if len(req.VendorIDs) == 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "vendor IDs array is required")
	}

	rfp, err := s.Repo.GetRFP(ctx, rfpId)
	if err != nil {
		return nil, storeError(err, "RFP not found")
	}

	vendors, err := s.VendorRepo.GetVendorsByIDs(ctx, req.VendorIDs)
	if err != nil {
		return nil, fmt.Errorf("get vendors: %w", err)
	}
	if len(vendors) == 0 {
		return nil, models.NewErrorResponse(http.StatusNotFound, "No vendors found with provided IDs")
	}

	referenceID := reference.MakeReferenceID(rfp.ID, s.now())
	subject := mailer.RFPSubject(rfp.Title, referenceID)
	html, err := mailer.RenderRFP(*rfp, referenceID)
	if err != nil {
		return nil, err
	}

	result := &models.SendRFPResult{ReferenceID: referenceID}
	result.Results.Success = []models.SendOutcome{}
	result.Results.Failed = []models.SendOutcome{}

	for _, vendor := range vendors {
		outcome := models.SendOutcome{VendorID: vendor.ID, VendorName: vendor.Name, Email: vendor.Email}
		record := models.RFPVendor{RFPID: rfp.ID, VendorID: vendor.ID}

		if err := s.Mailer.Send(ctx, vendor.Email, subject, html); err != nil {
			s.logger.Error("Failed to send RFP", "rfp_id", rfp.ID, "vendor", vendor.Name, "error", err)
			outcome.Error = err.Error()
			record.EmailStatus = models.FailedEmail
			result.Results.Failed = append(result.Results.Failed, outcome)
		} else {
			s.logger.Info("RFP sent", "rfp_id", rfp.ID, "vendor", vendor.Name, "email", vendor.Email)
			sentAt := s.now().UTC()
			record.SentAt = &sentAt
			record.EmailStatus = models.SentEmail
			result.Results.Success = append(result.Results.Success, outcome)
		}

		if err := s.Repo.UpsertSendRecord(ctx, record); err != nil {
			s.logger.Error("Failed to record RFP delivery", "rfp_id", rfp.ID, "vendor_id", vendor.ID, "error", err)
		}
	}

	if len(result.Results.Success) > 0 {
		if err = s.Repo.UpdateRFPStatus(ctx, rfp.ID, models.SentRFP); err != nil {
			return nil, fmt.Errorf("mark rfp sent: %w", err)
		}
	}
	return result, nil
}
