package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/senyabanana/procurement-service/internal/models"
	"github.com/senyabanana/procurement-service/internal/utils"
)

// ProposalService is the proposal logic used by ProposalHandler.
type ProposalService interface {
	ListProposalsByRFP(ctx context.Context, rfpId int64) ([]models.Proposal, error)
	GetProposal(ctx context.Context, proposalId int64) (*models.Proposal, error)
	PreviewStatusEmail(ctx context.Context, proposalId int64, decision models.ProposalStatus) (*models.EmailPreview, error)
	UpdateProposalStatus(ctx context.Context, proposalId int64, req models.ProposalStatusRequest) (*models.ProposalStatusResult, error)
}

// Comparer compares proposals of an RFP.
type Comparer interface {
	Compare(ctx context.Context, req models.CompareRequest) (*models.ComparisonResponse, error)
}

// ProposalHandler handles the proposal endpoints.
type ProposalHandler struct {
	Service   ProposalService
	Comparer  Comparer
	Logger    *slog.Logger
	Timeout   time.Duration
	AITimeout time.Duration
}

// NewProposalHandler creates a new ProposalHandler.
func NewProposalHandler(service ProposalService, comparer Comparer, logger *slog.Logger, timeout, aiTimeout time.Duration) *ProposalHandler {
	return &ProposalHandler{
		Service:   service,
		Comparer:  comparer,
		Logger:    logger,
		Timeout:   timeout,
		AITimeout: aiTimeout,
	}
}

// ListProposalsByRFP returns the proposals received for an RFP.
func (h *ProposalHandler) ListProposalsByRFP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	rfpId, err := utils.ParseID(r, "rfpId")
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	proposals, err := h.Service.ListProposalsByRFP(ctx, rfpId)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to fetch proposals")
		return
	}
	utils.SendJSON(w, http.StatusOK, proposals)
}

// GetProposal returns a proposal.
func (h *ProposalHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	proposalId, err := utils.ParseID(r, "id")
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	proposal, err := h.Service.GetProposal(ctx, proposalId)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to fetch proposal")
		return
	}
	utils.SendJSON(w, http.StatusOK, proposal)
}

// CompareProposals scores proposals, from cache when possible.
func (h *ProposalHandler) CompareProposals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.AITimeout)
	defer cancel()

	var req models.CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Comparer.Compare(ctx, req)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to compare proposals")
		return
	}
	utils.SendJSON(w, http.StatusOK, result)
}

// PreviewStatusEmail composes a status email without sending it.
func (h *ProposalHandler) PreviewStatusEmail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.AITimeout)
	defer cancel()

	proposalId, err := utils.ParseID(r, "id")
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.EmailPreviewRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	preview, err := h.Service.PreviewStatusEmail(ctx, proposalId, req.Status)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to generate email preview")
		return
	}
	utils.SendJSON(w, http.StatusOK, preview)
}

// UpdateProposalStatus changes the status and notifies the vendor of a decision.
func (h *ProposalHandler) UpdateProposalStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.AITimeout)
	defer cancel()

	proposalId, err := utils.ParseID(r, "id")
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.ProposalStatusRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.UpdateProposalStatus(ctx, proposalId, req)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to update proposal status")
		return
	}
	utils.SendJSON(w, http.StatusOK, result)
}
