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

// RFPService is the RFP logic used by RFPHandler.
type RFPService interface {
	CreateRFPFromText(ctx context.Context, userInput string) (*models.RFP, error)
	ListRFPs(ctx context.Context, status string) ([]models.RFP, error)
	GetRFP(ctx context.Context, rfpId int64) (*models.RFP, error)
	EditRFP(ctx context.Context, rfpId int64, updateFields map[string]interface{}) (*models.RFP, error)
	DeleteRFP(ctx context.Context, rfpId int64) error
	SendRFP(ctx context.Context, rfpId int64, req models.SendRFPRequest) (*models.SendRFPResult, error)
}

// RFPHandler handles the RFP endpoints.
type RFPHandler struct {
	Service   RFPService
	Logger    *slog.Logger
	Timeout   time.Duration
	AITimeout time.Duration
}

// NewRFPHandler creates a new RFPHandler.
func NewRFPHandler(service RFPService, logger *slog.Logger, timeout, aiTimeout time.Duration) *RFPHandler {
	return &RFPHandler{
		Service:   service,
		Logger:    logger,
		Timeout:   timeout,
		AITimeout: aiTimeout,
	}
}

// CreateRFPFromText drafts and stores an RFP from free text.
func (h *RFPHandler) CreateRFPFromText(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.AITimeout)
	defer cancel()

	var req models.RFPFromTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rfp, err := h.Service.CreateRFPFromText(ctx, req.UserInput)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to create RFP")
		return
	}
	utils.SendJSON(w, http.StatusCreated, rfp)
}

// ListRFPs returns all RFPs, optionally filtered by ?status=.
func (h *RFPHandler) ListRFPs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	rfps, err := h.Service.ListRFPs(ctx, r.URL.Query().Get("status"))
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to fetch RFPs")
		return
	}
	utils.SendJSON(w, http.StatusOK, rfps)
}

// GetRFP returns an RFP with its proposals.
func (h *RFPHandler) GetRFP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	rfpId, err := utils.ParseID(r, "id")
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	rfp, err := h.Service.GetRFP(ctx, rfpId)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to fetch RFP")
		return
	}
	utils.SendJSON(w, http.StatusOK, rfp)
}

// EditRFP updates the fields present in the request body.
func (h *RFPHandler) EditRFP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	rfpId, err := utils.ParseID(r, "id")
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var updateFields map[string]interface{}
	if err = json.NewDecoder(r.Body).Decode(&updateFields); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rfp, err := h.Service.EditRFP(ctx, rfpId, updateFields)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to update RFP")
		return
	}
	utils.SendJSON(w, http.StatusOK, rfp)
}

// DeleteRFP removes an RFP.
func (h *RFPHandler) DeleteRFP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	rfpId, err := utils.ParseID(r, "id")
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err = h.Service.DeleteRFP(ctx, rfpId); err != nil {
		sendServiceError(w, h.Logger, err, "failed to delete RFP")
		return
	}
	utils.SendJSON(w, http.StatusOK, map[string]string{"message": "RFP deleted successfully"})
}

// SendRFP emails an RFP to the selected vendors.
func (h *RFPHandler) SendRFP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.AITimeout)
	defer cancel()

	rfpId, err := utils.ParseID(r, "id")
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.SendRFPRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.SendRFP(ctx, rfpId, req)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to send RFP")
		return
	}
	utils.SendJSON(w, http.StatusOK, result)
}
