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

// VendorService is the vendor logic used by VendorHandler.
type VendorService interface {
	CreateVendor(ctx context.Context, req models.VendorRequest) (*models.Vendor, error)
	ListVendors(ctx context.Context) ([]models.Vendor, error)
	GetVendor(ctx context.Context, vendorId int64) (*models.Vendor, error)
	UpdateVendor(ctx context.Context, vendorId int64, req models.VendorRequest) (*models.Vendor, error)
	DeleteVendor(ctx context.Context, vendorId int64) error
}

// VendorHandler handles the vendor endpoints.
type VendorHandler struct {
	Service VendorService
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewVendorHandler creates a new VendorHandler.
func NewVendorHandler(service VendorService, logger *slog.Logger, timeout time.Duration) *VendorHandler {
	return &VendorHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// CreateVendor registers a vendor.
func (h *VendorHandler) CreateVendor(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.VendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vendor, err := h.Service.CreateVendor(ctx, req)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to create vendor")
		return
	}
	utils.SendJSON(w, http.StatusCreated, vendor)
}

// ListVendors returns all vendors.
func (h *VendorHandler) ListVendors(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	vendors, err := h.Service.ListVendors(ctx)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to fetch vendors")
		return
	}
	utils.SendJSON(w, http.StatusOK, vendors)
}

// GetVendor returns a vendor.
func (h *VendorHandler) GetVendor(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	vendorId, err := utils.ParseID(r, "id")
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	vendor, err := h.Service.GetVendor(ctx, vendorId)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to fetch vendor")
		return
	}
	utils.SendJSON(w, http.StatusOK, vendor)
}

// UpdateVendor replaces a vendor's details.
func (h *VendorHandler) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	vendorId, err := utils.ParseID(r, "id")
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.VendorRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vendor, err := h.Service.UpdateVendor(ctx, vendorId, req)
	if err != nil {
		sendServiceError(w, h.Logger, err, "failed to update vendor")
		return
	}
	utils.SendJSON(w, http.StatusOK, vendor)
}

// DeleteVendor removes a vendor.
func (h *VendorHandler) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	vendorId, err := utils.ParseID(r, "id")
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err = h.Service.DeleteVendor(ctx, vendorId); err != nil {
		sendServiceError(w, h.Logger, err, "failed to delete vendor")
		return
	}
	utils.SendJSON(w, http.StatusOK, map[string]string{"message": "Vendor deleted successfully"})
}
