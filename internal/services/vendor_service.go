package services

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/senyabanana/procurement-service/internal/models"
	"github.com/senyabanana/procurement-service/internal/repository"
)

// VendorService validates and stores vendors.
type VendorService struct {
	Repo repository.VendorRepository
}

// NewVendorService creates a new VendorService.
func NewVendorService(repo repository.VendorRepository) *VendorService {
	return &VendorService{Repo: repo}
}

func validateVendor(req *models.VendorRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" {
		return models.NewErrorResponse(http.StatusBadRequest, "name and email are required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return models.NewErrorResponse(http.StatusBadRequest, "invalid email address")
	}
	return nil
}

// CreateVendor registers a vendor. Emails are unique.
func (s *VendorService) CreateVendor(ctx context.Context, req models.VendorRequest) (*models.Vendor, error) {
	if err := validateVendor(&req); err != nil {
		return nil, err
	}
	vendor, err := s.Repo.CreateVendor(ctx, req)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, models.NewErrorResponse(http.StatusConflict, "Vendor with this email already exists")
	}
	return vendor, err
}

// ListVendors returns all vendors ordered by name.
func (s *VendorService) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	return s.Repo.ListVendors(ctx)
}

// GetVendor returns a vendor by id.
func (s *VendorService) GetVendor(ctx context.Context, vendorId int64) (*models.Vendor, error) {
	vendor, err := s.Repo.GetVendor(ctx, vendorId)
	if err != nil {
		return nil, storeError(err, "Vendor not found")
	}
	return vendor, nil
}

// UpdateVendor replaces a vendor's details.
func (s *VendorService) UpdateVendor(ctx context.Context, vendorId int64, req models.VendorRequest) (*models.Vendor, error) {
	if err := validateVendor(&req); err != nil {
		return nil, err
	}
	vendor, err := s.Repo.UpdateVendor(ctx, vendorId, req)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, models.NewErrorResponse(http.StatusConflict, "Vendor with this email already exists")
	}
	if err != nil {
		return nil, storeError(err, "Vendor not found")
	}
	return vendor, nil
}

// DeleteVendor removes a vendor.
func (s *VendorService) DeleteVendor(ctx context.Context, vendorId int64) error {
	if err := s.Repo.DeleteVendor(ctx, vendorId); err != nil {
		return storeError(err, "Vendor not found")
	}
	return nil
}
