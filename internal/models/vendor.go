package models

import "time"

// Vendor represents a supplier that receives RFPs and replies with proposals.
type Vendor struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ContactPerson *string   `json:"contactPerson"`
	Phone         *string   `json:"phone"`
	CompanyInfo   *string   `json:"companyInfo"`
	CreatedAt     time.Time `json:"createdAt"`
}

// VendorRequest is the request body for creating or updating a vendor.
type VendorRequest struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	ContactPerson *string `json:"contactPerson"`
	Phone         *string `json:"phone"`
	CompanyInfo   *string `json:"companyInfo"`
}
