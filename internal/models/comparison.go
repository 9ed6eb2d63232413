package models

// VendorScore is the comparison outcome for a single vendor.
type VendorScore struct {
	VendorID        int64    `json:"vendorId"`
	VendorName      string   `json:"vendorName"`
	ComplianceScore float64  `json:"complianceScore"`
	PriceScore      float64  `json:"priceScore"`
	DeliveryScore   float64  `json:"deliveryScore"`
	OverallScore    float64  `json:"overallScore"`
	Pros            []string `json:"pros"`
	Cons            []string `json:"cons"`
	Deviations      []string `json:"deviations"`
}

// Analysis returns the part of the score that is stored on the proposal.
func (v VendorScore) Analysis() *Analysis {
	return &Analysis{
		ComplianceScore: v.ComplianceScore,
		PriceScore:      v.PriceScore,
		DeliveryScore:   v.DeliveryScore,
		Pros:            v.Pros,
		Cons:            v.Cons,
		Deviations:      v.Deviations,
	}
}

// Recommendation names the preferred vendor.
type Recommendation struct {
	RecommendedVendorID *int64 `json:"recommendedVendorId"`
	Reasoning           string `json:"reasoning"`
}

// ComparisonResult is a scored comparison of proposals against an RFP.
type ComparisonResult struct {
	Comparison     []VendorScore  `json:"comparison"`
	Recommendation Recommendation `json:"recommendation"`
	Summary        string         `json:"summary"`
}

// CompareRequest is the request body for comparing proposals.
type CompareRequest struct {
	RFPID       int64   `json:"rfpId"`
	ProposalIDs []int64 `json:"proposalIds"`
}

// ComparisonResponse wraps a comparison with its origin.
type ComparisonResponse struct {
	ComparisonResult
	Cached bool `json:"cached"`
}
