package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/senyabanana/procurement-service/internal/ai"
	"github.com/senyabanana/procurement-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rfpFixture() (*RFPService, *memRFPRepo, *fakeExtractor, *fakeMailer) {
	rfps := newMemRFPRepo(models.RFP{ID: 7, Title: "Laptops", Status: models.DraftRFP})
	vendors := newMemVendorRepo(
		models.Vendor{ID: 1, Name: "Acme", Email: "acme@example.com"},
		models.Vendor{ID: 2, Name: "Globex", Email: "globex@example.com"},
	)
	proposals := newMemProposalRepo(vendors, models.Proposal{ID: 11, RFPID: 7, VendorID: 1})
	extractor := &fakeExtractor{}
	m := &fakeMailer{failFor: map[string]error{}}
	s := NewRFPService(rfps, vendors, proposals, extractor, m, discard)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s, rfps, extractor, m
}

func TestCreateRFPFromText(t *testing.T) {
	s, _, extractor, _ := rfpFixture()
	extractor.rfp = ai.ParseResult[models.RFPDraft]{
		Outcome: ai.OutcomeOK,
		Value: models.RFPDraft{
			Title:        "Office chairs",
			Description:  "Ergonomic chairs",
			Requirements: []models.Requirement{{Item: "Chair", Quantity: 50}},
			Deadline:     ptr("2025-06-30"),
		},
	}

	rfp, err := s.CreateRFPFromText(context.Background(), "We need 50 chairs by end of June")

	require.NoError(t, err)
	assert.Equal(t, "Office chairs", rfp.Title)
	assert.Equal(t, models.DraftRFP, rfp.Status)
	require.NotNil(t, rfp.Deadline)
	assert.Equal(t, "2025-06-30", rfp.Deadline.Format(time.DateOnly))
}

func TestCreateRFPFromText_Failures(t *testing.T) {
	s, _, extractor, _ := rfpFixture()

	_, err := s.CreateRFPFromText(context.Background(), "  ")
	var errResp *models.ErrorResponse
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusBadRequest, errResp.StatusCode)

	extractor.rfp = ai.ParseResult[models.RFPDraft]{Outcome: ai.OutcomeEngineError, Err: errors.New("RESOURCE_EXHAUSTED")}
	_, err = s.CreateRFPFromText(context.Background(), "chairs")
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusTooManyRequests, errResp.StatusCode)
	assert.True(t, errResp.QuotaExceeded)

	extractor.rfp = ai.ParseResult[models.RFPDraft]{Outcome: ai.OutcomeMalformed, Err: errors.New("unexpected end of JSON input")}
	_, err = s.CreateRFPFromText(context.Background(), "chairs")
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusInternalServerError, errResp.StatusCode)
}

func TestSendRFP(t *testing.T) {
	s, rfps, _, m := rfpFixture()
	m.failFor["globex@example.com"] = errors.New("550 rejected")

	result, err := s.SendRFP(context.Background(), 7, models.SendRFPRequest{VendorIDs: []int64{1, 2, 404}})

	require.NoError(t, err)
	assert.Equal(t, "RFP-7-1700000000000", result.ReferenceID)
	assert.Equal(t, "RFP: Laptops - Ref: RFP-7-1700000000000", m.subject)
	require.Len(t, result.Results.Success, 1)
	assert.Equal(t, "Acme", result.Results.Success[0].VendorName)
	require.Len(t, result.Results.Failed, 1)
	assert.Equal(t, "550 rejected", result.Results.Failed[0].Error)

	rfp, _ := rfps.GetRFP(context.Background(), 7)
	assert.Equal(t, models.SentRFP, rfp.Status)

	require.Len(t, rfps.records, 2)
	assert.Equal(t, models.SentEmail, rfps.records[0].EmailStatus)
	assert.NotNil(t, rfps.records[0].SentAt)
	assert.Equal(t, models.FailedEmail, rfps.records[1].EmailStatus)
	assert.Nil(t, rfps.records[1].SentAt)
}

func TestSendRFP_AllFailedKeepsDraft(t *testing.T) {
	s, rfps, _, m := rfpFixture()
	m.failFor["acme@example.com"] = errors.New("timeout")

	result, err := s.SendRFP(context.Background(), 7, models.SendRFPRequest{VendorIDs: []int64{1}})

	require.NoError(t, err)
	assert.Empty(t, result.Results.Success)
	rfp, _ := rfps.GetRFP(context.Background(), 7)
	assert.Equal(t, models.DraftRFP, rfp.Status)
}

func TestSendRFP_Validation(t *testing.T) {
	s, _, _, _ := rfpFixture()

	tests := []struct {
		name  string
		rfpId int64
		ids   []int64
		code  int
	}{
		{"no vendors", 7, nil, http.StatusBadRequest},
		{"unknown rfp", 99, []int64{1}, http.StatusNotFound},
		{"unknown vendors", 7, []int64{404}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.SendRFP(context.Background(), tt.rfpId, models.SendRFPRequest{VendorIDs: tt.ids})
			var errResp *models.ErrorResponse
			require.ErrorAs(t, err, &errResp)
			assert.Equal(t, tt.code, errResp.StatusCode)
		})
	}
}

func TestGetRFP_IncludesProposals(t *testing.T) {
	s, _, _, _ := rfpFixture()

	rfp, err := s.GetRFP(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, rfp.Proposals, 1)
	assert.Equal(t, "Acme", rfp.Proposals[0].Vendor.Name)

	_, err = s.GetRFP(context.Background(), 99)
	var errResp *models.ErrorResponse
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusNotFound, errResp.StatusCode)
}

func TestEditRFP(t *testing.T) {
	s, _, _, _ := rfpFixture()

	rfp, err := s.EditRFP(context.Background(), 7, map[string]interface{}{"title": "Gaming laptops"})
	require.NoError(t, err)
	assert.Equal(t, "Gaming laptops", rfp.Title)

	var errResp *models.ErrorResponse
	_, err = s.EditRFP(context.Background(), 7, map[string]interface{}{"status": "archived"})
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusBadRequest, errResp.StatusCode)

	_, err = s.EditRFP(context.Background(), 7, map[string]interface{}{"deadline": "next week"})
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusBadRequest, errResp.StatusCode)

	_, err = s.EditRFP(context.Background(), 7, map[string]interface{}{"unknown": 1})
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusBadRequest, errResp.StatusCode)

	_, err = s.EditRFP(context.Background(), 99, map[string]interface{}{"title": "x"})
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusNotFound, errResp.StatusCode)
}

func TestListAndDeleteRFP(t *testing.T) {
	s, _, _, _ := rfpFixture()

	rfps, err := s.ListRFPs(context.Background(), "draft")
	require.NoError(t, err)
	assert.Len(t, rfps, 1)

	_, err = s.ListRFPs(context.Background(), "archived")
	var errResp *models.ErrorResponse
	require.ErrorAs(t, err, &errResp)

	require.NoError(t, s.DeleteRFP(context.Background(), 7))
	err = s.DeleteRFP(context.Background(), 7)
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusNotFound, errResp.StatusCode)
}
