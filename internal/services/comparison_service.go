package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/senyabanana/procurement-service/internal/ai"
	"github.com/senyabanana/procurement-service/internal/metrics"
	"github.com/senyabanana/procurement-service/internal/models"
	"github.com/senyabanana/procurement-service/internal/repository"
)

// ProposalScorer scores a set of proposals in a single engine call.
type ProposalScorer interface {
	ScoreProposals(ctx context.Context, rfp ai.RFPSummary, proposals []ai.ProposalSummary) ai.ParseResult[models.ComparisonResult]
}

// ComparisonService compares proposals and caches the scores on the proposals.
//
// The cache is coarse: the engine is skipped only when every requested proposal
// already carries a score and an analysis. One unscored proposal forces a
// re-score of the whole set, because the engine scores the set in one call.
type ComparisonService struct {
	RFPRepo      repository.RFPRepository
	ProposalRepo repository.ProposalRepository
	Scorer       ProposalScorer
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

// NewComparisonService creates a new ComparisonService.
func NewComparisonService(rfpRepo repository.RFPRepository, proposalRepo repository.ProposalRepository, scorer ProposalScorer, logger *slog.Logger, m *metrics.Metrics) *ComparisonService {
	return &ComparisonService{
		RFPRepo:      rfpRepo,
		ProposalRepo: proposalRepo,
		Scorer:       scorer,
		logger:       logger,
		metrics:      m,
	}
}

// Compare scores the requested proposals of an RFP. Ids that do not belong to
// the RFP are dropped.
func (s *ComparisonService) Compare(ctx context.Context, req models.CompareRequest) (*models.ComparisonResponse, error) {
	if req.RFPID <= 0 || len(req.ProposalIDs) == 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "RFP ID and proposal IDs array are required")
	}

	rfp, err := s.RFPRepo.GetRFP(ctx, req.RFPID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "RFP not found")
		}
		return nil, fmt.Errorf("get rfp: %w", err)
	}

	proposals, err := s.ProposalRepo.GetProposalsByIDs(ctx, rfp.ID, req.ProposalIDs)
	if err != nil {
		return nil, fmt.Errorf("get proposals: %w", err)
	}
	if len(proposals) == 0 {
		return nil, models.NewErrorResponse(http.StatusNotFound, "No proposals found with provided IDs")
	}

	logger := s.logger.With("rfp_id", rfp.ID, "proposals", len(proposals))

	if allScored(proposals) {
		logger.Info("Returning cached comparison")
		s.metrics.Comparison(metrics.SourceCache)
		return &models.ComparisonResponse{ComparisonResult: cachedComparison(proposals), Cached: true}, nil
	}

	summaries := make([]ai.ProposalSummary, 0, len(proposals))
	for _, p := range proposals {
		summaries = append(summaries, ai.SummarizeProposal(p))
	}

	scored := s.Scorer.ScoreProposals(ctx, ai.SummarizeRFP(*rfp), summaries)
	if !scored.OK() {
		if scored.Quota() {
			logger.Warn("Comparison hit the AI quota", "error", scored.Message())
			s.metrics.Comparison(metrics.SourceQuota)
			resp := models.NewErrorResponse(http.StatusTooManyRequests,
				"AI quota exceeded. Please try again later or view previously cached comparisons.").
				WithDetails(scored.Message())
			resp.QuotaExceeded = true
			return nil, resp
		}
		logger.Error("Comparison failed", "outcome", scored.Outcome.String(), "error", scored.Message())
		s.metrics.Comparison(metrics.SourceFailed)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "Failed to compare proposals").
			WithDetails(scored.Message())
	}

	scores := scoresByProposal(proposals, scored.Value.Comparison)
	if err = s.ProposalRepo.SaveScores(ctx, scores); err != nil {
		s.metrics.Comparison(metrics.SourceFailed)
		return nil, fmt.Errorf("save scores: %w", err)
	}

	logger.Info("Stored fresh comparison", "scored", len(scores))
	s.metrics.Comparison(metrics.SourceEngine)
	return &models.ComparisonResponse{ComparisonResult: scored.Value, Cached: false}, nil
}

func allScored(proposals []models.Proposal) bool {
	for _, p := range proposals {
		if !p.Scored() {
			return false
		}
	}
	return true
}

// cachedComparison rebuilds a comparison from stored scores. The vendor with the
// highest stored score is recommended.
func cachedComparison(proposals []models.Proposal) models.ComparisonResult {
	result := models.ComparisonResult{Comparison: make([]models.VendorScore, 0, len(proposals))}

	var best *models.VendorScore
	for _, p := range proposals {
		score := models.VendorScore{
			VendorID:        p.VendorID,
			ComplianceScore: p.AIAnalysis.ComplianceScore,
			PriceScore:      p.AIAnalysis.PriceScore,
			DeliveryScore:   p.AIAnalysis.DeliveryScore,
			OverallScore:    *p.AIScore,
			Pros:            nonNil(p.AIAnalysis.Pros),
			Cons:            nonNil(p.AIAnalysis.Cons),
			Deviations:      nonNil(p.AIAnalysis.Deviations),
		}
		if p.Vendor != nil {
			score.VendorName = p.Vendor.Name
		}
		result.Comparison = append(result.Comparison, score)
		if best == nil || score.OverallScore > best.OverallScore {
			best = &result.Comparison[len(result.Comparison)-1]
		}
	}

	if best != nil {
		vendorID := best.VendorID
		result.Recommendation = models.Recommendation{
			RecommendedVendorID: &vendorID,
			Reasoning:           fmt.Sprintf("%s has the highest previously computed overall score (%.0f).", vendorLabel(*best), best.OverallScore),
		}
	}
	result.Summary = fmt.Sprintf("Showing previously computed scores for %d proposal(s).", len(proposals))
	return result
}

// scoresByProposal matches engine scores to proposals by vendor and clamps them to 0..100.
func scoresByProposal(proposals []models.Proposal, comparison []models.VendorScore) []repository.ProposalScore {
	byVendor := make(map[int64]int64, len(proposals))
	for _, p := range proposals {
		byVendor[p.VendorID] = p.ID
	}

	scores := make([]repository.ProposalScore, 0, len(comparison))
	for _, item := range comparison {
		proposalID, ok := byVendor[item.VendorID]
		if !ok {
			continue
		}
		analysis := item.Analysis()
		analysis.ComplianceScore = clampScore(analysis.ComplianceScore)
		analysis.PriceScore = clampScore(analysis.PriceScore)
		analysis.DeliveryScore = clampScore(analysis.DeliveryScore)
		analysis.Pros = nonNil(analysis.Pros)
		analysis.Cons = nonNil(analysis.Cons)
		analysis.Deviations = nonNil(analysis.Deviations)
		scores = append(scores, repository.ProposalScore{
			ProposalID: proposalID,
			Score:      clampScore(item.OverallScore),
			Analysis:   *analysis,
		})
	}
	return scores
}

func clampScore(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func vendorLabel(s models.VendorScore) string {
	if s.VendorName != "" {
		return s.VendorName
	}
	return fmt.Sprintf("Vendor %d", s.VendorID)
}
