// Package ai turns free text into structured procurement records through a
// text generation engine. Every operation returns a ParseResult and never
// fails past this package: on error the result carries a deterministic fallback.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/senyabanana/procurement-service/internal/metrics"
	"github.com/senyabanana/procurement-service/internal/models"

	"github.com/google/uuid"
)

// Operation names used in logs and metrics.
const (
	OpExtractRFP      = "extract_rfp"
	OpExtractProposal = "extract_proposal"
	OpScoreProposals  = "score_proposals"
	OpComposeEmail    = "compose_status_email"
)

// RFPSummary is the RFP as shown to the engine.
type RFPSummary struct {
	Title              string               `json:"title"`
	Description        string               `json:"description"`
	Requirements       []models.Requirement `json:"requirements"`
	Budget             *string              `json:"budget"`
	Deadline           *string              `json:"deadline"`
	EvaluationCriteria []string             `json:"evaluationCriteria"`
}

// SummarizeRFP builds the engine view of an RFP.
func SummarizeRFP(rfp models.RFP) RFPSummary {
	s := RFPSummary{
		Title:              rfp.Title,
		Description:        rfp.Description,
		Requirements:       rfp.Requirements,
		Budget:             rfp.Budget,
		EvaluationCriteria: rfp.EvaluationCriteria,
	}
	if rfp.Deadline != nil {
		d := rfp.Deadline.Format(time.DateOnly)
		s.Deadline = &d
	}
	return s
}

// ProposalSummary is a proposal as shown to the engine.
type ProposalSummary struct {
	VendorID          int64                `json:"vendorId"`
	VendorName        string               `json:"vendorName"`
	Pricing           []models.PricingItem `json:"pricing"`
	TotalCost         *float64             `json:"totalCost"`
	PaymentTerms      *string              `json:"paymentTerms"`
	DeliveryTimeline  *string              `json:"deliveryTimeline"`
	Warranty          *string              `json:"warranty"`
	SpecialConditions *string              `json:"specialConditions"`
}

// SummarizeProposal builds the engine view of a proposal. The vendor name is
// taken from p.Vendor when loaded.
func SummarizeProposal(p models.Proposal) ProposalSummary {
	s := ProposalSummary{
		VendorID:          p.VendorID,
		Pricing:           p.Pricing,
		TotalCost:         p.TotalCost,
		PaymentTerms:      p.PaymentTerms,
		DeliveryTimeline:  p.DeliveryTimeline,
		Warranty:          p.Warranty,
		SpecialConditions: p.SpecialConditions,
	}
	if p.Vendor != nil {
		s.VendorName = p.Vendor.Name
	}
	return s
}

// VendorSummary is the vendor as addressed in a status email.
type VendorSummary struct {
	Name          string
	ContactPerson *string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records engine calls.
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// Client runs the fixed extraction templates against an Engine.
type Client struct {
	engine  Engine
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewClient creates a Client on top of engine.
func NewClient(engine Engine, opts ...ClientOption) *Client {
	c := &Client{
		engine: engine,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// generate calls the engine and logs the call.
func (c *Client) generate(ctx context.Context, op, prompt string) (string, error) {
	callID := uuid.New().String()
	startedAt := time.Now()

	text, err := c.engine.Generate(ctx, prompt)
	took := time.Since(startedAt)
	if err != nil {
		outcome := "error"
		if IsQuotaError(err) {
			outcome = "quota"
		}
		c.metrics.EngineCall(op, outcome)
		c.logger.Warn("Engine call failed",
			"operation", op,
			"call_id", callID,
			"duration_ms", took.Milliseconds(),
			"quota", outcome == "quota",
			"error", err)
		return "", err
	}

	c.metrics.EngineCall(op, "ok")
	c.logger.Debug("Engine call finished",
		"operation", op,
		"call_id", callID,
		"duration_ms", took.Milliseconds(),
		"response_chars", len(text))
	return text, nil
}

// ExtractRFPFromText drafts an RFP from a free text description.
// The fallback is an RFP titled "New RFP" whose description is the input.
func (c *Client) ExtractRFPFromText(ctx context.Context, freeText string) ParseResult[models.RFPDraft] {
	fallback := models.RFPDraft{
		Title:              "New RFP",
		Description:        freeText,
		Requirements:       []models.Requirement{},
		EvaluationCriteria: []string{},
	}

	prompt := rfpExtractionPrompt + "\n\nUser Input:\n" + freeText
	text, err := c.generate(ctx, OpExtractRFP, prompt)
	if err != nil {
		return engineError(fallback, err)
	}

	draft, err := decodeJSON[models.RFPDraft](text)
	if err != nil {
		c.logger.Warn("Malformed RFP extraction", "error", err, "response", truncate(text, 200))
		return malformed(fallback, text, err)
	}
	if draft.Requirements == nil {
		draft.Requirements = []models.Requirement{}
	}
	if draft.EvaluationCriteria == nil {
		draft.EvaluationCriteria = []string{}
	}
	return ok(draft)
}

// ExtractProposalFromEmail extracts pricing and terms from a vendor email.
// The fallback has an empty pricing list and nil fields.
func (c *Client) ExtractProposalFromEmail(ctx context.Context, emailText string) ParseResult[models.ProposalDraft] {
	fallback := models.ProposalDraft{Pricing: []models.PricingItem{}}

	prompt := proposalExtractionPrompt + "\n\nEmail Content:\n" + emailText
	text, err := c.generate(ctx, OpExtractProposal, prompt)
	if err != nil {
		return engineError(fallback, err)
	}

	draft, err := decodeJSON[models.ProposalDraft](text)
	if err != nil {
		c.logger.Warn("Malformed proposal extraction", "error", err, "response", truncate(text, 200))
		return malformed(fallback, text, err)
	}
	if draft.Pricing == nil {
		draft.Pricing = []models.PricingItem{}
	}
	return ok(draft)
}

// ScoreProposals scores all proposals against the RFP in a single engine call.
// The fallback scores every vendor with zeros and recommends nobody.
func (c *Client) ScoreProposals(ctx context.Context, rfp RFPSummary, proposals []ProposalSummary) ParseResult[models.ComparisonResult] {
	fallback := fallbackComparison(proposals)

	rfpJSON, err := json.MarshalIndent(rfp, "", "  ")
	if err != nil {
		return malformed(fallback, "", fmt.Errorf("encode rfp summary: %w", err))
	}
	proposalsJSON, err := json.MarshalIndent(proposals, "", "  ")
	if err != nil {
		return malformed(fallback, "", fmt.Errorf("encode proposal summaries: %w", err))
	}

	prompt := fmt.Sprintf("%s\n\nOriginal RFP:\n%s\n\nProposals:\n%s", comparisonPrompt, rfpJSON, proposalsJSON)
	text, err := c.generate(ctx, OpScoreProposals, prompt)
	if err != nil {
		return engineError(fallback, err)
	}

	result, err := decodeJSON[models.ComparisonResult](text)
	if err != nil {
		c.logger.Warn("Malformed proposal comparison", "error", err, "response", truncate(text, 200))
		return malformed(fallback, text, err)
	}
	if len(result.Comparison) == 0 {
		c.logger.Warn("Proposal comparison scored no vendors", "response", truncate(text, 200))
		return malformed(fallback, text, ErrNoScores)
	}
	return ok(result)
}

func fallbackComparison(proposals []ProposalSummary) models.ComparisonResult {
	scores := make([]models.VendorScore, 0, len(proposals))
	for _, p := range proposals {
		scores = append(scores, models.VendorScore{
			VendorID:   p.VendorID,
			VendorName: p.VendorName,
			Pros:       []string{},
			Cons:       []string{},
			Deviations: []string{},
		})
	}
	return models.ComparisonResult{
		Comparison: scores,
		Recommendation: models.Recommendation{
			Reasoning: "Unable to generate comparison due to an error.",
		},
		Summary: "Comparison failed.",
	}
}

// ComposeStatusEmail writes the body of an acceptance or rejection email.
// The body is plain text; no JSON is parsed.
func (c *Client) ComposeStatusEmail(ctx context.Context, rfp RFPSummary, vendor VendorSummary, proposal ProposalSummary, decision models.ProposalStatus) ParseResult[string] {
	contact := "Sir/Madam"
	if vendor.ContactPerson != nil && *vendor.ContactPerson != "" {
		contact = *vendor.ContactPerson
	}
	totalCost := "not specified"
	if proposal.TotalCost != nil {
		totalCost = fmt.Sprintf("$%.2f", *proposal.TotalCost)
	}

	prompt := fmt.Sprintf(statusEmailPrompt,
		rfp.Title,
		rfp.Description,
		vendor.Name,
		contact,
		totalCost,
		orUnspecified(proposal.DeliveryTimeline),
		orUnspecified(proposal.PaymentTerms),
		strings.ToUpper(string(decision)))

	text, err := c.generate(ctx, OpComposeEmail, prompt)
	if err != nil {
		return engineError("", err)
	}
	body := strings.TrimSpace(text)
	if body == "" {
		return malformed("", text, ErrEmptyResponse)
	}
	return ok(body)
}

func orUnspecified(s *string) string {
	if s == nil || *s == "" {
		return "not specified"
	}
	return *s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
