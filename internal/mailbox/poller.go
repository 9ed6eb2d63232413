// Package mailbox polls a vendor reply mailbox and hands correlated replies to
// the proposal ingestion pipeline.
package mailbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/senyabanana/procurement-service/internal/metrics"
	"github.com/senyabanana/procurement-service/internal/models"
	"github.com/senyabanana/procurement-service/internal/reference"
	"github.com/senyabanana/procurement-service/internal/repository"

	"github.com/google/uuid"
)

// MessageNotConfigured is the result message of a cycle skipped for missing credentials.
const MessageNotConfigured = "IMAP not configured"

// RFPFinder looks up the RFP a reply refers to.
type RFPFinder interface {
	GetRFP(ctx context.Context, rfpId int64) (*models.RFP, error)
}

// VendorFinder looks up the vendor that sent a reply.
type VendorFinder interface {
	GetVendorByEmail(ctx context.Context, email string) (*models.Vendor, error)
}

// Ingester turns a correlated reply into a proposal. It returns one of the
// metrics ingestion outcomes; an error means the reply should be retried.
type Ingester interface {
	Ingest(ctx context.Context, rfp models.RFP, vendor models.Vendor, emailText string) (string, error)
}

// PollResult summarizes one poll cycle.
type PollResult struct {
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
	Message   string `json:"message,omitempty"`
}

// Poller runs poll cycles against a mailbox.
type Poller struct {
	settings Settings
	dial     Dialer
	rfps     RFPFinder
	vendors  VendorFinder
	ingester Ingester
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewPoller creates a Poller. A nil dial uses DialIMAP.
func NewPoller(settings Settings, dial Dialer, rfps RFPFinder, vendors VendorFinder, ingester Ingester, logger *slog.Logger, m *metrics.Metrics) *Poller {
	if dial == nil {
		dial = DialIMAP
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		settings: settings,
		dial:     dial,
		rfps:     rfps,
		vendors:  vendors,
		ingester: ingester,
		logger:   logger,
		metrics:  m,
	}
}

// Start runs a cycle immediately and then every interval until ctx is done.
// Each cycle is cancelled once it has run for a full interval.
func (p *Poller) Start(ctx context.Context, interval time.Duration) {
	p.logger.Info("Starting email monitoring", "interval", interval.String())

	p.runCycle(ctx, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Email monitoring stopped")
			return
		case <-ticker.C:
			p.runCycle(ctx, interval)
		}
	}
}

// runCycle runs one cycle that is cancelled after timeout.
func (p *Poller) runCycle(ctx context.Context, timeout time.Duration) {
	cycleCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, _ = p.RunOnce(cycleCtx)
}

// RunOnce runs a single poll cycle. Messages are handled one at a time.
// A connection level error aborts the cycle and is returned; per message
// problems are counted in the result and logged.
func (p *Poller) RunOnce(ctx context.Context) (PollResult, error) {
	if !p.settings.Configured() {
		p.logger.Warn("IMAP credentials not configured, skipping inbox monitoring")
		p.metrics.PollCycle("not_configured", 0)
		return PollResult{Message: MessageNotConfigured}, nil
	}

	startedAt := time.Now()
	logger := p.logger.With("cycle_id", uuid.New().String())

	result, err := p.poll(ctx, logger)
	took := time.Since(startedAt)
	if err != nil {
		logger.Error("Mailbox poll failed", "error", err, "duration_ms", took.Milliseconds())
		p.metrics.PollCycle("error", took)
		return result, err
	}

	logger.Info("Finished processing emails",
		"processed", result.Processed,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"duration_ms", took.Milliseconds())
	p.metrics.PollCycle("ok", took)
	return result, nil
}

func (p *Poller) poll(ctx context.Context, logger *slog.Logger) (PollResult, error) {
	var result PollResult

	source, err := p.dial(ctx, p.settings)
	if err != nil {
		return result, err
	}
	defer func() {
		if err := source.Close(); err != nil {
			logger.Warn("Mailbox close failed", "error", err)
		}
	}()

	messages, err := source.Unseen(ctx)
	if err != nil {
		return result, err
	}
	if len(messages) == 0 {
		result.Message = "No new emails found"
		return result, nil
	}
	logger.Info("Found unread emails", "count", len(messages))

	for _, raw := range messages {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		outcome, handleErr := p.handle(ctx, logger.With("uid", raw.UID), raw)
		p.metrics.IngestionOutcome(outcome)

		switch outcome {
		case metrics.OutcomeCreated:
			result.Processed++
		case metrics.OutcomeStoreFailed:
			result.Failed++
		default:
			result.Skipped++
		}

		if handleErr != nil && repository.IsTransient(handleErr) {
			// left unseen so the next cycle retries it
			continue
		}
		if handleErr != nil {
			logger.Error("Permanent store failure, dropping email", "uid", raw.UID, "error", handleErr)
		}
		if err := source.MarkSeen(ctx, raw.UID); err != nil {
			logger.Warn("Failed to mark email seen", "uid", raw.UID, "error", err)
		}
	}

	result.Message = fmt.Sprintf("Processed %d of %d email(s)", result.Processed, len(messages))
	return result, nil
}

// handle correlates one message and passes it on. A non-nil error is a store
// failure; the message stays unacknowledged only if it is transient.
func (p *Poller) handle(ctx context.Context, logger *slog.Logger, raw RawMessage) (string, error) {
	msg, err := ParseMessage(bytes.NewReader(raw.Body))
	if err != nil {
		logger.Warn("Unparseable email, skipping", "error", err)
		return metrics.OutcomeUnparseable, nil
	}
	logger = logger.With("subject", msg.Subject, "sender", msg.From)

	rfpId, ok := reference.ParseReferenceID(msg.Subject)
	if !ok {
		logger.Info("Email does not contain RFP reference ID, skipping")
		return metrics.OutcomeNoReference, nil
	}
	logger = logger.With("rfp_id", rfpId)

	rfp, err := p.rfps.GetRFP(ctx, rfpId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("RFP not found, skipping email")
			return metrics.OutcomeUnknownRFP, nil
		}
		logger.Error("RFP lookup failed", "error", err)
		return metrics.OutcomeStoreFailed, err
	}

	if msg.From == "" {
		logger.Info("Could not extract sender email, skipping")
		return metrics.OutcomeUnknownSender, nil
	}
	vendor, err := p.vendors.GetVendorByEmail(ctx, msg.From)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Vendor not found, skipping email")
			return metrics.OutcomeUnknownSender, nil
		}
		logger.Error("Vendor lookup failed", "error", err)
		return metrics.OutcomeStoreFailed, err
	}

	return p.ingester.Ingest(ctx, *rfp, *vendor, msg.Text)
}
