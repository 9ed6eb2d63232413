// Package notify runs side effects after a proposal status change has been
// committed. Hooks never roll the change back.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/senyabanana/procurement-service/internal/models"
)

// StatusChange describes a committed proposal status change.
type StatusChange struct {
	Proposal        models.Proposal
	RFP             models.RFP
	Vendor          models.Vendor
	Status          models.ProposalStatus
	CustomEmailBody *string
	ChangedAt       time.Time
}

// Hook reacts to a status change.
type Hook interface {
	Name() string
	ProposalStatusChanged(ctx context.Context, change StatusChange) error
}

// Outcomes holds the error of each hook that ran, keyed by hook name.
type Outcomes map[string]error

// Succeeded reports whether the named hook ran without an error.
func (o Outcomes) Succeeded(name string) bool {
	err, ran := o[name]
	return ran && err == nil
}

// Chain runs hooks in order.
type Chain struct {
	hooks  []Hook
	logger *slog.Logger
}

// NewChain creates a Chain. Nil hooks are ignored.
func NewChain(logger *slog.Logger, hooks ...Hook) *Chain {
	c := &Chain{logger: logger}
	for _, h := range hooks {
		if h != nil {
			c.hooks = append(c.hooks, h)
		}
	}
	return c
}

// Fire runs every hook. A failing hook is logged and does not stop the others.
func (c *Chain) Fire(ctx context.Context, change StatusChange) Outcomes {
	outcomes := make(Outcomes, len(c.hooks))
	for _, h := range c.hooks {
		err := h.ProposalStatusChanged(ctx, change)
		outcomes[h.Name()] = err
		if err != nil {
			c.logger.Error("Status hook failed",
				"hook", h.Name(),
				"proposal_id", change.Proposal.ID,
				"status", change.Status,
				"error", err)
		}
	}
	return outcomes
}
