package application

import (
	"context"
	"time"

	"github.com/AzielCF/az-console/agentwizard/domain/draft"
	"github.com/AzielCF/az-console/agentwizard/domain/wizard"
	"github.com/sirupsen/logrus"
)

// Gateway talks to the agent service on behalf of a wizard session.
type Gateway struct {
	agents    wizard.IAgentService
	validator *StepValidator
	now       func() time.Time
}

func NewGateway(agents wizard.IAgentService, validator *StepValidator, now func() time.Time) *Gateway {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Gateway{agents: agents, validator: validator, now: now}
}

// SaveDraft persists d as-is. It never validates and never touches status.
func (g *Gateway) SaveDraft(ctx context.Context, draftID string, d draft.AgentDraft) error {
	if err := g.agents.SaveDraft(ctx, draftID, d); err != nil {
		return &wizard.PersistenceError{Op: wizard.OpSaveDraft, Cause: err}
	}
	return nil
}

// DiscardDraft drops the autosaved copy of a finalized draft. A failure is
// logged only; the draft expires with its TTL.
func (g *Gateway) DiscardDraft(ctx context.Context, draftID string) {
	if err := g.agents.DiscardDraft(ctx, draftID); err != nil {
		logrus.WithError(err).Warnf("[WIZARD] could not discard draft %s", draftID)
	}
}

// Finalize validates every step of d and, when all pass, creates or updates
// the agent with status active. Nothing is sent when validation fails.
func (g *Gateway) Finalize(ctx context.Context, d draft.AgentDraft, agentID string, isEditing bool) (wizard.FinalizeResult, error) {
	if step, errs := g.validator.ValidateAll(d); len(errs) > 0 {
		return wizard.FinalizeResult{}, &wizard.ValidationError{Step: step, Fields: errs}
	}

	out := d.Clone()
	out.Status = draft.StatusActive
	now := g.now()
	out.UpdatedAt = now

	if isEditing {
		if err := g.agents.UpdateAgent(ctx, agentID, out); err != nil {
			return wizard.FinalizeResult{}, &wizard.PersistenceError{Op: wizard.OpFinalize, Cause: err}
		}
		logrus.Infof("[WIZARD] agent %s updated", agentID)
		return wizard.FinalizeResult{AgentID: agentID, Draft: out}, nil
	}

	out.CreatedAt = now
	id, err := g.agents.CreateAgent(ctx, out)
	if err != nil {
		return wizard.FinalizeResult{}, &wizard.PersistenceError{Op: wizard.OpFinalize, Cause: err}
	}
	logrus.Infof("[WIZARD] agent %s created", id)
	return wizard.FinalizeResult{AgentID: id, Draft: out}, nil
}
