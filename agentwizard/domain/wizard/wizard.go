package wizard

import (
	"context"

	"github.com/AzielCF/az-console/agentwizard/domain/draft"
)

type StepID string

const (
	StepBasics       StepID = "basics"
	StepKnowledge    StepID = "knowledge"
	StepFunctions    StepID = "functions"
	StepChannels     StepID = "channels"
	StepIntegrations StepID = "integrations"
	StepReview       StepID = "review"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Rule checks one aspect of a draft and returns human readable messages,
// nil when the draft satisfies it.
type Rule func(d draft.AgentDraft) []string

// Step is one page of the wizard.
type Step struct {
	ID    StepID `json:"id"`
	Title string `json:"title"`
	Rules []Rule `json:"-"`
}

// Profile is an ordered step list. The last step is terminal.
type Profile struct {
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
}

func (p Profile) Len() int { return len(p.Steps) }

func (p Profile) IndexOf(id StepID) int {
	for i, s := range p.Steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// ValidationResult is either valid (no errors) or invalid with messages.
type ValidationResult struct {
	Errors []string `json:"errors,omitempty"`
}

func (r ValidationResult) Valid() bool { return len(r.Errors) == 0 }

type FinalizeResult struct {
	AgentID string           `json:"agent_id"`
	Draft   draft.AgentDraft `json:"draft"`
}

// IAgentService is the external agent service the wizard persists to.
type IAgentService interface {
	CreateAgent(ctx context.Context, d draft.AgentDraft) (string, error)
	UpdateAgent(ctx context.Context, agentID string, d draft.AgentDraft) error
	LoadAgent(ctx context.Context, agentID string) (draft.Partial, error)
	SaveDraft(ctx context.Context, draftID string, d draft.AgentDraft) error
	LoadDraft(ctx context.Context, draftID string) (draft.Partial, error)
	DiscardDraft(ctx context.Context, draftID string) error
}

// INotifier receives user facing wizard events.
type INotifier interface {
	Notify(ctx context.Context, e Event)
}
