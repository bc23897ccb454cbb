package wizard

import "context"

type EventKind string

const (
	EventValidationFailed EventKind = "validation_failed"
	EventDraftSaved       EventKind = "draft_saved"
	EventDraftSaveFailed  EventKind = "draft_save_failed"
	EventAgentCreated     EventKind = "agent_created"
	EventAgentUpdated     EventKind = "agent_updated"
	EventFinalizeFailed   EventKind = "finalize_failed"
)

type Event struct {
	SessionID string    `json:"session_id"`
	Kind      EventKind `json:"kind"`
	Step      StepID    `json:"step,omitempty"`
	Errors    []string  `json:"errors,omitempty"`
	Name      string    `json:"name,omitempty"`
	AgentID   string    `json:"agent_id,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// NotifierFunc adapts a plain function to INotifier.
type NotifierFunc func(ctx context.Context, e Event)

func (f NotifierFunc) Notify(ctx context.Context, e Event) { f(ctx, e) }

// MultiNotifier fans an event out to every non-nil sink.
type MultiNotifier []INotifier

func (m MultiNotifier) Notify(ctx context.Context, e Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, e)
		}
	}
}

// NopNotifier drops every event.
var NopNotifier INotifier = NotifierFunc(func(context.Context, Event) {})
