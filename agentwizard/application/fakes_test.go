package application

import (
	"context"
	"sync"
	"time"

	"github.com/AzielCF/az-console/agentwizard/domain/draft"
	"github.com/AzielCF/az-console/agentwizard/domain/wizard"
)

type fakeAgents struct {
	mu sync.Mutex

	createErr  error
	updateErr  error
	saveErr    error
	loadErr    error
	discardErr error

	// block, when set, holds CreateAgent/UpdateAgent until closed
	block chan struct{}
	// saveStarted, when set, makes SaveDraft signal it and wait for ctx
	saveStarted chan struct{}
	saveCtxErr  error

	created   []draft.AgentDraft
	updated   map[string]draft.AgentDraft
	saved     []draft.AgentDraft
	saveIDs   []string
	discarded []string
	record    draft.Partial
	draftRec  draft.Partial
	loadCalls int
	nextID    string
}

func newFakeAgents() *fakeAgents {
	return &fakeAgents{updated: map[string]draft.AgentDraft{}, nextID: "agent-1"}
}

func (f *fakeAgents) CreateAgent(ctx context.Context, d draft.AgentDraft) (string, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, d)
	return f.nextID, nil
}

func (f *fakeAgents) UpdateAgent(ctx context.Context, agentID string, d draft.AgentDraft) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated[agentID] = d
	return nil
}

func (f *fakeAgents) LoadAgent(ctx context.Context, agentID string) (draft.Partial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadCalls++
	return f.record, f.loadErr
}

func (f *fakeAgents) SaveDraft(ctx context.Context, draftID string, d draft.AgentDraft) error {
	if f.saveStarted != nil {
		f.saveStarted <- struct{}{}
		<-ctx.Done()
		f.mu.Lock()
		f.saveCtxErr = ctx.Err()
		f.mu.Unlock()
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, d)
	f.saveIDs = append(f.saveIDs, draftID)
	return nil
}

func (f *fakeAgents) LoadDraft(ctx context.Context, draftID string) (draft.Partial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draftRec, f.loadErr
}

func (f *fakeAgents) DiscardDraft(ctx context.Context, draftID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.discardErr != nil {
		return f.discardErr
	}
	f.discarded = append(f.discarded, draftID)
	return nil
}

func (f *fakeAgents) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func (f *fakeAgents) lastSaved() draft.AgentDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved[len(f.saved)-1]
}

func (f *fakeAgents) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []wizard.Event
}

func (r *recordingNotifier) Notify(ctx context.Context, e wizard.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recordingNotifier) kinds() []wizard.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]wizard.EventKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func (r *recordingNotifier) last() wizard.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// salesBot is a draft that passes every standard step.
func salesBot() draft.AgentDraft {
	d := draft.Default()
	d.Basics.Name = "SalesBot"
	d.Basics.SelectedVoice = "v1"
	d.Basics.LLMModel = draft.ModelGPT4
	d.Channels.Call.Enabled = true
	return d
}

func salesBotPatch() draft.Patch {
	d := salesBot()
	return draft.Patch{Basics: &d.Basics, Channels: &d.Channels}
}
