package application

import (
	"sync"
	"time"

	"github.com/AzielCF/az-console/agentwizard/domain/draft"
)

// DraftStore holds the single live draft of a wizard session. It accepts any
// update; constraints are the validator's job.
type DraftStore struct {
	mu      sync.RWMutex
	draft   draft.AgentDraft
	now     func() time.Time
	subs    map[int]func(draft.AgentDraft)
	nextSub int
}

func NewDraftStore(now func() time.Time) *DraftStore {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &DraftStore{
		draft: draft.Default(),
		now:   now,
		subs:  map[int]func(draft.AgentDraft){},
	}
}

func (s *DraftStore) Draft() draft.AgentDraft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft.Clone()
}

// Update shallow-merges p into the draft and bumps UpdatedAt.
func (s *DraftStore) Update(p draft.Patch) draft.AgentDraft {
	s.mu.Lock()
	s.draft = p.Apply(s.draft)
	s.draft.UpdatedAt = s.now()
	out := s.draft.Clone()
	s.mu.Unlock()

	s.publish(out)
	return out
}

// Load replaces the draft with record merged over the defaults. Used once
// when a wizard opens in edit mode.
func (s *DraftStore) Load(record draft.Partial) draft.AgentDraft {
	s.mu.Lock()
	s.draft = draft.MergeDefaults(record)
	s.draft.UpdatedAt = s.now()
	out := s.draft.Clone()
	s.mu.Unlock()

	s.publish(out)
	return out
}

func (s *DraftStore) Reset() {
	s.mu.Lock()
	s.draft = draft.Default()
	out := s.draft.Clone()
	s.mu.Unlock()

	s.publish(out)
}

// commit stores a finalized draft as returned by the gateway.
func (s *DraftStore) commit(d draft.AgentDraft) {
	s.mu.Lock()
	s.draft = d.Clone()
	s.mu.Unlock()

	s.publish(d)
}

// Subscribe registers fn to receive every new draft value. The returned
// func removes the subscription.
func (s *DraftStore) Subscribe(fn func(draft.AgentDraft)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *DraftStore) publish(d draft.AgentDraft) {
	s.mu.RLock()
	subs := make([]func(draft.AgentDraft), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(d.Clone())
	}
}
