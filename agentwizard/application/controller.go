package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AzielCF/az-console/agentwizard/domain/draft"
	"github.com/AzielCF/az-console/agentwizard/domain/wizard"
	"github.com/sirupsen/logrus"
)

const DefaultAutosaveDelay = 1500 * time.Millisecond

type ControllerDeps struct {
	Profile       wizard.Profile
	Agents        wizard.IAgentService
	Notifier      wizard.INotifier
	Dispatcher    Dispatcher
	AutosaveDelay time.Duration
	Now           func() time.Time
}

// State is a read-only snapshot of a session.
type State struct {
	SessionID   string           `json:"session_id"`
	Mode        wizard.Mode      `json:"mode"`
	AgentID     string           `json:"agent_id,omitempty"`
	Profile     string           `json:"profile"`
	CurrentStep int              `json:"current_step"`
	Step        wizard.Step      `json:"step"`
	Steps       []wizard.Step    `json:"steps"`
	Finalizing  bool             `json:"finalizing"`
	Finalized   bool             `json:"finalized"`
	Draft       draft.AgentDraft `json:"draft"`
}

// Controller wires one Store, Sequencer, Validator and Gateway into a
// wizard session.
type Controller struct {
	id      string
	mode    wizard.Mode
	agentID string
	draftID string

	store     *DraftStore
	validator *StepValidator
	sequencer *Sequencer
	gateway   *Gateway
	autosave  *autosaver
	notifier  wizard.INotifier

	mu         sync.Mutex
	finalizing bool
	finalized  bool
	closed     bool
}

func newController(id string, mode wizard.Mode, agentID string, deps ControllerDeps) *Controller {
	if deps.Notifier == nil {
		deps.Notifier = wizard.NopNotifier
	}
	if deps.AutosaveDelay <= 0 {
		deps.AutosaveDelay = DefaultAutosaveDelay
	}
	if len(deps.Profile.Steps) == 0 {
		deps.Profile = StandardProfile()
	}

	validator := NewStepValidator(deps.Profile)
	c := &Controller{
		id:        id,
		mode:      mode,
		agentID:   agentID,
		draftID:   id,
		store:     NewDraftStore(deps.Now),
		validator: validator,
		sequencer: NewSequencer(validator),
		gateway:   NewGateway(deps.Agents, validator, deps.Now),
		notifier:  deps.Notifier,
	}
	c.autosave = newAutosaver(id, deps.AutosaveDelay, deps.Dispatcher, c.flushDraft)
	return c
}

// NewCreateController opens a session on an empty draft.
func NewCreateController(id string, deps ControllerDeps) *Controller {
	return newController(id, wizard.ModeCreate, "", deps)
}

// NewResumeController opens a create-mode session seeded with a previously
// autosaved draft. Later autosaves overwrite the same draft id.
func NewResumeController(ctx context.Context, id, draftID string, deps ControllerDeps) (*Controller, error) {
	c := newController(id, wizard.ModeCreate, "", deps)
	record, err := deps.Agents.LoadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	c.draftID = draftID
	c.store.Load(record)
	return c, nil
}

// NewEditController loads agentID once and merges it over the defaults.
func NewEditController(ctx context.Context, id, agentID string, deps ControllerDeps) (*Controller, error) {
	c := newController(id, wizard.ModeEdit, agentID, deps)
	record, err := deps.Agents.LoadAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	c.store.Load(record)
	return c, nil
}

func (c *Controller) ID() string { return c.id }

func (c *Controller) Mode() wizard.Mode { return c.mode }

func (c *Controller) AgentID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.agentID
}

func (c *Controller) Draft() draft.AgentDraft { return c.store.Draft() }

func (c *Controller) Profile() wizard.Profile { return c.validator.Profile() }

func (c *Controller) CurrentStep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sequencer.Current()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		SessionID:   c.id,
		Mode:        c.mode,
		AgentID:     c.agentID,
		Profile:     c.validator.Profile().Name,
		CurrentStep: c.sequencer.Current(),
		Step:        c.sequencer.Step(),
		Steps:       c.sequencer.Steps(),
		Finalizing:  c.finalizing,
		Finalized:   c.finalized,
		Draft:       c.store.Draft(),
	}
}

// Update merges p into the draft. Past the first step every update re-arms
// the autosave timer. Edits are refused while a finalize is running.
func (c *Controller) Update(p draft.Patch) (draft.AgentDraft, error) {
	c.mu.Lock()
	switch {
	case c.closed || c.finalized:
		c.mu.Unlock()
		return draft.AgentDraft{}, wizard.ErrSessionClosed
	case c.finalizing:
		c.mu.Unlock()
		return draft.AgentDraft{}, wizard.ErrFinalizeInProgress
	}
	schedule := c.sequencer.Current() > 0
	c.mu.Unlock()

	d := c.store.Update(p)
	if schedule {
		c.autosave.Schedule()
	}
	return d, nil
}

// Next validates the current step and advances. A blocked advance reports
// the current step's errors only.
func (c *Controller) Next(ctx context.Context) error {
	c.mu.Lock()
	if c.closed || c.finalized {
		c.mu.Unlock()
		return wizard.ErrSessionClosed
	}
	err := c.sequencer.Next(c.store.Draft())
	c.mu.Unlock()

	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		c.notifier.Notify(ctx, wizard.Event{
			SessionID: c.id,
			Kind:      wizard.EventValidationFailed,
			Step:      verr.Step,
			Errors:    verr.Fields,
		})
	}
	return err
}

func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.finalized {
		return wizard.ErrSessionClosed
	}
	return c.sequencer.Back()
}

// Finalize validates every step and persists the agent. Only one Finalize
// runs at a time per session; it supersedes any pending or running autosave.
func (c *Controller) Finalize(ctx context.Context) (wizard.FinalizeResult, error) {
	c.mu.Lock()
	switch {
	case c.closed || c.finalized:
		c.mu.Unlock()
		return wizard.FinalizeResult{}, wizard.ErrSessionClosed
	case c.finalizing:
		c.mu.Unlock()
		return wizard.FinalizeResult{}, wizard.ErrFinalizeInProgress
	case !c.sequencer.IsTerminal():
		c.mu.Unlock()
		return wizard.FinalizeResult{}, wizard.ErrNotAtReviewStep
	}
	c.finalizing = true
	agentID := c.agentID
	c.mu.Unlock()

	saving := c.autosave.Supersede()

	isEditing := c.mode == wizard.ModeEdit
	res, err := c.gateway.Finalize(ctx, c.store.Draft(), agentID, isEditing)

	c.mu.Lock()
	c.finalizing = false
	if err == nil {
		c.finalized = true
		c.agentID = res.AgentID
	}
	c.mu.Unlock()

	if err != nil {
		c.notifyFinalizeError(ctx, err)
		return wizard.FinalizeResult{}, err
	}

	c.autosave.Stop()
	c.store.commit(res.Draft)

	// the cancelled save must not recreate the draft after it is discarded
	if saving != nil {
		select {
		case <-saving:
		case <-ctx.Done():
		}
	}
	c.gateway.DiscardDraft(ctx, c.draftID)

	kind := wizard.EventAgentCreated
	if isEditing {
		kind = wizard.EventAgentUpdated
	}
	c.notifier.Notify(ctx, wizard.Event{
		SessionID: c.id,
		Kind:      kind,
		Name:      res.Draft.Basics.Name,
		AgentID:   res.AgentID,
	})
	return res, nil
}

func (c *Controller) notifyFinalizeError(ctx context.Context, err error) {
	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		c.notifier.Notify(ctx, wizard.Event{
			SessionID: c.id,
			Kind:      wizard.EventValidationFailed,
			Step:      verr.Step,
			Errors:    verr.Fields,
		})
		return
	}
	logrus.WithError(err).Warnf("[WIZARD] finalize failed for session %s", c.id)
	c.notifier.Notify(ctx, wizard.Event{
		SessionID: c.id,
		Kind:      wizard.EventFinalizeFailed,
		Reason:    err.Error(),
	})
}

// Close discards the session. A pending autosave timer is cancelled; a save
// already dispatched is left to complete.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.autosave.Stop()
	c.store.Reset()
}

// AutosavePending reports whether a debounced save is waiting to fire.
func (c *Controller) AutosavePending() bool {
	return c.autosave.Pending()
}

func (c *Controller) flushDraft(ctx context.Context) {
	c.mu.Lock()
	skip := c.closed || c.finalizing || c.finalized
	draftID := c.draftID
	c.mu.Unlock()
	if skip {
		return
	}

	err := c.gateway.SaveDraft(ctx, draftID, c.store.Draft())
	if ctx.Err() != nil {
		logrus.Debugf("[AUTOSAVE] save for session %s superseded", c.id)
		return
	}
	if err != nil {
		logrus.WithError(err).Warnf("[AUTOSAVE] draft save failed for session %s", c.id)
		c.notifier.Notify(ctx, wizard.Event{
			SessionID: c.id,
			Kind:      wizard.EventDraftSaveFailed,
			Reason:    err.Error(),
		})
		return
	}
	c.notifier.Notify(ctx, wizard.Event{SessionID: c.id, Kind: wizard.EventDraftSaved})
}
