package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AzielCF/az-console/agentwizard/domain/wizard"
	pkgError "github.com/AzielCF/az-console/pkg/error"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type OpenRequest struct {
	Mode    wizard.Mode `json:"mode"`
	AgentID string      `json:"agent_id,omitempty"`
	DraftID string      `json:"draft_id,omitempty"`
	Profile string      `json:"profile,omitempty"`
}

type SessionManagerDeps struct {
	Agents         wizard.IAgentService
	Notifier       wizard.INotifier
	Dispatcher     Dispatcher
	AutosaveDelay  time.Duration
	DefaultProfile string
	Now            func() time.Time
}

// SessionManager owns every open wizard session. Each session has its own
// controller and therefore its own draft store.
type SessionManager struct {
	deps     SessionManagerDeps
	mu       sync.RWMutex
	sessions map[string]*Controller
	newID    func() string
}

func NewSessionManager(deps SessionManagerDeps) *SessionManager {
	return &SessionManager{
		deps:     deps,
		sessions: make(map[string]*Controller),
		newID:    uuid.NewString,
	}
}

func (m *SessionManager) controllerDeps(profileName string) (ControllerDeps, error) {
	m.mu.RLock()
	deps := m.deps
	m.mu.RUnlock()

	if profileName == "" {
		profileName = deps.DefaultProfile
	}
	profile, ok := ProfileByName(profileName)
	if !ok {
		return ControllerDeps{}, pkgError.ValidationError("unknown wizard profile: " + profileName)
	}
	return ControllerDeps{
		Profile:       profile,
		Agents:        deps.Agents,
		Notifier:      deps.Notifier,
		Dispatcher:    deps.Dispatcher,
		AutosaveDelay: deps.AutosaveDelay,
		Now:           deps.Now,
	}, nil
}

// Open starts a session. Edit mode loads AgentID; create mode with a DraftID
// resumes an autosaved draft.
func (m *SessionManager) Open(ctx context.Context, req OpenRequest) (*Controller, error) {
	deps, err := m.controllerDeps(req.Profile)
	if err != nil {
		return nil, err
	}
	id := m.newID()

	var c *Controller
	switch req.Mode {
	case wizard.ModeEdit:
		if req.AgentID == "" {
			return nil, pkgError.ValidationError("agent_id is required in edit mode")
		}
		c, err = NewEditController(ctx, id, req.AgentID, deps)
	case wizard.ModeCreate, "":
		if req.DraftID != "" {
			c, err = NewResumeController(ctx, id, req.DraftID, deps)
		} else {
			c = NewCreateController(id, deps)
		}
	default:
		return nil, pkgError.ValidationError("unknown wizard mode: " + string(req.Mode))
	}
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[id] = c
	m.mu.Unlock()

	logrus.Infof("[WIZARD] session %s opened (mode=%s profile=%s)", id, c.Mode(), c.Profile().Name)
	return c, nil
}

// Reconfigure changes the defaults of sessions opened from now on. Open
// sessions keep theirs. An empty profile or zero delay leaves that value.
func (m *SessionManager) Reconfigure(profile string, delay time.Duration) error {
	if profile != "" {
		if _, ok := ProfileByName(profile); !ok {
			return pkgError.ValidationError("unknown wizard profile: " + profile)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if profile != "" {
		m.deps.DefaultProfile = profile
	}
	if delay > 0 {
		m.deps.AutosaveDelay = delay
	}
	return nil
}

func (m *SessionManager) Get(id string) (*Controller, error) {
	m.mu.RLock()
	c, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, pkgError.NotFoundError("wizard session not found")
	}
	return c, nil
}

// Close discards a session without finalizing it.
func (m *SessionManager) Close(id string) error {
	m.mu.Lock()
	c, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return pkgError.NotFoundError("wizard session not found")
	}
	c.Close()
	logrus.Infof("[WIZARD] session %s closed", id)
	return nil
}

// Release drops a finalized session from the registry without resetting it.
func (m *SessionManager) Release(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

func (m *SessionManager) List() []State {
	m.mu.RLock()
	controllers := make([]*Controller, 0, len(m.sessions))
	for _, c := range m.sessions {
		controllers = append(controllers, c)
	}
	m.mu.RUnlock()

	out := make([]State, 0, len(controllers))
	for _, c := range controllers {
		out = append(out, c.State())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out
}

// CloseAll closes every open session, used on shutdown.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Controller)
	m.mu.Unlock()

	for _, c := range sessions {
		c.Close()
	}
}
