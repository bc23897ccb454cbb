package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domainAgent "github.com/AzielCF/az-console/agentwizard/domain/agent"
	"github.com/AzielCF/az-console/agentwizard/domain/draft"
	"github.com/AzielCF/az-console/pkg/crypto"
	pkgError "github.com/AzielCF/az-console/pkg/error"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AgentService is the agent-service collaborator the wizard persists to.
// Finalized agents go to the repository, autosaved drafts to the draft cache.
type AgentService struct {
	repo     domainAgent.IAgentRepository
	drafts   domainAgent.IDraftCache
	cipher   *crypto.Cipher
	draftTTL time.Duration
}

func NewAgentServiceWithDeps(repo domainAgent.IAgentRepository, drafts domainAgent.IDraftCache, cipher *crypto.Cipher, draftTTL time.Duration) *AgentService {
	return &AgentService{
		repo:     repo,
		drafts:   drafts,
		cipher:   cipher,
		draftTTL: draftTTL,
	}
}

func (s *AgentService) ensureRepo() error {
	if s.repo == nil {
		return pkgError.InternalServerError("agent storage is not initialized")
	}
	return nil
}

func (s *AgentService) CreateAgent(ctx context.Context, d draft.AgentDraft) (string, error) {
	if err := s.ensureRepo(); err != nil {
		return "", err
	}

	d = withFunctionIDs(d)
	cfg, err := s.encode(d)
	if err != nil {
		return "", err
	}

	a := domainAgent.Agent{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(d.Basics.Name),
		Status:    string(d.Status),
		LLMModel:  string(d.Basics.LLMModel),
		Config:    cfg,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return "", err
	}
	logrus.Infof("[AGENT_REPO] created agent %s (%s)", a.ID, a.Name)
	return a.ID, nil
}

func (s *AgentService) UpdateAgent(ctx context.Context, agentID string, d draft.AgentDraft) error {
	if err := s.ensureRepo(); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, agentID)
	if err != nil {
		return err
	}

	d = withFunctionIDs(d)
	cfg, err := s.encode(d)
	if err != nil {
		return err
	}

	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = existing.CreatedAt
	}
	updated := domainAgent.Agent{
		ID:        agentID,
		Name:      strings.TrimSpace(d.Basics.Name),
		Status:    string(d.Status),
		LLMModel:  string(d.Basics.LLMModel),
		Config:    cfg,
		CreatedAt: createdAt,
		UpdatedAt: d.UpdatedAt,
	}
	if err := s.repo.Update(ctx, updated); err != nil {
		return err
	}
	logrus.Infof("[AGENT_REPO] updated agent %s", agentID)
	return nil
}

// LoadAgent returns the stored agent as a partial record; fields missing
// from older documents fall back to defaults when merged.
func (s *AgentService) LoadAgent(ctx context.Context, agentID string) (draft.Partial, error) {
	if err := s.ensureRepo(); err != nil {
		return draft.Partial{}, err
	}
	a, err := s.repo.GetByID(ctx, agentID)
	if err != nil {
		return draft.Partial{}, err
	}
	return s.decode(a.Config)
}

func (s *AgentService) SaveDraft(ctx context.Context, draftID string, d draft.AgentDraft) error {
	if s.drafts == nil {
		return pkgError.InternalServerError("draft cache is not initialized")
	}
	data, err := s.encode(d)
	if err != nil {
		return err
	}
	if err := s.drafts.Save(ctx, draftID, data, s.draftTTL); err != nil {
		return err
	}
	logrus.Debugf("[DRAFT_CACHE] saved draft %s (%d bytes)", draftID, len(data))
	return nil
}

func (s *AgentService) LoadDraft(ctx context.Context, draftID string) (draft.Partial, error) {
	if s.drafts == nil {
		return draft.Partial{}, pkgError.InternalServerError("draft cache is not initialized")
	}
	data, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return draft.Partial{}, err
	}
	if data == nil {
		return draft.Partial{}, pkgError.NotFoundError("draft not found")
	}
	return s.decode(data)
}

// DiscardDraft removes an autosaved draft once its agent is stored.
func (s *AgentService) DiscardDraft(ctx context.Context, draftID string) error {
	if s.drafts == nil {
		return nil
	}
	return s.drafts.Delete(ctx, draftID)
}

func (s *AgentService) ListAgents(ctx context.Context) ([]domainAgent.Agent, error) {
	if err := s.ensureRepo(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// GetAgent returns the stored row with its config decrypted.
func (s *AgentService) GetAgent(ctx context.Context, agentID string) (domainAgent.Agent, error) {
	if err := s.ensureRepo(); err != nil {
		return domainAgent.Agent{}, err
	}
	a, err := s.repo.GetByID(ctx, agentID)
	if err != nil {
		return domainAgent.Agent{}, err
	}
	p, err := s.decode(a.Config)
	if err != nil {
		return domainAgent.Agent{}, err
	}
	if a.Config, err = json.Marshal(p); err != nil {
		return domainAgent.Agent{}, err
	}
	return a, nil
}

func (s *AgentService) encode(d draft.AgentDraft) ([]byte, error) {
	out := d.Clone()
	for i, h := range out.Webhooks.AuthHeaders {
		sealed, err := s.cipher.Encrypt(h.Value)
		if err != nil {
			return nil, fmt.Errorf("encrypt auth header %q: %w", h.Key, err)
		}
		out.Webhooks.AuthHeaders[i].Value = sealed
	}
	return json.Marshal(out)
}

func (s *AgentService) decode(data []byte) (draft.Partial, error) {
	var p draft.Partial
	if len(data) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return draft.Partial{}, fmt.Errorf("decode agent config: %w", err)
	}
	if p.Webhooks != nil && p.Webhooks.AuthHeaders != nil {
		headers := append([]draft.AuthHeader(nil), (*p.Webhooks.AuthHeaders)...)
		for i, h := range headers {
			plain, err := s.cipher.Decrypt(h.Value)
			if err != nil {
				return draft.Partial{}, fmt.Errorf("decrypt auth header %q: %w", h.Key, err)
			}
			headers[i].Value = plain
		}
		p.Webhooks.AuthHeaders = &headers
	}
	return p, nil
}

func withFunctionIDs(d draft.AgentDraft) draft.AgentDraft {
	d = d.Clone()
	for i, fn := range d.Knowledge.Functions {
		if strings.TrimSpace(fn.ID) == "" {
			d.Knowledge.Functions[i].ID = uuid.NewString()
		}
	}
	return d
}
