package agent

import (
	"context"
	"encoding/json"
	"time"
)

// Agent is a finalized agent as stored by the agent service. Config holds
// the full draft document; the other columns are denormalized for listing.
type Agent struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Status    string          `json:"status"`
	LLMModel  string          `json:"llm_model"`
	Config    json.RawMessage `json:"config"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IAgentRepository define el contrato para el acceso a datos de agentes.
type IAgentRepository interface {
	// Init crea el esquema si no existe.
	Init(ctx context.Context) error

	Create(ctx context.Context, a Agent) error

	// GetByID returns pkgError.NotFoundError when the agent does not exist.
	GetByID(ctx context.Context, id string) (Agent, error)

	// List retorna todos los agentes ordenados por nombre.
	List(ctx context.Context) ([]Agent, error)

	// Update returns pkgError.NotFoundError when the agent does not exist.
	Update(ctx context.Context, a Agent) error

	Delete(ctx context.Context, id string) error
}

// IDraftCache stores autosaved drafts as opaque documents.
type IDraftCache interface {
	Save(ctx context.Context, draftID string, data []byte, ttl time.Duration) error
	// Get returns nil, nil when nothing is stored under draftID.
	Get(ctx context.Context, draftID string) ([]byte, error)
	Delete(ctx context.Context, draftID string) error
}
