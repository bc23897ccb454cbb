package repository

import (
	"context"
	"errors"
	"time"

	domainAgent "github.com/AzielCF/az-console/agentwizard/domain/agent"
	pkgError "github.com/AzielCF/az-console/pkg/error"
	"gorm.io/gorm"
)

// agentModel es el modelo de persistencia para GORM.
type agentModel struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null;index"`
	Status    string `gorm:"not null;default:active"`
	LLMModel  string `gorm:"column:llm_model"`
	Config    string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (agentModel) TableName() string {
	return "agents"
}

// AgentGormRepository implementa IAgentRepository usando GORM.
type AgentGormRepository struct {
	db *gorm.DB
}

func NewAgentGormRepository(db *gorm.DB) *AgentGormRepository {
	return &AgentGormRepository{db: db}
}

func (r *AgentGormRepository) Init(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&agentModel{})
}

func (r *AgentGormRepository) Create(ctx context.Context, a domainAgent.Agent) error {
	model := toAgentModel(a)
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *AgentGormRepository) GetByID(ctx context.Context, id string) (domainAgent.Agent, error) {
	var model agentModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainAgent.Agent{}, pkgError.NotFoundError("agent not found")
		}
		return domainAgent.Agent{}, err
	}
	return fromAgentModel(model), nil
}

func (r *AgentGormRepository) List(ctx context.Context) ([]domainAgent.Agent, error) {
	var models []agentModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	result := make([]domainAgent.Agent, len(models))
	for i, m := range models {
		result[i] = fromAgentModel(m)
	}
	return result, nil
}

// Update overwrites every column of an existing agent. CreatedAt is kept as
// provided so edit-mode finalize can preserve the original creation time.
func (r *AgentGormRepository) Update(ctx context.Context, a domainAgent.Agent) error {
	model := toAgentModel(a)
	res := r.db.WithContext(ctx).Model(&agentModel{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
		"name":       model.Name,
		"status":     model.Status,
		"llm_model":  model.LLMModel,
		"config":     model.Config,
		"created_at": model.CreatedAt,
		"updated_at": model.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgError.NotFoundError("agent not found")
	}
	return nil
}

func (r *AgentGormRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&agentModel{}, "id = ?", id).Error
}

func toAgentModel(a domainAgent.Agent) agentModel {
	return agentModel{
		ID:        a.ID,
		Name:      a.Name,
		Status:    a.Status,
		LLMModel:  a.LLMModel,
		Config:    string(a.Config),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func fromAgentModel(m agentModel) domainAgent.Agent {
	return domainAgent.Agent{
		ID:        m.ID,
		Name:      m.Name,
		Status:    m.Status,
		LLMModel:  m.LLMModel,
		Config:    []byte(m.Config),
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}
