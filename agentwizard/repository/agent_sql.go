package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	domainAgent "github.com/AzielCF/az-console/agentwizard/domain/agent"
	pkgError "github.com/AzielCF/az-console/pkg/error"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// AgentSQLRepository implementa IAgentRepository sobre database/sql. Works
// with the sqlite3 and postgres drivers; queries are written with ? and
// rebound for postgres.
type AgentSQLRepository struct {
	db       *sql.DB
	postgres bool
}

// NewAgentSQLRepositoryWithDB crea una instancia usando una DB proporcionada.
// driver is the name the DB was opened with ("sqlite3" or "postgres").
func NewAgentSQLRepositoryWithDB(db *sql.DB, driver string) (*AgentSQLRepository, error) {
	repo := &AgentSQLRepository{db: db, postgres: driver == "postgres"}
	if err := repo.Init(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *AgentSQLRepository) Init(ctx context.Context) error {
	createTable := `
		CREATE TABLE IF NOT EXISTS agents (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			llm_model TEXT,
			config TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := r.db.ExecContext(ctx, createTable); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_agents_name ON agents(name)`)
	return err
}

// rebind turns ? placeholders into $1..$n for postgres.
func (r *AgentSQLRepository) rebind(query string) string {
	if !r.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func (r *AgentSQLRepository) Create(ctx context.Context, a domainAgent.Agent) error {
	query := r.rebind(`
		INSERT INTO agents (id, name, status, llm_model, config, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Name, a.Status, a.LLMModel, string(a.Config), a.CreatedAt.UTC(), a.UpdatedAt.UTC())
	return err
}

func (r *AgentSQLRepository) GetByID(ctx context.Context, id string) (domainAgent.Agent, error) {
	query := r.rebind(`
		SELECT id, name, status, llm_model, config, created_at, updated_at
		FROM agents WHERE id = ?
	`)
	a, err := scanAgent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domainAgent.Agent{}, pkgError.NotFoundError("agent not found")
		}
		return domainAgent.Agent{}, err
	}
	return a, nil
}

func (r *AgentSQLRepository) List(ctx context.Context) ([]domainAgent.Agent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, status, llm_model, config, created_at, updated_at
		FROM agents ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domainAgent.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *AgentSQLRepository) Update(ctx context.Context, a domainAgent.Agent) error {
	query := r.rebind(`
		UPDATE agents
		SET name = ?, status = ?, llm_model = ?, config = ?, created_at = ?, updated_at = ?
		WHERE id = ?
	`)
	res, err := r.db.ExecContext(ctx, query,
		a.Name, a.Status, a.LLMModel, string(a.Config), a.CreatedAt.UTC(), a.UpdatedAt.UTC(), a.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return pkgError.NotFoundError("agent not found")
	}
	return nil
}

func (r *AgentSQLRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, r.rebind(`DELETE FROM agents WHERE id = ?`), id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAgent(row rowScanner) (domainAgent.Agent, error) {
	var (
		a         domainAgent.Agent
		llmModel  sql.NullString
		config    sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Status, &llmModel, &config, &createdAt, &updatedAt); err != nil {
		return domainAgent.Agent{}, err
	}
	a.LLMModel = llmModel.String
	a.Config = []byte(config.String)
	a.CreatedAt = createdAt.UTC()
	a.UpdatedAt = updatedAt.UTC()
	return a, nil
}
