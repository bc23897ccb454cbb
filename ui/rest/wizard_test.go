package rest

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/AzielCF/az-console/agentwizard/application"
	"github.com/AzielCF/az-console/agentwizard/domain/wizard"
	"github.com/AzielCF/az-console/agentwizard/repository"
	"github.com/AzielCF/az-console/infrastructure/knowledge"
	"github.com/AzielCF/az-console/pkg/crypto"
	pkgError "github.com/AzielCF/az-console/pkg/error"
	"github.com/AzielCF/az-console/pkg/utils"
	"github.com/AzielCF/az-console/pkg/wizardmonitor"
	"github.com/AzielCF/az-console/ui/rest/middleware"
	"github.com/gofiber/fiber/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	app      *fiber.App
	sessions *application.SessionManager
	agents   *application.AgentService
	monitor  *wizardmonitor.Monitor
	counts   []int
}

type stubPreviewer struct{}

func (stubPreviewer) Fetch(_ context.Context, url string) (knowledge.Preview, error) {
	return knowledge.Preview{URL: url, Title: "Docs"}, nil
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "rest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo, err := repository.NewAgentSQLRepositoryWithDB(db, "sqlite3")
	require.NoError(t, err)
	cipher, err := crypto.NewCipher("")
	require.NoError(t, err)

	ts := &testServer{monitor: wizardmonitor.New(50, 0)}
	ts.agents = application.NewAgentServiceWithDeps(repo, repository.NewDraftMemoryCache(), cipher, time.Hour)
	ts.sessions = application.NewSessionManager(application.SessionManagerDeps{
		Agents:        ts.agents,
		Notifier:      application.MonitorNotifier(ts.monitor),
		AutosaveDelay: time.Hour,
	})
	t.Cleanup(ts.sessions.CloseAll)

	ts.app = fiber.New()
	ts.app.Use(middleware.Recovery())
	InitRestWizard(ts.app, Wizard{
		Sessions:          ts.sessions,
		Previewer:         stubPreviewer{},
		Monitor:           ts.monitor,
		OnSessionsChanged: func(n int) { ts.counts = append(ts.counts, n) },
	})
	InitRestAgents(ts.app, ts.agents)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (int, utils.ResponseData, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out utils.ResponseData
	require.NoError(t, json.Unmarshal(raw, &out))
	results, _ := out.Results.(map[string]any)
	return resp.StatusCode, out, results
}

var salesBotBasics = map[string]any{
	"basics": map[string]any{
		"name":           "SalesBot",
		"llm_model":      "gpt-4",
		"selected_voice": "v1",
		"temperature":    0.7,
	},
}

func TestWizardAPI_CreateFlow(t *testing.T) {
	ts := newTestServer(t)

	status, body, res := ts.do(t, http.MethodPost, "/wizard/sessions", nil)
	require.Equal(t, http.StatusCreated, status, body.Message)
	id := res["session_id"].(string)
	assert.Equal(t, "create", res["mode"])
	assert.EqualValues(t, 0, res["current_step"])

	status, body, res = ts.do(t, http.MethodPost, "/wizard/sessions/"+id+"/next", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "basics", res["step"])
	assert.Len(t, res["errors"], 3)

	status, _, _ = ts.do(t, http.MethodPatch, "/wizard/sessions/"+id+"/draft", salesBotBasics)
	require.Equal(t, http.StatusOK, status)
	status, _, _ = ts.do(t, http.MethodPost, "/wizard/sessions/"+id+"/next", nil)
	require.Equal(t, http.StatusOK, status)
	status, _, _ = ts.do(t, http.MethodPost, "/wizard/sessions/"+id+"/next", nil)
	require.Equal(t, http.StatusOK, status)

	status, _, res = ts.do(t, http.MethodPost, "/wizard/sessions/"+id+"/next", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "channels", res["step"])

	ts.do(t, http.MethodPatch, "/wizard/sessions/"+id+"/draft", map[string]any{
		"channels": map[string]any{"call": map[string]any{"enabled": true}},
	})
	status, _, res = ts.do(t, http.MethodPost, "/wizard/sessions/"+id+"/next", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 3, res["current_step"])
	summary := res["summary"].(map[string]any)
	assert.Equal(t, "SalesBot", summary["name"])

	status, body, res = ts.do(t, http.MethodPost, "/wizard/sessions/"+id+"/finalize", nil)
	require.Equal(t, http.StatusOK, status, body.Message)
	assert.Equal(t, "Agent created", body.Message)
	agentID := res["agent_id"].(string)
	require.NotEmpty(t, agentID)

	status, _, _ = ts.do(t, http.MethodGet, "/wizard/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _, res = ts.do(t, http.MethodGet, "/agents/"+agentID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "SalesBot", res["name"])
	assert.Equal(t, "active", res["status"])

	assert.Equal(t, []int{1, 0}, ts.counts)
	stats := ts.monitor.GetStats()
	assert.Equal(t, int64(1), stats.TotalAgentsCreated)
	assert.Equal(t, int64(2), stats.TotalValidationFailures)
}

func TestWizardAPI_EditFlow(t *testing.T) {
	ts := newTestServer(t)
	_, body, res := ts.do(t, http.MethodPost, "/wizard/sessions", nil)
	id := res["session_id"].(string)
	ts.do(t, http.MethodPatch, "/wizard/sessions/"+id+"/draft", map[string]any{
		"basics":   salesBotBasics["basics"],
		"channels": map[string]any{"email": map[string]any{"enabled": true}},
	})
	for i := 0; i < 3; i++ {
		status, b, _ := ts.do(t, http.MethodPost, "/wizard/sessions/"+id+"/next", nil)
		require.Equal(t, http.StatusOK, status, b.Message)
	}
	_, body, res = ts.do(t, http.MethodPost, "/wizard/sessions/"+id+"/finalize", nil)
	agentID := res["agent_id"].(string)
	require.NotEmpty(t, agentID, body.Message)

	status, _, res := ts.do(t, http.MethodPost, "/wizard/sessions", map[string]any{"mode": "edit", "agent_id": agentID})
	require.Equal(t, http.StatusCreated, status)
	editID := res["session_id"].(string)
	d := res["draft"].(map[string]any)
	assert.Equal(t, "SalesBot", d["basics"].(map[string]any)["name"])

	ts.do(t, http.MethodPatch, "/wizard/sessions/"+editID+"/draft", map[string]any{
		"basics": map[string]any{"name": "SalesBot v2", "llm_model": "gpt-4o", "selected_voice": "v2"},
	})
	for i := 0; i < 3; i++ {
		ts.do(t, http.MethodPost, "/wizard/sessions/"+editID+"/next", nil)
	}
	status, body, res = ts.do(t, http.MethodPost, "/wizard/sessions/"+editID+"/finalize", nil)
	require.Equal(t, http.StatusOK, status, body.Message)
	assert.Equal(t, "Agent updated", body.Message)
	assert.Equal(t, agentID, res["agent_id"])

	_, _, res = ts.do(t, http.MethodGet, "/agents/"+agentID, nil)
	assert.Equal(t, "SalesBot v2", res["name"])
}

func TestWizardAPI_Errors(t *testing.T) {
	ts := newTestServer(t)

	status, body, _ := ts.do(t, http.MethodGet, "/wizard/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND_ERROR", body.Code)

	status, _, _ = ts.do(t, http.MethodPost, "/wizard/sessions", map[string]any{"mode": "edit"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _, _ = ts.do(t, http.MethodPost, "/wizard/sessions", map[string]any{"mode": "edit", "agent_id": "missing"})
	assert.Equal(t, http.StatusNotFound, status)

	_, _, res := ts.do(t, http.MethodPost, "/wizard/sessions", nil)
	id := res["session_id"].(string)

	status, body, _ = ts.do(t, http.MethodPost, "/wizard/sessions/"+id+"/back", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)

	status, _, _ = ts.do(t, http.MethodPost, "/wizard/sessions/"+id+"/finalize", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _, _ = ts.do(t, http.MethodDelete, "/wizard/sessions/"+id, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _, _ = ts.do(t, http.MethodDelete, "/wizard/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestWizardErrorMapping(t *testing.T) {
	assert.Nil(t, wizardError(nil))
	assert.IsType(t, pkgError.ConflictError(""), wizardError(wizard.ErrFinalizeInProgress))
	assert.IsType(t, pkgError.ConflictError(""), wizardError(wizard.ErrSessionClosed))
	assert.IsType(t, pkgError.ValidationError(""), wizardError(wizard.ErrNotAtReviewStep))

	other := errors.New("other")
	assert.Same(t, other, wizardError(other))
}

func TestWizardAPI_Catalog(t *testing.T) {
	ts := newTestServer(t)

	status, body, _ := ts.do(t, http.MethodGet, "/wizard/profiles", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body.Results, 2)

	status, body, _ = ts.do(t, http.MethodGet, "/wizard/models", nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body.Results)

	status, _, res := ts.do(t, http.MethodPost, "/wizard/knowledge/preview", map[string]any{"url": "https://example.com"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Docs", res["title"])

	status, _, res = ts.do(t, http.MethodGet, "/wizard/monitor", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, res["open_sessions"])
}
