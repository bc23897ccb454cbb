package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AzielCF/az-console/agentwizard/application"
	"github.com/AzielCF/az-console/agentwizard/domain/draft"
	"github.com/AzielCF/az-console/agentwizard/domain/wizard"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type WizardHandler struct {
	sessions *application.SessionManager
}

func InitMcpWizard(sessions *application.SessionManager) *WizardHandler {
	return &WizardHandler{sessions: sessions}
}

func (h *WizardHandler) AddWizardTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(h.toolListSteps(), h.handleListSteps)
	mcpServer.AddTool(h.toolValidateDraft(), h.handleValidateDraft)
	if h.sessions != nil {
		mcpServer.AddTool(h.toolGetSession(), h.handleGetSession)
	}
}

func profileOption() mcp.ToolOption {
	return mcp.WithString("profile",
		mcp.Description("Wizard profile: standard (4 steps) or extended (6 steps). Defaults to standard."),
		mcp.Enum(application.ProfileNames()...),
	)
}

func (h *WizardHandler) toolListSteps() mcp.Tool {
	return mcp.NewTool(
		"agent_wizard_list_steps",
		mcp.WithDescription("List the ordered steps of the agent configuration wizard."),
		mcp.WithTitleAnnotation("List Wizard Steps"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		profileOption(),
	)
}

func (h *WizardHandler) handleListSteps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, ok := application.ProfileByName(request.GetString("profile", ""))
	if !ok {
		return mcp.NewToolResultError("unknown wizard profile"), nil
	}
	return mcp.NewToolResultStructured(profile, fmt.Sprintf("Profile %s has %d steps", profile.Name, profile.Len())), nil
}

type StepReport struct {
	Step   wizard.StepID `json:"step"`
	Valid  bool          `json:"valid"`
	Errors []string      `json:"errors,omitempty"`
}

type DraftReport struct {
	Profile string       `json:"profile"`
	Valid   bool         `json:"valid"`
	Steps   []StepReport `json:"steps"`
}

func (h *WizardHandler) toolValidateDraft() mcp.Tool {
	return mcp.NewTool(
		"agent_wizard_validate_draft",
		mcp.WithDescription("Validate an agent draft against every wizard step. Missing fields take their defaults."),
		mcp.WithTitleAnnotation("Validate Agent Draft"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("draft",
			mcp.Description("The draft as a JSON object with basics, knowledge, channels, integrations, webhooks and retention sections."),
			mcp.Required(),
		),
		profileOption(),
	)
}

// ValidateDraft runs every step of profile against the draft JSON. The
// terminal review step is skipped because it repeats the others.
func ValidateDraft(profileName, raw string) (DraftReport, error) {
	profile, ok := application.ProfileByName(profileName)
	if !ok {
		return DraftReport{}, fmt.Errorf("unknown wizard profile: %s", profileName)
	}
	var record draft.Partial
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return DraftReport{}, fmt.Errorf("draft is not valid JSON: %w", err)
	}
	d := draft.MergeDefaults(record)

	v := application.NewStepValidator(profile)
	report := DraftReport{Profile: profile.Name, Valid: true}
	for i := 0; i < profile.Len()-1; i++ {
		res := v.Validate(i, d)
		report.Steps = append(report.Steps, StepReport{Step: profile.Steps[i].ID, Valid: res.Valid(), Errors: res.Errors})
		if !res.Valid() {
			report.Valid = false
		}
	}
	return report, nil
}

func (h *WizardHandler) handleValidateDraft(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("draft")
	if err != nil {
		return nil, err
	}
	report, err := ValidateDraft(request.GetString("profile", ""), raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fallback := "Draft is valid"
	if !report.Valid {
		fallback = "Draft has validation errors"
	}
	return mcp.NewToolResultStructured(report, fallback), nil
}

func (h *WizardHandler) toolGetSession() mcp.Tool {
	return mcp.NewTool(
		"agent_wizard_get_session",
		mcp.WithDescription("Get the current step and draft of an open wizard session."),
		mcp.WithTitleAnnotation("Get Wizard Session"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("session_id",
			mcp.Description("The wizard session id returned when the session was opened."),
			mcp.Required(),
		),
	)
}

func (h *WizardHandler) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return nil, err
	}
	ctrl, err := h.sessions.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	st := ctrl.State()
	return mcp.NewToolResultStructured(st, fmt.Sprintf("Session %s is on step %s", st.SessionID, st.Step.ID)), nil
}
