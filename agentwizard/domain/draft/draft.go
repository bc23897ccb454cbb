package draft

import "time"

type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
)

type LLMModel string

const (
	ModelGPT4          LLMModel = "gpt-4"
	ModelGPT4o         LLMModel = "gpt-4o"
	ModelGPT4oMini     LLMModel = "gpt-4o-mini"
	ModelGPT35Turbo    LLMModel = "gpt-3.5-turbo"
	ModelClaude3Opus   LLMModel = "claude-3-opus"
	ModelClaude3Sonnet LLMModel = "claude-3-sonnet"
	ModelGemini25Flash LLMModel = "gemini-2.5-flash"
	ModelGemini25Pro   LLMModel = "gemini-2.5-pro"
)

// SupportedModels is the ordered list offered by the Basics step.
var SupportedModels = []LLMModel{
	ModelGPT4,
	ModelGPT4o,
	ModelGPT4oMini,
	ModelGPT35Turbo,
	ModelClaude3Opus,
	ModelClaude3Sonnet,
	ModelGemini25Flash,
	ModelGemini25Pro,
}

func IsSupportedModel(m LLMModel) bool {
	for _, s := range SupportedModels {
		if s == m {
			return true
		}
	}
	return false
}

type WidgetPosition string

const (
	WidgetBottomRight WidgetPosition = "bottom-right"
	WidgetBottomLeft  WidgetPosition = "bottom-left"
	WidgetTopRight    WidgetPosition = "top-right"
	WidgetTopLeft     WidgetPosition = "top-left"
)

var WidgetPositions = []WidgetPosition{WidgetBottomRight, WidgetBottomLeft, WidgetTopRight, WidgetTopLeft}

// AgentDraft is the in-progress configuration of an agent. Sections are
// replaced wholesale by Patch and filled field by field by MergeDefaults.
type AgentDraft struct {
	Basics       Basics       `json:"basics"`
	Knowledge    Knowledge    `json:"knowledge"`
	Channels     Channels     `json:"channels"`
	Integrations Integrations `json:"integrations"`
	Webhooks     Webhooks     `json:"webhooks"`
	Retention    Retention    `json:"retention"`
	Status       Status       `json:"status"`
	CreatedAt    time.Time    `json:"created_at,omitempty"`
	UpdatedAt    time.Time    `json:"updated_at,omitempty"`
}

type Basics struct {
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	InitialMessage string   `json:"initial_message,omitempty"`
	LLMModel       LLMModel `json:"llm_model"`
	Temperature    float64  `json:"temperature"`
	SelectedVoice  string   `json:"selected_voice"`
}

type KnowledgeFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type,omitempty"`
}

type AgentFunction struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Code    string `json:"code,omitempty"`
}

type Knowledge struct {
	UseRAG               bool            `json:"use_rag"`
	KnowledgeFiles       []KnowledgeFile `json:"knowledge_files"`
	KnowledgeURLs        []string        `json:"knowledge_urls"`
	KnowledgeText        string          `json:"knowledge_text"`
	Functions            []AgentFunction `json:"functions"`
	MemoryLength         int             `json:"memory_length"`
	EnableLongTermMemory bool            `json:"enable_long_term_memory"`
}

type AuthHeader struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Webhooks keeps header order; duplicate keys are passed through untouched.
type Webhooks struct {
	WebhookURL  string       `json:"webhook_url,omitempty"`
	AuthHeaders []AuthHeader `json:"auth_headers"`
}

type Retention struct {
	DataRetentionDays int            `json:"data_retention_days"`
	EnableWidget      bool           `json:"enable_widget"`
	WidgetColor       string         `json:"widget_color"`
	WidgetPosition    WidgetPosition `json:"widget_position"`
}

// Clone returns a copy that shares no slices with d.
func (d AgentDraft) Clone() AgentDraft {
	out := d
	out.Knowledge.KnowledgeFiles = append([]KnowledgeFile{}, d.Knowledge.KnowledgeFiles...)
	out.Knowledge.KnowledgeURLs = append([]string{}, d.Knowledge.KnowledgeURLs...)
	out.Knowledge.Functions = append([]AgentFunction{}, d.Knowledge.Functions...)
	out.Webhooks.AuthHeaders = append([]AuthHeader{}, d.Webhooks.AuthHeaders...)
	return out
}
