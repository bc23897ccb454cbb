package draft

import "time"

const (
	DefaultTemperature       = 0.7
	DefaultMemoryLength      = 10
	DefaultDataRetentionDays = 30
	DefaultWidgetPosition    = WidgetBottomRight
)

// Default returns an empty draft with every documented default applied.
func Default() AgentDraft {
	return AgentDraft{
		Basics: Basics{
			Temperature: DefaultTemperature,
		},
		Knowledge: Knowledge{
			KnowledgeFiles: []KnowledgeFile{},
			KnowledgeURLs:  []string{},
			Functions:      []AgentFunction{},
			MemoryLength:   DefaultMemoryLength,
		},
		Webhooks: Webhooks{
			AuthHeaders: []AuthHeader{},
		},
		Retention: Retention{
			DataRetentionDays: DefaultDataRetentionDays,
			WidgetPosition:    DefaultWidgetPosition,
		},
		Status: StatusDraft,
	}
}

// Partial is an external agent record where every field is optional. A nil
// field means "not set" and falls back to the default in MergeDefaults.
// JSON field names match AgentDraft so stored drafts decode directly.
type Partial struct {
	Basics       *BasicsPartial       `json:"basics,omitempty"`
	Knowledge    *KnowledgePartial    `json:"knowledge,omitempty"`
	Channels     *ChannelsPartial     `json:"channels,omitempty"`
	Integrations *IntegrationsPartial `json:"integrations,omitempty"`
	Webhooks     *WebhooksPartial     `json:"webhooks,omitempty"`
	Retention    *RetentionPartial    `json:"retention,omitempty"`
	Status       *Status              `json:"status,omitempty"`
	CreatedAt    *time.Time           `json:"created_at,omitempty"`
	UpdatedAt    *time.Time           `json:"updated_at,omitempty"`
}

type BasicsPartial struct {
	Name           *string   `json:"name,omitempty"`
	Description    *string   `json:"description,omitempty"`
	InitialMessage *string   `json:"initial_message,omitempty"`
	LLMModel       *LLMModel `json:"llm_model,omitempty"`
	Temperature    *float64  `json:"temperature,omitempty"`
	SelectedVoice  *string   `json:"selected_voice,omitempty"`
}

type KnowledgePartial struct {
	UseRAG               *bool            `json:"use_rag,omitempty"`
	KnowledgeFiles       *[]KnowledgeFile `json:"knowledge_files,omitempty"`
	KnowledgeURLs        *[]string        `json:"knowledge_urls,omitempty"`
	KnowledgeText        *string          `json:"knowledge_text,omitempty"`
	Functions            *[]AgentFunction `json:"functions,omitempty"`
	MemoryLength         *int             `json:"memory_length,omitempty"`
	EnableLongTermMemory *bool            `json:"enable_long_term_memory,omitempty"`
}

type ConnectionPartial struct {
	Enabled           *bool   `json:"enabled,omitempty"`
	SelectedAccountID *string `json:"selected_account_id,omitempty"`
}

type ChannelsPartial struct {
	Call     *ConnectionPartial `json:"call,omitempty"`
	WhatsApp *ConnectionPartial `json:"whatsapp,omitempty"`
	Email    *ConnectionPartial `json:"email,omitempty"`
	Widget   *ConnectionPartial `json:"widget,omitempty"`
}

type IntegrationsPartial struct {
	Slack   *bool `json:"slack,omitempty"`
	Teams   *bool `json:"teams,omitempty"`
	HubSpot *bool `json:"hubspot,omitempty"`
	Zendesk *bool `json:"zendesk,omitempty"`
}

type WebhooksPartial struct {
	WebhookURL  *string       `json:"webhook_url,omitempty"`
	AuthHeaders *[]AuthHeader `json:"auth_headers,omitempty"`
}

type RetentionPartial struct {
	DataRetentionDays *int            `json:"data_retention_days,omitempty"`
	EnableWidget      *bool           `json:"enable_widget,omitempty"`
	WidgetColor       *string         `json:"widget_color,omitempty"`
	WidgetPosition    *WidgetPosition `json:"widget_position,omitempty"`
}

// MergeDefaults fills every unset field of p with its default. It never fails.
func MergeDefaults(p Partial) AgentDraft {
	return mergeOnto(Default(), p)
}

func mergeOnto(d AgentDraft, p Partial) AgentDraft {
	if b := p.Basics; b != nil {
		d.Basics.Name = pick(b.Name, d.Basics.Name)
		d.Basics.Description = pick(b.Description, d.Basics.Description)
		d.Basics.InitialMessage = pick(b.InitialMessage, d.Basics.InitialMessage)
		d.Basics.LLMModel = pick(b.LLMModel, d.Basics.LLMModel)
		d.Basics.Temperature = pick(b.Temperature, d.Basics.Temperature)
		d.Basics.SelectedVoice = pick(b.SelectedVoice, d.Basics.SelectedVoice)
	}
	if k := p.Knowledge; k != nil {
		d.Knowledge.UseRAG = pick(k.UseRAG, d.Knowledge.UseRAG)
		d.Knowledge.KnowledgeFiles = nonNil(pick(k.KnowledgeFiles, d.Knowledge.KnowledgeFiles))
		d.Knowledge.KnowledgeURLs = nonNil(pick(k.KnowledgeURLs, d.Knowledge.KnowledgeURLs))
		d.Knowledge.KnowledgeText = pick(k.KnowledgeText, d.Knowledge.KnowledgeText)
		d.Knowledge.Functions = nonNil(pick(k.Functions, d.Knowledge.Functions))
		d.Knowledge.MemoryLength = pick(k.MemoryLength, d.Knowledge.MemoryLength)
		d.Knowledge.EnableLongTermMemory = pick(k.EnableLongTermMemory, d.Knowledge.EnableLongTermMemory)
	}
	if c := p.Channels; c != nil {
		d.Channels.Call = mergeConnection(d.Channels.Call, c.Call)
		d.Channels.WhatsApp = mergeConnection(d.Channels.WhatsApp, c.WhatsApp)
		d.Channels.Email = mergeConnection(d.Channels.Email, c.Email)
		d.Channels.Widget = mergeConnection(d.Channels.Widget, c.Widget)
	}
	if i := p.Integrations; i != nil {
		d.Integrations.Slack = pick(i.Slack, d.Integrations.Slack)
		d.Integrations.Teams = pick(i.Teams, d.Integrations.Teams)
		d.Integrations.HubSpot = pick(i.HubSpot, d.Integrations.HubSpot)
		d.Integrations.Zendesk = pick(i.Zendesk, d.Integrations.Zendesk)
	}
	if w := p.Webhooks; w != nil {
		d.Webhooks.WebhookURL = pick(w.WebhookURL, d.Webhooks.WebhookURL)
		d.Webhooks.AuthHeaders = nonNil(pick(w.AuthHeaders, d.Webhooks.AuthHeaders))
	}
	if r := p.Retention; r != nil {
		d.Retention.DataRetentionDays = pick(r.DataRetentionDays, d.Retention.DataRetentionDays)
		d.Retention.EnableWidget = pick(r.EnableWidget, d.Retention.EnableWidget)
		d.Retention.WidgetColor = pick(r.WidgetColor, d.Retention.WidgetColor)
		d.Retention.WidgetPosition = pick(r.WidgetPosition, d.Retention.WidgetPosition)
	}
	d.Status = pick(p.Status, d.Status)
	d.CreatedAt = pick(p.CreatedAt, d.CreatedAt)
	d.UpdatedAt = pick(p.UpdatedAt, d.UpdatedAt)
	return d
}

func mergeConnection(c ChannelConnection, p *ConnectionPartial) ChannelConnection {
	if p == nil {
		return c
	}
	c.Enabled = pick(p.Enabled, c.Enabled)
	c.SelectedAccountID = pick(p.SelectedAccountID, c.SelectedAccountID)
	return c
}

func pick[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Ptr is a helper for building partials in callers and tests.
func Ptr[T any](v T) *T {
	return &v
}
