package application

import (
	"time"

	"github.com/AzielCF/az-console/agentwizard/domain/draft"
	"github.com/dustin/go-humanize"
)

// ReviewSummary is what the review step shows above the finalize button.
type ReviewSummary struct {
	Name             string                `json:"name"`
	Model            draft.LLMModel        `json:"model"`
	Voice            string                `json:"voice,omitempty"`
	Channels         []draft.ChannelID     `json:"channels"`
	Integrations     []draft.IntegrationID `json:"integrations"`
	KnowledgeFiles   int                   `json:"knowledge_files"`
	KnowledgeSize    string                `json:"knowledge_size"`
	KnowledgeURLs    int                   `json:"knowledge_urls"`
	EnabledFunctions int                   `json:"enabled_functions"`
	MemoryLength     int                   `json:"memory_length"`
	Retention        string                `json:"retention"`
	HasWebhook       bool                  `json:"has_webhook"`
	LastEdited       string                `json:"last_edited,omitempty"`
}

func Summarize(d draft.AgentDraft, now time.Time) ReviewSummary {
	var size int64
	for _, f := range d.Knowledge.KnowledgeFiles {
		if f.Size > 0 {
			size += f.Size
		}
	}
	enabled := 0
	for _, fn := range d.Knowledge.Functions {
		if fn.Enabled {
			enabled++
		}
	}

	s := ReviewSummary{
		Name:             d.Basics.Name,
		Model:            d.Basics.LLMModel,
		Voice:            d.Basics.SelectedVoice,
		Channels:         d.Channels.Enabled(),
		Integrations:     d.Integrations.Enabled(),
		KnowledgeFiles:   len(d.Knowledge.KnowledgeFiles),
		KnowledgeSize:    humanize.Bytes(uint64(size)),
		KnowledgeURLs:    len(d.Knowledge.KnowledgeURLs),
		EnabledFunctions: enabled,
		MemoryLength:     d.Knowledge.MemoryLength,
		Retention:        humanize.Comma(int64(d.Retention.DataRetentionDays)) + " days",
		HasWebhook:       d.Webhooks.WebhookURL != "",
	}
	if s.Channels == nil {
		s.Channels = []draft.ChannelID{}
	}
	if s.Integrations == nil {
		s.Integrations = []draft.IntegrationID{}
	}
	if !d.UpdatedAt.IsZero() {
		s.LastEdited = humanize.RelTime(d.UpdatedAt, now, "ago", "from now")
	}
	return s
}
