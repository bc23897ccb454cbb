package validations

import (
	"testing"

	"github.com/AzielCF/az-console/agentwizard/domain/draft"
	"github.com/stretchr/testify/assert"
)

func TestValidateAgentBasics(t *testing.T) {
	cases := []struct {
		name         string
		basics       draft.Basics
		requireVoice bool
		want         []string
	}{
		{
			name:         "complete",
			basics:       draft.Basics{Name: "SalesBot", LLMModel: draft.ModelGPT4, SelectedVoice: "v1"},
			requireVoice: true,
		},
		{
			name:         "all missing",
			basics:       draft.Basics{Name: "   "},
			requireVoice: true,
			want:         []string{MsgNameRequired, MsgModelRequired, MsgVoiceRequired},
		},
		{
			name:   "voice not gated",
			basics: draft.Basics{Name: "Bot", LLMModel: draft.ModelGPT4o},
		},
		{
			name:         "unsupported model",
			basics:       draft.Basics{Name: "Bot", LLMModel: "llama-9000", SelectedVoice: "v1"},
			requireVoice: true,
			want:         []string{MsgModelUnsupported},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidateAgentBasics(tc.basics, tc.requireVoice))
		})
	}
}

func TestValidateAgentChannels(t *testing.T) {
	assert.Equal(t, []string{MsgChannelRequired}, ValidateAgentChannels(draft.Channels{}))

	c := draft.Channels{}.With(draft.ChannelWidget, draft.ChannelConnection{Enabled: true})
	assert.Empty(t, ValidateAgentChannels(c))
}

func TestValidateAgentMemory(t *testing.T) {
	assert.Empty(t, ValidateAgentMemory(draft.Knowledge{MemoryLength: 10}))
	assert.Equal(t, []string{MsgMemoryLengthRange}, ValidateAgentMemory(draft.Knowledge{MemoryLength: 0}))
	assert.Equal(t, []string{MsgMemoryLengthRange}, ValidateAgentMemory(draft.Knowledge{MemoryLength: 51}))

	k := draft.Knowledge{MemoryLength: 5, Functions: []draft.AgentFunction{{ID: "1"}, {ID: "2"}}}
	assert.Equal(t, []string{MsgFunctionNameBlank}, ValidateAgentMemory(k))
}

func TestValidateTemperature(t *testing.T) {
	assert.Empty(t, ValidateTemperature(draft.Basics{Temperature: 0}))
	assert.Empty(t, ValidateTemperature(draft.Basics{Temperature: 1}))
	assert.Equal(t, []string{MsgTemperatureRange}, ValidateTemperature(draft.Basics{Temperature: 1.5}))
}

func TestValidateAgentWebhooks(t *testing.T) {
	assert.Empty(t, ValidateAgentWebhooks(draft.Webhooks{}))
	assert.Empty(t, ValidateAgentWebhooks(draft.Webhooks{
		WebhookURL:  "https://hooks.example.com/agent",
		AuthHeaders: []draft.AuthHeader{{Key: "X-Token", Value: "a"}, {Key: "X-Token", Value: "b"}},
	}))

	got := ValidateAgentWebhooks(draft.Webhooks{
		WebhookURL:  "not a url",
		AuthHeaders: []draft.AuthHeader{{Key: " ", Value: "a"}},
	})
	assert.Equal(t, []string{MsgWebhookURLInvalid, MsgHeaderKeyBlank}, got)
}

func TestValidateAgentRetention(t *testing.T) {
	ok := draft.Retention{DataRetentionDays: 30, WidgetColor: "#1A2b3c", WidgetPosition: draft.WidgetTopLeft}
	assert.Empty(t, ValidateAgentRetention(ok))

	bad := draft.Retention{DataRetentionDays: 400, WidgetColor: "blue", WidgetPosition: "middle"}
	assert.Equal(t, []string{MsgRetentionRange, MsgWidgetColorInvalid, MsgWidgetPositionValid}, ValidateAgentRetention(bad))
}
