package application

import (
	"testing"

	"github.com/AzielCF/az-console/agentwizard/domain/draft"
	"github.com/AzielCF/az-console/agentwizard/domain/wizard"
	"github.com/AzielCF/az-console/validations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepIDs(p wizard.Profile) []wizard.StepID {
	out := make([]wizard.StepID, 0, len(p.Steps))
	for _, s := range p.Steps {
		out = append(out, s.ID)
	}
	return out
}

func TestProfiles_StepOrder(t *testing.T) {
	assert.Equal(t,
		[]wizard.StepID{wizard.StepBasics, wizard.StepKnowledge, wizard.StepChannels, wizard.StepReview},
		stepIDs(StandardProfile()))
	assert.Equal(t,
		[]wizard.StepID{wizard.StepBasics, wizard.StepKnowledge, wizard.StepFunctions, wizard.StepChannels, wizard.StepIntegrations, wizard.StepReview},
		stepIDs(ExtendedProfile()))
}

func TestProfileByName(t *testing.T) {
	p, ok := ProfileByName("")
	require.True(t, ok)
	assert.Equal(t, ProfileStandard, p.Name)

	p, ok = ProfileByName(ProfileExtended)
	require.True(t, ok)
	assert.Equal(t, 6, p.Len())

	_, ok = ProfileByName("wizard-xl")
	assert.False(t, ok)

	assert.Equal(t, []string{ProfileExtended, ProfileStandard}, ProfileNames())
}

func TestStepValidator_Standard(t *testing.T) {
	v := NewStepValidator(StandardProfile())
	empty := draft.Default()

	t.Run("basics reports every missing field", func(t *testing.T) {
		res := v.Validate(0, empty)
		assert.False(t, res.Valid())
		assert.Equal(t, []string{validations.MsgNameRequired, validations.MsgModelRequired, validations.MsgVoiceRequired}, res.Errors)
	})

	t.Run("knowledge is always valid", func(t *testing.T) {
		assert.True(t, v.Validate(1, empty).Valid())
	})

	t.Run("channels need one enabled", func(t *testing.T) {
		assert.Equal(t, []string{validations.MsgChannelRequired}, v.Validate(2, empty).Errors)

		d := empty
		d.Channels.Email.Enabled = true
		assert.True(t, v.Validate(2, d).Valid())
	})

	t.Run("review aggregates basics and channels", func(t *testing.T) {
		res := v.Validate(3, empty)
		assert.Equal(t, []string{
			validations.MsgNameRequired,
			validations.MsgModelRequired,
			validations.MsgVoiceRequired,
			validations.MsgChannelRequired,
		}, res.Errors)
		assert.True(t, v.Validate(3, salesBot()).Valid())
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, v.Validate(3, empty), v.Validate(3, empty))
	})
}

func TestStepValidator_InvalidIndexPanics(t *testing.T) {
	v := NewStepValidator(StandardProfile())

	assert.PanicsWithValue(t, wizard.InvalidStepIndexError{Index: 4, Steps: 4}, func() {
		v.Validate(4, draft.Default())
	})
	assert.PanicsWithValue(t, wizard.InvalidStepIndexError{Index: -1, Steps: 4}, func() {
		v.Validate(-1, draft.Default())
	})
}

func TestStepValidator_ValidateAll(t *testing.T) {
	v := NewStepValidator(StandardProfile())

	t.Run("valid draft", func(t *testing.T) {
		step, errs := v.ValidateAll(salesBot())
		assert.Empty(t, step)
		assert.Empty(t, errs)
	})

	t.Run("only basics errors when channels are fine", func(t *testing.T) {
		d := salesBot()
		d.Basics.Name = "  "
		step, errs := v.ValidateAll(d)
		assert.Equal(t, wizard.StepBasics, step)
		assert.Equal(t, []string{validations.MsgNameRequired}, errs)
	})

	t.Run("no channel enabled", func(t *testing.T) {
		d := salesBot()
		d.Channels.Call.Enabled = false
		step, errs := v.ValidateAll(d)
		assert.Equal(t, wizard.StepChannels, step)
		assert.Equal(t, []string{validations.MsgChannelRequired}, errs)
	})
}

func TestStepValidator_Extended(t *testing.T) {
	v := NewStepValidator(ExtendedProfile())
	p := v.Profile()

	d := salesBot()
	d.Basics.SelectedVoice = ""
	assert.True(t, v.Validate(p.IndexOf(wizard.StepBasics), d).Valid(), "voice is optional in the extended wizard")

	d.Basics.Temperature = 1.5
	assert.Equal(t, []string{validations.MsgTemperatureRange}, v.Validate(p.IndexOf(wizard.StepBasics), d).Errors)

	d = salesBot()
	d.Knowledge.MemoryLength = 0
	assert.Equal(t, []string{validations.MsgMemoryLengthRange}, v.Validate(p.IndexOf(wizard.StepFunctions), d).Errors)

	d = salesBot()
	d.Webhooks.WebhookURL = "not a url"
	d.Retention.WidgetColor = "blue"
	assert.Equal(t,
		[]string{validations.MsgWebhookURLInvalid, validations.MsgWidgetColorInvalid},
		v.Validate(p.IndexOf(wizard.StepIntegrations), d).Errors)

	_, errs := v.ValidateAll(d)
	assert.Equal(t, []string{validations.MsgWebhookURLInvalid, validations.MsgWidgetColorInvalid}, errs)
}
