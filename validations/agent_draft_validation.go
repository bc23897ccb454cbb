package validations

import (
	"errors"
	"regexp"
	"strings"

	"github.com/AzielCF/az-console/agentwizard/domain/draft"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	MsgNameRequired        = "Agent name is required"
	MsgModelRequired       = "Language model is required"
	MsgVoiceRequired       = "Voice selection is required"
	MsgModelUnsupported    = "Selected language model is not supported"
	MsgChannelRequired     = "At least one communication channel must be enabled"
	MsgTemperatureRange    = "Temperature must be between 0.0 and 1.0"
	MsgMemoryLengthRange   = "Memory length must be between 1 and 50"
	MsgFunctionNameBlank   = "Every function needs a name"
	MsgWebhookURLInvalid   = "Webhook URL must be a valid URL"
	MsgHeaderKeyBlank      = "Auth header keys cannot be blank"
	MsgRetentionRange      = "Data retention must be between 1 and 365 days"
	MsgWidgetColorInvalid  = "Widget color must be a hex color"
	MsgWidgetPositionValid = "Widget position is not supported"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateAgentBasics checks the Basics section. Each missing required field
// contributes exactly one message, in field order.
func ValidateAgentBasics(b draft.Basics, requireVoice bool) []string {
	models := make([]interface{}, 0, len(draft.SupportedModels))
	for _, m := range draft.SupportedModels {
		models = append(models, m)
	}

	checks := []error{
		validation.Validate(strings.TrimSpace(b.Name), validation.Required.Error(MsgNameRequired)),
		validation.Validate(draft.LLMModel(strings.TrimSpace(string(b.LLMModel))),
			validation.Required.Error(MsgModelRequired),
			validation.In(models...).Error(MsgModelUnsupported),
		),
	}
	if requireVoice {
		checks = append(checks, validation.Validate(strings.TrimSpace(b.SelectedVoice), validation.Required.Error(MsgVoiceRequired)))
	}
	return collect(checks...)
}

func ValidateTemperature(b draft.Basics) []string {
	return collect(validation.Validate(b.Temperature, validation.By(floatRange(0, 1, MsgTemperatureRange))))
}

func ValidateAgentChannels(c draft.Channels) []string {
	return collect(validation.Validate(c.Enabled(), validation.Required.Error(MsgChannelRequired)))
}

func ValidateAgentMemory(k draft.Knowledge) []string {
	checks := []error{
		validation.Validate(k.MemoryLength, validation.By(intRange(1, 50, MsgMemoryLengthRange))),
	}
	for _, fn := range k.Functions {
		if err := validation.Validate(strings.TrimSpace(fn.Name), validation.Required.Error(MsgFunctionNameBlank)); err != nil {
			checks = append(checks, err)
			break
		}
	}
	return collect(checks...)
}

func ValidateAgentWebhooks(w draft.Webhooks) []string {
	checks := []error{
		validation.Validate(strings.TrimSpace(w.WebhookURL), is.URL.Error(MsgWebhookURLInvalid)),
	}
	for _, h := range w.AuthHeaders {
		if err := validation.Validate(strings.TrimSpace(h.Key), validation.Required.Error(MsgHeaderKeyBlank)); err != nil {
			checks = append(checks, err)
			break
		}
	}
	return collect(checks...)
}

func ValidateAgentRetention(r draft.Retention) []string {
	positions := make([]interface{}, 0, len(draft.WidgetPositions))
	for _, p := range draft.WidgetPositions {
		positions = append(positions, p)
	}
	return collect(
		validation.Validate(r.DataRetentionDays, validation.By(intRange(1, 365, MsgRetentionRange))),
		validation.Validate(r.WidgetColor, validation.Match(hexColor).Error(MsgWidgetColorInvalid)),
		validation.Validate(r.WidgetPosition, validation.In(positions...).Error(MsgWidgetPositionValid)),
	)
}

// ozzo treats zero as empty and skips Min/Max, so ranges that exclude zero
// are checked by hand.
func intRange(min, max int, msg string) validation.RuleFunc {
	return func(value interface{}) error {
		n, _ := value.(int)
		if n < min || n > max {
			return errors.New(msg)
		}
		return nil
	}
}

func floatRange(min, max float64, msg string) validation.RuleFunc {
	return func(value interface{}) error {
		f, _ := value.(float64)
		if f < min || f > max {
			return errors.New(msg)
		}
		return nil
	}
}

func collect(errs ...error) []string {
	var out []string
	for _, err := range errs {
		if err != nil {
			out = append(out, err.Error())
		}
	}
	return out
}
