package application

import (
	"sort"

	"github.com/AzielCF/az-console/agentwizard/domain/draft"
	"github.com/AzielCF/az-console/agentwizard/domain/wizard"
	"github.com/AzielCF/az-console/validations"
)

const (
	ProfileStandard = "standard"
	ProfileExtended = "extended"
)

func basicsRule(requireVoice bool) wizard.Rule {
	return func(d draft.AgentDraft) []string {
		return validations.ValidateAgentBasics(d.Basics, requireVoice)
	}
}

func temperatureRule(d draft.AgentDraft) []string {
	return validations.ValidateTemperature(d.Basics)
}

func channelsRule(d draft.AgentDraft) []string {
	return validations.ValidateAgentChannels(d.Channels)
}

func memoryRule(d draft.AgentDraft) []string {
	return validations.ValidateAgentMemory(d.Knowledge)
}

func webhooksRule(d draft.AgentDraft) []string {
	return validations.ValidateAgentWebhooks(d.Webhooks)
}

func retentionRule(d draft.AgentDraft) []string {
	return validations.ValidateAgentRetention(d.Retention)
}

// withReview appends a terminal review step whose rules are the union of
// every previous step's rules.
func withReview(name string, steps ...wizard.Step) wizard.Profile {
	var all []wizard.Rule
	for _, s := range steps {
		all = append(all, s.Rules...)
	}
	steps = append(steps, wizard.Step{ID: wizard.StepReview, Title: "Review", Rules: all})
	return wizard.Profile{Name: name, Steps: steps}
}

// StandardProfile is the four step wizard. Basics gates on name, model and voice.
func StandardProfile() wizard.Profile {
	return withReview(ProfileStandard,
		wizard.Step{ID: wizard.StepBasics, Title: "Basics", Rules: []wizard.Rule{basicsRule(true)}},
		wizard.Step{ID: wizard.StepKnowledge, Title: "Knowledge & Functions"},
		wizard.Step{ID: wizard.StepChannels, Title: "Channels", Rules: []wizard.Rule{channelsRule}},
	)
}

// ExtendedProfile is the six step wizard. Voice is optional here; the
// functions and integrations steps carry their own range and format checks.
func ExtendedProfile() wizard.Profile {
	return withReview(ProfileExtended,
		wizard.Step{ID: wizard.StepBasics, Title: "Basics", Rules: []wizard.Rule{basicsRule(false), temperatureRule}},
		wizard.Step{ID: wizard.StepKnowledge, Title: "Knowledge"},
		wizard.Step{ID: wizard.StepFunctions, Title: "Functions & Memory", Rules: []wizard.Rule{memoryRule}},
		wizard.Step{ID: wizard.StepChannels, Title: "Channels", Rules: []wizard.Rule{channelsRule}},
		wizard.Step{ID: wizard.StepIntegrations, Title: "Integrations & Webhooks", Rules: []wizard.Rule{webhooksRule, retentionRule}},
	)
}

var profileBuilders = map[string]func() wizard.Profile{
	ProfileStandard: StandardProfile,
	ProfileExtended: ExtendedProfile,
}

// ProfileByName resolves a profile; an empty name selects the standard one.
func ProfileByName(name string) (wizard.Profile, bool) {
	if name == "" {
		name = ProfileStandard
	}
	build, ok := profileBuilders[name]
	if !ok {
		return wizard.Profile{}, false
	}
	return build(), true
}

func ProfileNames() []string {
	names := make([]string, 0, len(profileBuilders))
	for name := range profileBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
