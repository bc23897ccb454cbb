package application

import (
	"github.com/AzielCF/az-console/agentwizard/domain/draft"
	"github.com/AzielCF/az-console/agentwizard/domain/wizard"
)

// StepValidator maps (step index, draft) to a validation result. It holds
// no state besides the profile and never performs I/O.
type StepValidator struct {
	profile wizard.Profile
}

func NewStepValidator(profile wizard.Profile) *StepValidator {
	return &StepValidator{profile: profile}
}

func (v *StepValidator) Profile() wizard.Profile {
	return v.profile
}

// Validate runs the rules of one step. An index outside the profile is a
// caller bug and panics with wizard.InvalidStepIndexError.
func (v *StepValidator) Validate(index int, d draft.AgentDraft) wizard.ValidationResult {
	if index < 0 || index >= len(v.profile.Steps) {
		panic(wizard.InvalidStepIndexError{Index: index, Steps: len(v.profile.Steps)})
	}

	var errs []string
	for _, rule := range v.profile.Steps[index].Rules {
		errs = append(errs, rule(d)...)
	}
	return wizard.ValidationResult{Errors: errs}
}

// ValidateAll runs every step and returns the first invalid step together
// with the de-duplicated messages of all invalid steps, in step order.
func (v *StepValidator) ValidateAll(d draft.AgentDraft) (wizard.StepID, []string) {
	var (
		first wizard.StepID
		errs  []string
		seen  = map[string]bool{}
	)
	for i, step := range v.profile.Steps {
		res := v.Validate(i, d)
		if res.Valid() {
			continue
		}
		if first == "" {
			first = step.ID
		}
		for _, msg := range res.Errors {
			if !seen[msg] {
				seen[msg] = true
				errs = append(errs, msg)
			}
		}
	}
	return first, errs
}
