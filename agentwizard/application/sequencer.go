package application

import (
	"github.com/AzielCF/az-console/agentwizard/domain/draft"
	"github.com/AzielCF/az-console/agentwizard/domain/wizard"
)

// Sequencer owns the current step index. Navigation is strictly sequential.
type Sequencer struct {
	validator *StepValidator
	current   int
}

func NewSequencer(validator *StepValidator) *Sequencer {
	return &Sequencer{validator: validator}
}

func (s *Sequencer) Current() int { return s.current }

func (s *Sequencer) Step() wizard.Step {
	return s.validator.profile.Steps[s.current]
}

func (s *Sequencer) Steps() []wizard.Step {
	return s.validator.profile.Steps
}

func (s *Sequencer) IsTerminal() bool {
	return s.current == len(s.validator.profile.Steps)-1
}

// Next advances one step when the current step validates against d.
func (s *Sequencer) Next(d draft.AgentDraft) error {
	if s.IsTerminal() {
		return wizard.ErrAlreadyAtLastStep
	}
	res := s.validator.Validate(s.current, d)
	if !res.Valid() {
		return &wizard.ValidationError{Step: s.Step().ID, Fields: res.Errors}
	}
	s.current++
	return nil
}

// Back retreats one step without validating the step being left.
func (s *Sequencer) Back() error {
	if s.current == 0 {
		return wizard.ErrAlreadyAtFirstStep
	}
	s.current--
	return nil
}
