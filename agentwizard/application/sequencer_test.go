package application

import (
	"errors"
	"testing"

	"github.com/AzielCF/az-console/agentwizard/domain/draft"
	"github.com/AzielCF/az-console/agentwizard/domain/wizard"
	"github.com/AzielCF/az-console/validations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencer_NextBlockedByInvalidStep(t *testing.T) {
	s := NewSequencer(NewStepValidator(StandardProfile()))

	err := s.Next(draft.Default())

	var verr *wizard.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, wizard.StepBasics, verr.Step)
	assert.Contains(t, verr.Fields, validations.MsgNameRequired)
	assert.Equal(t, 0, s.Current())
}

func TestSequencer_WalkToReview(t *testing.T) {
	s := NewSequencer(NewStepValidator(StandardProfile()))
	d := salesBot()

	require.NoError(t, s.Next(d))
	require.NoError(t, s.Next(d))
	require.NoError(t, s.Next(d))
	assert.Equal(t, 3, s.Current())
	assert.True(t, s.IsTerminal())
	assert.Equal(t, wizard.StepReview, s.Step().ID)

	assert.ErrorIs(t, s.Next(d), wizard.ErrAlreadyAtLastStep)
	assert.Equal(t, 3, s.Current())
}

func TestSequencer_NextOnlyChecksCurrentStep(t *testing.T) {
	s := NewSequencer(NewStepValidator(StandardProfile()))
	d := salesBot()
	d.Channels.Call.Enabled = false

	// basics and knowledge pass even though channels would not
	require.NoError(t, s.Next(d))
	require.NoError(t, s.Next(d))

	var verr *wizard.ValidationError
	require.ErrorAs(t, s.Next(d), &verr)
	assert.Equal(t, []string{validations.MsgChannelRequired}, verr.Fields)
	assert.Equal(t, 2, s.Current())
}

func TestSequencer_Back(t *testing.T) {
	s := NewSequencer(NewStepValidator(StandardProfile()))

	assert.ErrorIs(t, s.Back(), wizard.ErrAlreadyAtFirstStep)
	assert.Equal(t, 0, s.Current())

	require.NoError(t, s.Next(salesBot()))
	require.NoError(t, s.Next(salesBot()))

	// going back never validates, even with an empty draft
	require.NoError(t, s.Back())
	require.NoError(t, s.Back())
	assert.Equal(t, 0, s.Current())
}
