package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AzielCF/az-console/agentwizard/domain/draft"
	"github.com/AzielCF/az-console/agentwizard/domain/wizard"
	"github.com/AzielCF/az-console/validations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeps(agents *fakeAgents, n *recordingNotifier, delay time.Duration) ControllerDeps {
	return ControllerDeps{
		Profile:       StandardProfile(),
		Agents:        agents,
		Notifier:      n,
		AutosaveDelay: delay,
		Now:           clock,
	}
}

func walkToReview(t *testing.T, c *Controller) {
	t.Helper()
	ctx := context.Background()
	for c.CurrentStep() < len(c.Profile().Steps)-1 {
		require.NoError(t, c.Next(ctx))
	}
}

func TestController_HappyPath(t *testing.T) {
	agents := newFakeAgents()
	n := &recordingNotifier{}
	c := NewCreateController("s1", testDeps(agents, n, time.Hour))
	ctx := context.Background()

	_, err := c.Update(salesBotPatch())
	require.NoError(t, err)
	require.NoError(t, c.Next(ctx))
	require.NoError(t, c.Next(ctx))
	require.NoError(t, c.Next(ctx))
	assert.Equal(t, 3, c.CurrentStep())

	res, err := c.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, "agent-1", res.AgentID)
	assert.Equal(t, draft.StatusActive, res.Draft.Status)
	assert.False(t, res.Draft.CreatedAt.IsZero())
	assert.Equal(t, draft.StatusActive, c.Draft().Status)

	last := n.last()
	assert.Equal(t, wizard.EventAgentCreated, last.Kind)
	assert.Equal(t, "SalesBot", last.Name)

	_, err = c.Update(draft.Patch{})
	assert.ErrorIs(t, err, wizard.ErrSessionClosed)
}

func TestController_BlockedNextNotifiesCurrentStepOnly(t *testing.T) {
	agents := newFakeAgents()
	n := &recordingNotifier{}
	c := NewCreateController("s1", testDeps(agents, n, time.Hour))

	err := c.Next(context.Background())

	var verr *wizard.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, c.CurrentStep())

	ev := n.last()
	assert.Equal(t, wizard.EventValidationFailed, ev.Kind)
	assert.Equal(t, wizard.StepBasics, ev.Step)
	assert.Contains(t, ev.Errors, validations.MsgNameRequired)
	assert.NotContains(t, ev.Errors, validations.MsgChannelRequired)
}

func TestController_NoAutosaveOnFirstStep(t *testing.T) {
	agents := newFakeAgents()
	c := NewCreateController("s1", testDeps(agents, &recordingNotifier{}, 10*time.Millisecond))

	_, err := c.Update(salesBotPatch())
	require.NoError(t, err)

	assert.False(t, c.AutosavePending())
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, agents.savedCount())
}

func TestController_AutosaveIsDebouncedAndReadsLatestDraft(t *testing.T) {
	agents := newFakeAgents()
	n := &recordingNotifier{}
	c := NewCreateController("s1", testDeps(agents, n, 40*time.Millisecond))

	_, err := c.Update(salesBotPatch())
	require.NoError(t, err)
	require.NoError(t, c.Next(context.Background()))

	for _, name := range []string{"A", "AB", "ABC"} {
		b := c.Draft().Basics
		b.Name = name
		_, err := c.Update(draft.Patch{Basics: &b})
		require.NoError(t, err)
	}
	assert.True(t, c.AutosavePending())

	require.Eventually(t, func() bool { return agents.savedCount() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, 1, agents.savedCount())
	assert.Equal(t, "ABC", agents.lastSaved().Basics.Name)
	assert.Equal(t, draft.StatusDraft, agents.lastSaved().Status)
	assert.Equal(t, []string{"s1"}, agents.saveIDs)
	require.Eventually(t, func() bool {
		kinds := n.kinds()
		return len(kinds) > 0 && kinds[len(kinds)-1] == wizard.EventDraftSaved
	}, time.Second, 5*time.Millisecond)
}

func TestController_AutosaveFailureIsReportedNotBlocking(t *testing.T) {
	agents := newFakeAgents()
	agents.saveErr = errors.New("down")
	n := &recordingNotifier{}
	c := NewCreateController("s1", testDeps(agents, n, 10*time.Millisecond))

	_, err := c.Update(salesBotPatch())
	require.NoError(t, err)
	require.NoError(t, c.Next(context.Background()))
	_, err = c.Update(draft.Patch{})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		kinds := n.kinds()
		return len(kinds) > 0 && kinds[len(kinds)-1] == wizard.EventDraftSaveFailed
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, "SalesBot", c.Draft().Basics.Name)
	assert.NoError(t, c.Next(context.Background()))
}

func TestController_FinalizeCancelsPendingAutosave(t *testing.T) {
	agents := newFakeAgents()
	c := NewCreateController("s1", testDeps(agents, &recordingNotifier{}, 60*time.Millisecond))

	_, err := c.Update(salesBotPatch())
	require.NoError(t, err)
	walkToReview(t, c)
	_, err = c.Update(draft.Patch{})
	require.NoError(t, err)
	require.True(t, c.AutosavePending())

	_, err = c.Finalize(context.Background())
	require.NoError(t, err)

	assert.False(t, c.AutosavePending())
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 0, agents.savedCount())
}

func TestController_FinalizeIsSingleFlight(t *testing.T) {
	agents := newFakeAgents()
	agents.block = make(chan struct{})
	c := NewCreateController("s1", testDeps(agents, &recordingNotifier{}, time.Hour))

	_, err := c.Update(salesBotPatch())
	require.NoError(t, err)
	walkToReview(t, c)

	done := make(chan error, 1)
	go func() {
		_, err := c.Finalize(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return c.State().Finalizing }, time.Second, time.Millisecond)

	_, err = c.Finalize(context.Background())
	assert.ErrorIs(t, err, wizard.ErrFinalizeInProgress)

	close(agents.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, agents.createdCount())
}

func TestController_FinalizeCancelsRunningAutosave(t *testing.T) {
	agents := newFakeAgents()
	agents.saveStarted = make(chan struct{}, 1)
	n := &recordingNotifier{}
	c := NewCreateController("s1", testDeps(agents, n, 5*time.Millisecond))

	_, err := c.Update(salesBotPatch())
	require.NoError(t, err)
	walkToReview(t, c)
	_, err = c.Update(draft.Patch{})
	require.NoError(t, err)

	select {
	case <-agents.saveStarted:
	case <-time.After(time.Second):
		t.Fatal("autosave did not start")
	}

	_, err = c.Finalize(context.Background())
	require.NoError(t, err)

	agents.mu.Lock()
	saveErr := agents.saveCtxErr
	agents.mu.Unlock()
	assert.ErrorIs(t, saveErr, context.Canceled)
	assert.NotContains(t, n.kinds(), wizard.EventDraftSaved)
	assert.NotContains(t, n.kinds(), wizard.EventDraftSaveFailed)
	assert.Equal(t, wizard.EventAgentCreated, n.last().Kind)
}

func TestController_UpdateRefusedWhileFinalizing(t *testing.T) {
	agents := newFakeAgents()
	agents.block = make(chan struct{})
	c := NewCreateController("s1", testDeps(agents, &recordingNotifier{}, time.Hour))

	_, err := c.Update(salesBotPatch())
	require.NoError(t, err)
	walkToReview(t, c)

	done := make(chan error, 1)
	go func() {
		_, err := c.Finalize(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return c.State().Finalizing }, time.Second, time.Millisecond)

	_, err = c.Update(draft.Patch{Basics: &draft.Basics{Name: "Renamed"}})
	assert.ErrorIs(t, err, wizard.ErrFinalizeInProgress)

	close(agents.block)
	require.NoError(t, <-done)
	assert.Equal(t, "SalesBot", c.Draft().Basics.Name)
}

func TestController_FinalizeDiscardsAutosavedDraft(t *testing.T) {
	agents := newFakeAgents()
	c := NewCreateController("s1", testDeps(agents, &recordingNotifier{}, time.Hour))
	_, err := c.Update(salesBotPatch())
	require.NoError(t, err)
	walkToReview(t, c)

	_, err = c.Finalize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, agents.discarded)

	failing := newFakeAgents()
	failing.discardErr = errors.New("cache down")
	c = NewCreateController("s2", testDeps(failing, &recordingNotifier{}, time.Hour))
	_, err = c.Update(salesBotPatch())
	require.NoError(t, err)
	walkToReview(t, c)

	res, err := c.Finalize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "agent-1", res.AgentID)
}

func TestController_FinalizeRequiresReviewStep(t *testing.T) {
	c := NewCreateController("s1", testDeps(newFakeAgents(), &recordingNotifier{}, time.Hour))
	_, err := c.Update(salesBotPatch())
	require.NoError(t, err)

	_, err = c.Finalize(context.Background())

	assert.ErrorIs(t, err, wizard.ErrNotAtReviewStep)
}

func TestController_FinalizeRevalidatesEverything(t *testing.T) {
	agents := newFakeAgents()
	n := &recordingNotifier{}
	c := NewCreateController("s1", testDeps(agents, n, time.Hour))

	_, err := c.Update(salesBotPatch())
	require.NoError(t, err)
	walkToReview(t, c)

	// disable every channel after having passed the channels step
	ch := draft.Channels{}
	_, err = c.Update(draft.Patch{Channels: &ch})
	require.NoError(t, err)

	_, err = c.Finalize(context.Background())

	var verr *wizard.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{validations.MsgChannelRequired}, verr.Fields)
	assert.Equal(t, 0, agents.createdCount())
	assert.Equal(t, wizard.EventValidationFailed, n.last().Kind)
	assert.Equal(t, 3, c.CurrentStep())
}

func TestController_FinalizeFailureKeepsSessionOpen(t *testing.T) {
	agents := newFakeAgents()
	agents.createErr = errors.New("503")
	n := &recordingNotifier{}
	c := NewCreateController("s1", testDeps(agents, n, time.Hour))

	_, err := c.Update(salesBotPatch())
	require.NoError(t, err)
	walkToReview(t, c)

	_, err = c.Finalize(context.Background())
	var perr *wizard.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, wizard.EventFinalizeFailed, n.last().Kind)
	assert.Equal(t, draft.StatusDraft, c.Draft().Status)
	assert.Equal(t, 3, c.CurrentStep())

	agents.mu.Lock()
	agents.createErr = nil
	agents.mu.Unlock()

	res, err := c.Finalize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "agent-1", res.AgentID)
}

func TestController_EditMode(t *testing.T) {
	agents := newFakeAgents()
	agents.record = draft.Partial{
		Basics: &draft.BasicsPartial{
			Name:          draft.Ptr("Support"),
			LLMModel:      draft.Ptr(draft.ModelGPT4o),
			SelectedVoice: draft.Ptr("v2"),
			Temperature:   draft.Ptr(0.9),
		},
		Channels: &draft.ChannelsPartial{
			Email: &draft.ConnectionPartial{Enabled: draft.Ptr(true)},
		},
	}
	n := &recordingNotifier{}

	c, err := NewEditController(context.Background(), "s2", "agent-9", testDeps(agents, n, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, agents.loadCalls)
	assert.Equal(t, wizard.ModeEdit, c.Mode())

	d := c.Draft()
	assert.Equal(t, "Support", d.Basics.Name)
	assert.Equal(t, 0.9, d.Basics.Temperature)
	assert.Equal(t, 10, d.Knowledge.MemoryLength)
	assert.True(t, d.Channels.Email.Enabled)

	walkToReview(t, c)
	res, err := c.Finalize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "agent-9", res.AgentID)
	assert.Contains(t, agents.updated, "agent-9")
	assert.Equal(t, wizard.EventAgentUpdated, n.last().Kind)
	assert.Equal(t, "Support", n.last().Name)
}

func TestController_EditModeLoadError(t *testing.T) {
	agents := newFakeAgents()
	agents.loadErr = errors.New("not found")

	_, err := NewEditController(context.Background(), "s2", "missing", testDeps(agents, &recordingNotifier{}, time.Hour))

	assert.Error(t, err)
}

func TestController_CloseCancelsTimerAndDiscards(t *testing.T) {
	agents := newFakeAgents()
	c := NewCreateController("s1", testDeps(agents, &recordingNotifier{}, 30*time.Millisecond))

	_, err := c.Update(salesBotPatch())
	require.NoError(t, err)
	require.NoError(t, c.Next(context.Background()))
	_, err = c.Update(draft.Patch{})
	require.NoError(t, err)

	c.Close()
	c.Close()

	assert.False(t, c.AutosavePending())
	assert.Equal(t, draft.Default(), c.Draft())
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 0, agents.savedCount())

	assert.ErrorIs(t, c.Next(context.Background()), wizard.ErrSessionClosed)
	assert.ErrorIs(t, c.Back(), wizard.ErrSessionClosed)
}

func TestController_BackThenNextRevalidates(t *testing.T) {
	c := NewCreateController("s1", testDeps(newFakeAgents(), &recordingNotifier{}, time.Hour))
	ctx := context.Background()

	_, err := c.Update(salesBotPatch())
	require.NoError(t, err)
	require.NoError(t, c.Next(ctx))

	b := c.Draft().Basics
	b.Name = ""
	_, err = c.Update(draft.Patch{Basics: &b})
	require.NoError(t, err)

	require.NoError(t, c.Back())
	assert.Error(t, c.Next(ctx))
	assert.Equal(t, 0, c.CurrentStep())
}
