package rest

import (
	"context"
	"errors"
	"time"

	"github.com/AzielCF/az-console/agentwizard/application"
	"github.com/AzielCF/az-console/agentwizard/domain/draft"
	"github.com/AzielCF/az-console/agentwizard/domain/wizard"
	"github.com/AzielCF/az-console/infrastructure/knowledge"
	"github.com/AzielCF/az-console/infrastructure/models"
	pkgError "github.com/AzielCF/az-console/pkg/error"
	"github.com/AzielCF/az-console/pkg/utils"
	"github.com/AzielCF/az-console/pkg/wizardmonitor"
	"github.com/AzielCF/az-console/pkg/workerpool"
	"github.com/gofiber/fiber/v2"
)

type ModelLister interface {
	List(ctx context.Context) []models.Model
}

type URLPreviewer interface {
	Fetch(ctx context.Context, url string) (knowledge.Preview, error)
}

type PoolStatter interface {
	GetStats() workerpool.PoolStats
}

type Wizard struct {
	Sessions  *application.SessionManager
	Models    ModelLister
	Previewer URLPreviewer
	Monitor   *wizardmonitor.Monitor
	Pool      PoolStatter
	// OnSessionsChanged receives the open session count after open, close and finalize.
	OnSessionsChanged func(n int)
}

func InitRestWizard(app fiber.Router, w Wizard) Wizard {
	g := app.Group("/wizard")
	g.Get("/profiles", w.ListProfiles)
	g.Get("/models", w.ListModels)
	g.Get("/monitor", w.GetMonitor)
	g.Post("/knowledge/preview", w.PreviewKnowledgeURL)

	g.Get("/sessions", w.ListSessions)
	g.Post("/sessions", w.OpenSession)
	g.Get("/sessions/:id", w.GetSession)
	g.Patch("/sessions/:id/draft", w.UpdateDraft)
	g.Post("/sessions/:id/next", w.Next)
	g.Post("/sessions/:id/back", w.Back)
	g.Post("/sessions/:id/finalize", w.Finalize)
	g.Delete("/sessions/:id", w.CloseSession)

	return w
}

// sessionView is the body of every session endpoint.
type sessionView struct {
	application.State
	Summary application.ReviewSummary `json:"summary"`
}

func (h *Wizard) view(c *application.Controller) sessionView {
	st := c.State()
	return sessionView{State: st, Summary: application.Summarize(st.Draft, time.Now().UTC())}
}

func (h *Wizard) sessionsChanged() {
	if h.OnSessionsChanged != nil {
		h.OnSessionsChanged(len(h.Sessions.List()))
	}
}

// wizardError maps wizard sentinels onto the REST error types.
func wizardError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, wizard.ErrFinalizeInProgress), errors.Is(err, wizard.ErrSessionClosed):
		return pkgError.ConflictError(err.Error())
	case errors.Is(err, wizard.ErrAlreadyAtFirstStep), errors.Is(err, wizard.ErrAlreadyAtLastStep),
		errors.Is(err, wizard.ErrNotAtReviewStep):
		return pkgError.ValidationError(err.Error())
	}
	return err
}

func validationResponse(c *fiber.Ctx, verr *wizard.ValidationError) error {
	return c.Status(fiber.StatusBadRequest).JSON(utils.ResponseData{
		Status:  fiber.StatusBadRequest,
		Code:    verr.ErrCode(),
		Message: verr.Error(),
		Results: fiber.Map{"step": verr.Step, "errors": verr.Fields},
	})
}

func (h *Wizard) ListProfiles(c *fiber.Ctx) error {
	profiles := make([]wizard.Profile, 0, 2)
	for _, name := range application.ProfileNames() {
		p, _ := application.ProfileByName(name)
		profiles = append(profiles, p)
	}
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Profiles fetched",
		Results: profiles,
	})
}

func (h *Wizard) ListModels(c *fiber.Ctx) error {
	var list []models.Model
	if h.Models != nil {
		list = h.Models.List(c.UserContext())
	} else {
		list = models.Static()
	}
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Models fetched",
		Results: list,
	})
}

func (h *Wizard) GetMonitor(c *fiber.Ctx) error {
	res := fiber.Map{"open_sessions": len(h.Sessions.List())}
	if h.Monitor != nil {
		res["events"] = h.Monitor.GetStats()
	}
	if h.Pool != nil {
		res["autosave_pool"] = h.Pool.GetStats()
	}
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Wizard monitor",
		Results: res,
	})
}

func (h *Wizard) PreviewKnowledgeURL(c *fiber.Ctx) error {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&req); err != nil {
		utils.PanicIfNeeded(pkgError.ValidationError(err.Error()))
	}
	if h.Previewer == nil {
		utils.PanicIfNeeded(pkgError.InternalServerError("knowledge preview is not configured"))
	}
	preview, err := h.Previewer.Fetch(c.UserContext(), req.URL)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Preview fetched",
		Results: preview,
	})
}

func (h *Wizard) ListSessions(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Sessions fetched",
		Results: h.Sessions.List(),
	})
}

func (h *Wizard) OpenSession(c *fiber.Ctx) error {
	var req application.OpenRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			utils.PanicIfNeeded(pkgError.ValidationError(err.Error()))
		}
	}
	ctrl, err := h.Sessions.Open(c.UserContext(), req)
	utils.PanicIfNeeded(err)
	h.sessionsChanged()

	return c.Status(fiber.StatusCreated).JSON(utils.ResponseData{
		Status:  fiber.StatusCreated,
		Code:    "SUCCESS",
		Message: "Wizard session opened",
		Results: h.view(ctrl),
	})
}

func (h *Wizard) session(c *fiber.Ctx) *application.Controller {
	ctrl, err := h.Sessions.Get(c.Params("id"))
	utils.PanicIfNeeded(err)
	return ctrl
}

func (h *Wizard) GetSession(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Wizard session fetched",
		Results: h.view(h.session(c)),
	})
}

func (h *Wizard) UpdateDraft(c *fiber.Ctx) error {
	ctrl := h.session(c)

	var patch draft.Patch
	if err := c.BodyParser(&patch); err != nil {
		utils.PanicIfNeeded(pkgError.ValidationError(err.Error()))
	}
	_, err := ctrl.Update(patch)
	utils.PanicIfNeeded(wizardError(err))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Draft updated",
		Results: h.view(ctrl),
	})
}

func (h *Wizard) Next(c *fiber.Ctx) error {
	ctrl := h.session(c)

	err := ctrl.Next(c.UserContext())
	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		return validationResponse(c, verr)
	}
	utils.PanicIfNeeded(wizardError(err))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Moved to next step",
		Results: h.view(ctrl),
	})
}

func (h *Wizard) Back(c *fiber.Ctx) error {
	ctrl := h.session(c)
	utils.PanicIfNeeded(wizardError(ctrl.Back()))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Moved to previous step",
		Results: h.view(ctrl),
	})
}

func (h *Wizard) Finalize(c *fiber.Ctx) error {
	ctrl := h.session(c)

	res, err := ctrl.Finalize(c.UserContext())
	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		return validationResponse(c, verr)
	}
	utils.PanicIfNeeded(wizardError(err))

	h.Sessions.Release(ctrl.ID())
	h.sessionsChanged()

	msg := "Agent created"
	if ctrl.Mode() == wizard.ModeEdit {
		msg = "Agent updated"
	}
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: msg,
		Results: res,
	})
}

func (h *Wizard) CloseSession(c *fiber.Ctx) error {
	utils.PanicIfNeeded(h.Sessions.Close(c.Params("id")))
	h.sessionsChanged()

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Wizard session closed",
	})
}
