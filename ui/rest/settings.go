package rest

import (
	"time"

	"github.com/AzielCF/az-console/agentwizard/application"
	settingsApp "github.com/AzielCF/az-console/core/settings/application"
	pkgError "github.com/AzielCF/az-console/pkg/error"
	"github.com/AzielCF/az-console/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Settings struct {
	Service  *settingsApp.SettingsService
	Sessions *application.SessionManager
}

func InitRestSettings(app fiber.Router, service *settingsApp.SettingsService, sessions *application.SessionManager) Settings {
	rest := Settings{Service: service, Sessions: sessions}
	app.Get("/settings/wizard", rest.GetWizardSettings)
	app.Put("/settings/wizard", rest.UpdateWizardSettings)
	return rest
}

func (h *Settings) GetWizardSettings(c *fiber.Ctx) error {
	ws, err := h.Service.GetWizardSettings(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Wizard settings fetched",
		Results: ws,
	})
}

// UpdateWizardSettings stores the overrides. Profile and autosave delay apply
// to sessions opened afterwards; the rest take effect on restart.
func (h *Settings) UpdateWizardSettings(c *fiber.Ctx) error {
	var req settingsApp.WizardSettings
	if err := c.BodyParser(&req); err != nil {
		utils.PanicIfNeeded(pkgError.ValidationError(err.Error()))
	}

	validProfile := func(name string) bool {
		_, ok := application.ProfileByName(name)
		return ok
	}
	utils.PanicIfNeeded(h.Service.SaveWizardSettings(c.UserContext(), req, validProfile))

	var delay time.Duration
	if req.AutosaveMs != nil {
		delay = time.Duration(*req.AutosaveMs) * time.Millisecond
	}
	if h.Sessions != nil {
		utils.PanicIfNeeded(h.Sessions.Reconfigure(req.Profile, delay))
	}

	ws, err := h.Service.GetWizardSettings(c.UserContext())
	utils.PanicIfNeeded(err)
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Wizard settings updated",
		Results: ws,
	})
}
