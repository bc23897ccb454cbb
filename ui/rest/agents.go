package rest

import (
	"context"

	domainAgent "github.com/AzielCF/az-console/agentwizard/domain/agent"
	"github.com/AzielCF/az-console/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type AgentReader interface {
	ListAgents(ctx context.Context) ([]domainAgent.Agent, error)
	GetAgent(ctx context.Context, agentID string) (domainAgent.Agent, error)
}

type Agents struct {
	Service AgentReader
}

func InitRestAgents(app fiber.Router, service AgentReader) Agents {
	rest := Agents{Service: service}
	app.Get("/agents", rest.ListAgents)
	app.Get("/agents/:id", rest.GetAgent)
	return rest
}

func (h *Agents) ListAgents(c *fiber.Ctx) error {
	agents, err := h.Service.ListAgents(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Agents fetched",
		Results: agents,
	})
}

func (h *Agents) GetAgent(c *fiber.Ctx) error {
	agent, err := h.Service.GetAgent(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Agent fetched",
		Results: agent,
	})
}
