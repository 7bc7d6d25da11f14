package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/phishsim/internal/api/dto"
	"github.com/spec-kit/phishsim/internal/domain"
	"github.com/spec-kit/phishsim/internal/service"
)

// SimulationHandler exposes manual scheduling.
type SimulationHandler struct {
	simulationService *service.SimulationService
}

// NewSimulationHandler constructs handler.
func NewSimulationHandler(simulationService *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{simulationService: simulationService}
}

// Schedule handles POST /api/simulation/schedule.
func (h *SimulationHandler) Schedule(c *fiber.Ctx) error {
	var req dto.ScheduleSendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.StaffID == "" || req.Template == "" {
		return fiber.NewError(http.StatusBadRequest, "staff_id and template required")
	}

	send, err := h.simulationService.ScheduleSend(c.Context(), req.StaffID, domain.Template(req.Template), req.SendTime)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ScheduledSendResponse{
		ID:         send.ID,
		StaffID:    send.StaffID,
		StaffEmail: send.StaffEmail,
		Template:   string(send.Template),
		SendTime:   send.SendTime,
	}})
}
