package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/phishsim/internal/api/dto"
	"github.com/spec-kit/phishsim/internal/repository"
	"github.com/spec-kit/phishsim/internal/service"
)

// StaffHandler exposes staff and department management endpoints.
type StaffHandler struct {
	staffService *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

// Create handles POST /api/staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	member, err := h.staffService.CreateStaff(c.Context(), service.StaffCreateInput{
		Name:         req.Name,
		Email:        req.Email,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewStaffResponse(*member)})
}

// List handles GET /api/staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	filter := repository.StaffFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if dept := c.Query("department"); dept != "" {
		filter.DepartmentID = &dept
	}
	if name := c.Query("name"); name != "" {
		filter.Name = &name
	}

	staff, err := h.staffService.ListStaff(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffResponses(staff)})
}

// Get handles GET /api/staff/:id.
func (h *StaffHandler) Get(c *fiber.Ctx) error {
	member, err := h.staffService.GetStaff(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffResponse(*member)})
}

// Update handles PATCH /api/staff/:id.
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	member, err := h.staffService.UpdateStaff(c.Context(), c.Params("id"), service.StaffUpdateInput{
		Name:         req.Name,
		Email:        req.Email,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffResponse(*member)})
}

// Delete handles DELETE /api/staff/:id.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	if err := h.staffService.DeleteStaff(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ResetRisk handles POST /api/staff/:id/reset.
func (h *StaffHandler) ResetRisk(c *fiber.Ctx) error {
	member, err := h.staffService.ResetRisk(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffResponse(*member)})
}
