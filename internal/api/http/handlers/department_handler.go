package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/phishsim/internal/api/dto"
	"github.com/spec-kit/phishsim/internal/service"
)

// DepartmentHandler exposes department management endpoints.
type DepartmentHandler struct {
	staffService *service.StaffService
}

// NewDepartmentHandler constructs handler.
func NewDepartmentHandler(staffService *service.StaffService) *DepartmentHandler {
	return &DepartmentHandler{staffService: staffService}
}

// Create handles POST /api/departments.
func (h *DepartmentHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	dept, err := h.staffService.CreateDepartment(c.Context(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewDepartmentResponse(*dept)})
}

// List handles GET /api/departments.
func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	depts, err := h.staffService.ListDepartments(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponses(depts)})
}

// Delete handles DELETE /api/departments/:id.
func (h *DepartmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.staffService.DeleteDepartment(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
