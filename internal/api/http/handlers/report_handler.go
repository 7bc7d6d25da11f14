package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/phishsim/internal/api/dto"
	"github.com/spec-kit/phishsim/internal/repository"
	"github.com/spec-kit/phishsim/internal/service"
)

// ReportHandler exposes risk reporting endpoints.
type ReportHandler struct {
	staffService *service.StaffService
}

// NewReportHandler constructs handler.
func NewReportHandler(staffService *service.StaffService) *ReportHandler {
	return &ReportHandler{staffService: staffService}
}

// StaffReport handles GET /api/reports/staff. Results are ordered by
// descending risk score; optional department/name filters narrow the report.
func (h *ReportHandler) StaffReport(c *fiber.Ctx) error {
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

// DepartmentReport handles GET /api/reports/departments.
func (h *ReportHandler) DepartmentReport(c *fiber.Ctx) error {
	depts, err := h.staffService.ListDepartments(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponses(depts)})
}
