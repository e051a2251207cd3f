package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/console-api/internal/api/middleware"
	"github.com/clinicore/console-api/internal/core/domain"
	"github.com/clinicore/console-api/internal/core/permission"
)

// consoleNavigation is the full sidebar in canonical order; the filter prunes
// it per role set without resorting.
var consoleNavigation = []permission.NavigationModule{
	{ID: domain.ModuleDashboard, Label: "Dashboard", Icon: "home"},
	{ID: domain.ModulePatients, Label: "Patients", Icon: "users"},
	{ID: domain.ModuleConsultations, Label: "Consultations", Icon: "stethoscope"},
	{ID: domain.ModuleEmergency, Label: "Emergency Guards", Icon: "siren"},
	{ID: domain.ModuleDepartments, Label: "Departments", Icon: "building"},
	{ID: domain.ModuleStaff, Label: "Staff", Icon: "id-badge"},
	{ID: domain.ModuleMedications, Label: "Medications", Icon: "pill"},
	{ID: domain.ModuleWarehouse, Label: "Warehouse", Icon: "boxes"},
	{ID: domain.ModuleReports, Label: "Reports", Icon: "chart"},
}

// consoleSettings are the settings menu candidates. "about" is on the
// always-visible exception list; the rest map one-to-one to modules.
var consoleSettings = []permission.SettingsOption{
	{ID: "departments", Label: "Department settings"},
	{ID: "staff", Label: "Staff settings"},
	{ID: "medications", Label: "Medication settings"},
	{ID: "warehouse", Label: "Warehouse settings"},
	{ID: "about", Label: "About this console"},
}

// NavigationHandler serves the pruned navigation surfaces.
type NavigationHandler struct {
	evaluator *permission.Evaluator
}

func NewNavigationHandler(evaluator *permission.Evaluator) *NavigationHandler {
	return &NavigationHandler{evaluator: evaluator}
}

// Modules returns the sidebar entries the caller may navigate to.
//
// @Summary      Navigation modules
// @Tags         navigation
// @Produce      json
// @Success      200  {array}  permission.NavigationModule
// @Security     BearerAuth
// @Router       /v1/navigation [get]
func (h *NavigationHandler) Modules(c echo.Context) error {
	visible := h.evaluator.FilterModules(consoleNavigation, middleware.RolesFromContext(c))
	return c.JSON(http.StatusOK, visible)
}

// Settings returns the settings menu options visible to the caller.
//
// @Summary      Settings options
// @Tags         navigation
// @Produce      json
// @Success      200  {array}  permission.SettingsOption
// @Security     BearerAuth
// @Router       /v1/navigation/settings [get]
func (h *NavigationHandler) Settings(c echo.Context) error {
	visible := h.evaluator.FilterOptions(consoleSettings, middleware.RolesFromContext(c))
	return c.JSON(http.StatusOK, visible)
}
