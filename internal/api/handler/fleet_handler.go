package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetops/fleet-console/internal/core/ports"
)

// FleetHandler serves the simulated vehicle feed backing the live map.
type FleetHandler struct {
	fleet ports.FleetService
}

func NewFleetHandler(fleet ports.FleetService) *FleetHandler {
	return &FleetHandler{fleet: fleet}
}

// Vehicles returns the current position of every vehicle.
//
// @Summary      List vehicle positions
// @Tags         fleet
// @Produce      json
// @Success      200  {array}  domain.Vehicle
// @Router       /api/vehicles [get]
func (h *FleetHandler) Vehicles(c echo.Context) error {
	return c.JSON(http.StatusOK, h.fleet.Snapshot())
}
