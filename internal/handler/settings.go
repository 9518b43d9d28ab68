package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartlib/library-service/internal/model"
	"github.com/smartlib/library-service/pkg/auth"
)

// GetSettings godoc
// @Summary current system settings
// @Produce json
// @Success 200 {object} model.Settings
// @Router /api/system/settings [get]
func (h *Handler) GetSettings(c echo.Context) error {
	settings, err := h.settingsSvc.Get(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary update system settings, including the fine rate
// @Accept json
// @Produce json
// @Param request body model.UpdateSettingsRequest true "settings"
// @Success 200 {object} model.Settings
// @Router /api/system/settings [put]
func (h *Handler) UpdateSettings(c echo.Context) error {
	p, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	var req model.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	settings, err := h.settingsSvc.Update(c.Request().Context(), p.UserID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, settings)
}
