package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/smartlib/library-service/internal/model"
)

// ListLogs godoc
// @Summary read the audit trail with filters and paging
// @Produce json
// @Success 200 {object} model.ListAuditEntries
// @Router /api/logs [get]
func (h *Handler) ListLogs(c echo.Context) error {
	filter := model.ListAuditFilter{
		Action: c.QueryParam("action"),
		Page:   queryInt(c, "page", 1),
		Size:   queryInt(c, "limit", 50),
	}
	if raw := c.QueryParam("userId"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid userId")
		}
		filter.UserID = &userID
	}
	if raw := c.QueryParam("startDate"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid startDate")
		}
		filter.From = &from
	}
	if raw := c.QueryParam("endDate"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid endDate")
		}
		filter.To = &to
	}

	list, err := h.logsSvc.List(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}
