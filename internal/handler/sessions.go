package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ListSessions godoc
// @Summary active user sessions
// @Produce json
// @Success 200 {array} session.Session
// @Router /api/sessions [get]
func (h *Handler) ListSessions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sessions.List(c.Request().Context()))
}

// RevokeSession godoc
// @Summary drop a user's active session
// @Param userId path string true "user id"
// @Success 204
// @Router /api/sessions/{userId} [delete]
func (h *Handler) RevokeSession(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	if !h.sessions.Revoke(c.Request().Context(), userID) {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.NoContent(http.StatusNoContent)
}
