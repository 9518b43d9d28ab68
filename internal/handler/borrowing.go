package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/smartlib/library-service/internal/model"
	"github.com/smartlib/library-service/pkg/auth"
)

// RequestBorrow godoc
// @Summary request to borrow a book, reserving a copy
// @Accept json
// @Produce json
// @Param request body model.BorrowRequest true "borrow request"
// @Success 201 {object} model.BorrowRecord
// @Router /api/borrowing/borrow [post]
func (h *Handler) RequestBorrow(c echo.Context) error {
	p, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	var req model.BorrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.UserID = p.UserID
	if err := c.Validate(req); err != nil {
		return err
	}

	rec, err := h.borrowingSvc.RequestBorrow(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, rec)
}

// DecideRequest godoc
// @Summary approve or reject a pending borrow request
// @Accept json
// @Produce json
// @Param id path string true "record id"
// @Param request body model.DecideRequest true "decision"
// @Success 200 {object} model.BorrowRecord
// @Router /api/borrowing/request/{id} [put]
func (h *Handler) DecideRequest(c echo.Context) error {
	p, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid record id")
	}

	var req model.DecideRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	rec, err := h.borrowingSvc.DecideRequest(c.Request().Context(), p.UserID, recordID, req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

// ReturnBook godoc
// @Summary return a borrowed book, computing any overdue fine
// @Produce json
// @Param recordId path string true "record id"
// @Success 200 {object} model.BorrowRecord
// @Router /api/borrowing/return/{recordId} [post]
func (h *Handler) ReturnBook(c echo.Context) error {
	p, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	recordID, err := uuid.Parse(c.Param("recordId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid record id")
	}

	rec, err := h.borrowingSvc.ReturnBook(c.Request().Context(), p.UserID, p.Role, recordID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

// MyBooks godoc
// @Summary current user's borrowing history
// @Produce json
// @Param status query string false "status filter"
// @Success 200 {object} model.ListBorrowRecords
// @Router /api/borrowing/my-books [get]
func (h *Handler) MyBooks(c echo.Context) error {
	p, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	list, err := h.borrowingSvc.MyBooks(c.Request().Context(), p.UserID, model.Status(c.QueryParam("status")))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// ListBorrows godoc
// @Summary all borrow records with filters and paging
// @Produce json
// @Success 200 {object} model.ListBorrowRecords
// @Router /api/borrowing/all [get]
func (h *Handler) ListBorrows(c echo.Context) error {
	filter := model.ListBorrowsFilter{
		Status: model.Status(c.QueryParam("status")),
		Page:   queryInt(c, "page", 1),
		Size:   queryInt(c, "limit", 20),
	}
	if raw := c.QueryParam("userId"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid userId")
		}
		filter.UserID = &userID
	}

	list, err := h.borrowingSvc.ListAll(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// Overdue godoc
// @Summary borrowed records past their due date
// @Produce json
// @Success 200 {array} model.BorrowRecord
// @Router /api/borrowing/overdue [get]
func (h *Handler) Overdue(c echo.Context) error {
	items, err := h.borrowingSvc.Overdue(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// UpdateFine godoc
// @Summary set the fine amount on a borrow record
// @Accept json
// @Produce json
// @Param recordId path string true "record id"
// @Param request body model.UpdateFineRequest true "fine"
// @Success 200 {object} model.BorrowRecord
// @Router /api/borrowing/fine/{recordId} [put]
func (h *Handler) UpdateFine(c echo.Context) error {
	p, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	recordID, err := uuid.Parse(c.Param("recordId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid record id")
	}

	var req model.UpdateFineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	rec, err := h.borrowingSvc.UpdateFine(c.Request().Context(), p.UserID, p.Role, recordID, req.FineAmount)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
