package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/smartlib/library-service/internal/model"
	"github.com/smartlib/library-service/pkg/auth"
)

// ListBooks godoc
// @Summary list catalog books with filters and paging
// @Produce json
// @Success 200 {object} model.ListBooks
// @Router /api/books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	filter := model.ListBooksFilter{
		Category:      c.QueryParam("category"),
		Search:        c.QueryParam("search"),
		AvailableOnly: c.QueryParam("available") == "true",
		Page:          queryInt(c, "page", 1),
		Size:          queryInt(c, "limit", 20),
	}

	list, err := h.catalogSvc.ListBooks(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// GetBook godoc
// @Summary fetch one active book
// @Produce json
// @Param id path string true "book id"
// @Success 200 {object} model.Book
// @Router /api/books/{id} [get]
func (h *Handler) GetBook(c echo.Context) error {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	book, err := h.catalogSvc.GetBook(c.Request().Context(), bookID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// CreateBook godoc
// @Summary add a book to the catalog
// @Accept json
// @Produce json
// @Param request body model.CreateBookRequest true "book"
// @Success 201 {object} model.Book
// @Router /api/books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	p, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	book, err := h.catalogSvc.CreateBook(c.Request().Context(), p.UserID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

// UpdateBook godoc
// @Summary update catalog fields or the total quantity
// @Accept json
// @Produce json
// @Param id path string true "book id"
// @Param request body model.UpdateBookRequest true "changes"
// @Success 200 {object} model.Book
// @Router /api/books/{id} [put]
func (h *Handler) UpdateBook(c echo.Context) error {
	p, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	var req model.UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	book, err := h.catalogSvc.UpdateBook(c.Request().Context(), p.UserID, bookID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// DeleteBook godoc
// @Summary soft-delete a book
// @Param id path string true "book id"
// @Success 204
// @Router /api/books/{id} [delete]
func (h *Handler) DeleteBook(c echo.Context) error {
	p, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	if err := h.catalogSvc.DeleteBook(c.Request().Context(), p.UserID, bookID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
