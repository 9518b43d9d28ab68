package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/smartlib/library-service/internal/errs"
	"github.com/smartlib/library-service/internal/session"
	"github.com/smartlib/library-service/pkg/auth"
	"github.com/smartlib/library-service/pkg/validate"
	_ "github.com/smartlib/library-service/swagger"
)

type Handler struct {
	borrowingSvc BorrowingService
	catalogSvc   CatalogService
	logsSvc      LogsService
	settingsSvc  SettingsService
	sessions     session.Store
	log          *zap.Logger
}

func New(borrowing BorrowingService, catalog CatalogService, logs LogsService, settings SettingsService, sessions session.Store, log *zap.Logger) *Handler {
	return &Handler{
		borrowingSvc: borrowing,
		catalogSvc:   catalog,
		logsSvc:      logs,
		settingsSvc:  settings,
		sessions:     sessions,
		log:          log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", newRateLimiterMW(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()

	api := e.Group("/api",
		middleware.RequestLoggerWithConfig(requestLoggerConfig(h.log)),
		middleware.RequestID(),
		newRateLimiterMW(apiRPS),
		auth.Middleware,
		h.trackSession,
	)

	borrowing := api.Group("/borrowing")
	borrowing.POST("/borrow", h.RequestBorrow)
	borrowing.PUT("/request/:id", h.DecideRequest, auth.RequireRole(auth.RoleAdmin, auth.RoleLibrarian))
	borrowing.POST("/return/:recordId", h.ReturnBook)
	borrowing.GET("/my-books", h.MyBooks)
	borrowing.GET("/all", h.ListBorrows, auth.RequireRole(auth.RoleAdmin, auth.RoleLibrarian))
	borrowing.GET("/overdue", h.Overdue, auth.RequireRole(auth.RoleAdmin, auth.RoleLibrarian))
	borrowing.PUT("/fine/:recordId", h.UpdateFine, auth.RequireRole(auth.RoleAdmin, auth.RoleLibrarian))

	books := api.Group("/books")
	books.GET("", h.ListBooks)
	books.GET("/:id", h.GetBook)
	books.POST("", h.CreateBook, auth.RequireRole(auth.RoleAdmin, auth.RoleLibrarian))
	books.PUT("/:id", h.UpdateBook, auth.RequireRole(auth.RoleAdmin, auth.RoleLibrarian))
	books.DELETE("/:id", h.DeleteBook, auth.RequireRole(auth.RoleAdmin))

	api.GET("/logs", h.ListLogs, auth.RequireRole(auth.RoleAdmin))

	system := api.Group("/system", auth.RequireRole(auth.RoleAdmin))
	system.GET("/settings", h.GetSettings)
	system.PUT("/settings", h.UpdateSettings)

	sessions := api.Group("/sessions", auth.RequireRole(auth.RoleAdmin))
	sessions.GET("", h.ListSessions)
	sessions.DELETE("/:userId", h.RevokeSession)

	return e
}

// Health godoc
// @Summary health probe
// @Success 200 {string} string "OK"
// @Router /manage/health [get]
func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps the workflow taxonomy onto HTTP statuses.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrUnavailable),
		errors.Is(err, errs.ErrDuplicateClaim),
		errors.Is(err, errs.ErrInvalidState),
		errors.Is(err, errs.ErrAlreadyReturned):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrContention):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
