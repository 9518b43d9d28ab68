package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartlib/library-service/internal/errs"
	"github.com/smartlib/library-service/internal/handler"
	service_mocks "github.com/smartlib/library-service/internal/handler/mocks"
	"github.com/smartlib/library-service/internal/model"
	"github.com/smartlib/library-service/internal/session"
	"github.com/smartlib/library-service/pkg/auth"
	"github.com/smartlib/library-service/pkg/validate"
)

var (
	testUserID   = uuid.MustParse("4e3f0b7a-55a3-44a5-9f3c-0a4c77a12a01")
	testBookID   = uuid.MustParse("83575e12-7ce0-48ee-9931-51919ff3c9ee")
	testRecordID = uuid.MustParse("f7cdc58f-2caf-4b15-9727-f89dcc629b27")

	testBorrowDate = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	testDueDate    = time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
)

func testProfile(role string) auth.Profile {
	return auth.Profile{UserID: testUserID, Name: "reader", Role: role}
}

func newTestServer(t *testing.T, svc *service_mocks.MockBorrowingService, p auth.Profile) *echo.Echo {
	t.Helper()
	log := zap.NewExample().Named("test")
	h := handler.New(svc,
		service_mocks.NewMockCatalogService(gomock.NewController(t)),
		service_mocks.NewMockLogsService(gomock.NewController(t)),
		service_mocks.NewMockSettingsService(gomock.NewController(t)),
		session.NewMemoryStore(time.Minute), log)

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := auth.SetAuthContext(c.Request().Context(), p)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})
	e.POST("/api/borrowing/borrow", h.RequestBorrow)
	e.PUT("/api/borrowing/request/:id", h.DecideRequest)
	e.POST("/api/borrowing/return/:recordId", h.ReturnBook)
	e.GET("/api/borrowing/my-books", h.MyBooks)
	return e
}

func TestHandler_RequestBorrow(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBorrowingService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: fmt.Sprintf(`{"bookId":%q,"dueDate":"2024-05-15T10:00:00Z"}`, testBookID),
			mockBehavior: func(r *service_mocks.MockBorrowingService) {
				r.EXPECT().
					RequestBorrow(gomock.Any(), model.BorrowRequest{
						BookID:  testBookID,
						DueDate: testDueDate,
						UserID:  testUserID,
					}).
					Return(model.BorrowRecord{
						ID:         testRecordID,
						UserID:     testUserID,
						BookID:     testBookID,
						BorrowDate: testBorrowDate,
						DueDate:    testDueDate,
						Status:     model.StatusPending,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: fmt.Sprintf(`{"id":%q,"userId":%q,"bookId":%q,"borrowDate":"2024-05-01T10:00:00Z","dueDate":"2024-05-15T10:00:00Z","returnDate":null,"status":"PENDING","fineAmount":0}`,
					testRecordID, testUserID, testBookID),
			},
		},
		{
			name:         "err. missing bookId",
			body:         `{"dueDate":"2024-05-15T10:00:00Z"}`,
			mockBehavior: func(r *service_mocks.MockBorrowingService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
		{
			name: "err. no copies available",
			body: fmt.Sprintf(`{"bookId":%q,"dueDate":"2024-05-15T10:00:00Z"}`, testBookID),
			mockBehavior: func(r *service_mocks.MockBorrowingService) {
				r.EXPECT().
					RequestBorrow(gomock.Any(), gomock.Any()).
					Return(model.BorrowRecord{}, errs.ErrUnavailable)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"book is currently unavailable"}`,
			},
		},
		{
			name: "err. duplicate active claim",
			body: fmt.Sprintf(`{"bookId":%q,"dueDate":"2024-05-15T10:00:00Z"}`, testBookID),
			mockBehavior: func(r *service_mocks.MockBorrowingService) {
				r.EXPECT().
					RequestBorrow(gomock.Any(), gomock.Any()).
					Return(model.BorrowRecord{}, errs.ErrDuplicateClaim)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"active borrow already exists for this book"}`,
			},
		},
		{
			name: "err. contention exhausted",
			body: fmt.Sprintf(`{"bookId":%q,"dueDate":"2024-05-15T10:00:00Z"}`, testBookID),
			mockBehavior: func(r *service_mocks.MockBorrowingService) {
				r.EXPECT().
					RequestBorrow(gomock.Any(), gomock.Any()).
					Return(model.BorrowRecord{}, errs.ErrContention)
			},
			response: response{
				expectedCode: http.StatusServiceUnavailable,
				expectedBody: `{"message":"transaction contention, retry"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBorrowingService(c)
			tt.mockBehavior(svc)

			e := newTestServer(t, svc, testProfile(auth.RoleStudent))

			r := httptest.NewRequest(http.MethodPost, "/api/borrowing/borrow", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_DecideRequest(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBorrowingService)

	var tests = []struct {
		name         string
		recordID     string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:     "ok. approved",
			recordID: testRecordID.String(),
			body:     `{"status":"BORROWED"}`,
			mockBehavior: func(r *service_mocks.MockBorrowingService) {
				r.EXPECT().
					DecideRequest(gomock.Any(), testUserID, testRecordID, model.StatusBorrowed).
					Return(model.BorrowRecord{
						ID:         testRecordID,
						UserID:     testUserID,
						BookID:     testBookID,
						BorrowDate: testBorrowDate,
						DueDate:    testDueDate,
						Status:     model.StatusBorrowed,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: fmt.Sprintf(`{"id":%q,"userId":%q,"bookId":%q,"borrowDate":"2024-05-01T10:00:00Z","dueDate":"2024-05-15T10:00:00Z","returnDate":null,"status":"BORROWED","fineAmount":0}`,
					testRecordID, testUserID, testBookID),
			},
		},
		{
			name:         "err. bad record id",
			recordID:     "not-a-uuid",
			body:         `{"status":"BORROWED"}`,
			mockBehavior: func(r *service_mocks.MockBorrowingService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"invalid record id"}`,
			},
		},
		{
			name:         "err. decision outside oneof",
			recordID:     testRecordID.String(),
			body:         `{"status":"RETURNED"}`,
			mockBehavior: func(r *service_mocks.MockBorrowingService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
		{
			name:     "err. not pending anymore",
			recordID: testRecordID.String(),
			body:     `{"status":"REJECTED"}`,
			mockBehavior: func(r *service_mocks.MockBorrowingService) {
				r.EXPECT().
					DecideRequest(gomock.Any(), testUserID, testRecordID, model.StatusRejected).
					Return(model.BorrowRecord{}, errs.ErrInvalidState)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"invalid record state for this transition"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBorrowingService(c)
			tt.mockBehavior(svc)

			e := newTestServer(t, svc, testProfile(auth.RoleLibrarian))

			r := httptest.NewRequest(http.MethodPut, "/api/borrowing/request/"+tt.recordID, strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_ReturnBook(t *testing.T) {
	t.Parallel()
	returned := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBorrowingService)

	var tests = []struct {
		name         string
		recordID     string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:     "ok. returned with fine",
			recordID: testRecordID.String(),
			mockBehavior: func(r *service_mocks.MockBorrowingService) {
				r.EXPECT().
					ReturnBook(gomock.Any(), testUserID, auth.RoleStudent, testRecordID).
					Return(model.BorrowRecord{
						ID:         testRecordID,
						UserID:     testUserID,
						BookID:     testBookID,
						BorrowDate: testBorrowDate,
						DueDate:    testDueDate,
						ReturnDate: &returned,
						Status:     model.StatusReturned,
						FineAmount: 2.5,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: fmt.Sprintf(`{"id":%q,"userId":%q,"bookId":%q,"borrowDate":"2024-05-01T10:00:00Z","dueDate":"2024-05-15T10:00:00Z","returnDate":"2024-05-20T10:00:00Z","status":"RETURNED","fineAmount":2.5}`,
					testRecordID, testUserID, testBookID),
			},
		},
		{
			name:     "err. already returned",
			recordID: testRecordID.String(),
			mockBehavior: func(r *service_mocks.MockBorrowingService) {
				r.EXPECT().
					ReturnBook(gomock.Any(), testUserID, auth.RoleStudent, testRecordID).
					Return(model.BorrowRecord{}, errs.ErrAlreadyReturned)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"book has already been returned"}`,
			},
		},
		{
			name:     "err. not the borrower",
			recordID: testRecordID.String(),
			mockBehavior: func(r *service_mocks.MockBorrowingService) {
				r.EXPECT().
					ReturnBook(gomock.Any(), testUserID, auth.RoleStudent, testRecordID).
					Return(model.BorrowRecord{}, errs.ErrForbidden)
			},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"access denied"}`,
			},
		},
		{
			name:     "err. unknown record",
			recordID: testRecordID.String(),
			mockBehavior: func(r *service_mocks.MockBorrowingService) {
				r.EXPECT().
					ReturnBook(gomock.Any(), testUserID, auth.RoleStudent, testRecordID).
					Return(model.BorrowRecord{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name:     "err. internal",
			recordID: testRecordID.String(),
			mockBehavior: func(r *service_mocks.MockBorrowingService) {
				r.EXPECT().
					ReturnBook(gomock.Any(), testUserID, auth.RoleStudent, testRecordID).
					Return(model.BorrowRecord{}, errors.New("db internal"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBorrowingService(c)
			tt.mockBehavior(svc)

			e := newTestServer(t, svc, testProfile(auth.RoleStudent))

			r := httptest.NewRequest(http.MethodPost, "/api/borrowing/return/"+tt.recordID, http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_MyBooks(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockBorrowingService(c)
	svc.EXPECT().
		MyBooks(gomock.Any(), testUserID, model.StatusBorrowed).
		Return(model.ListBorrowRecords{
			Paging: model.Paging{Page: 1, PageSize: 20, TotalElements: 1},
			Items: []model.BorrowRecord{{
				ID:         testRecordID,
				UserID:     testUserID,
				BookID:     testBookID,
				BorrowDate: testBorrowDate,
				DueDate:    testDueDate,
				Status:     model.StatusBorrowed,
			}},
		}, nil)

	e := newTestServer(t, svc, testProfile(auth.RoleStudent))

	r := httptest.NewRequest(http.MethodGet, "/api/borrowing/my-books?status=BORROWED", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	expected := fmt.Sprintf(`{"page":1,"pageSize":20,"totalElements":1,"items":[{"id":%q,"userId":%q,"bookId":%q,"borrowDate":"2024-05-01T10:00:00Z","dueDate":"2024-05-15T10:00:00Z","returnDate":null,"status":"BORROWED","fineAmount":0}]}`,
		testRecordID, testUserID, testBookID)
	require.Equal(t, expected, strings.Trim(w.Body.String(), "\n"))
}
