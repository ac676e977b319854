package exists

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/worklog-ledger/internal/http/middlewarectx"
)

// MockService реализует интерфейс exists.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) HasPayments(ctx context.Context, username string, month, year int) (bool, error) {
	args := m.Called(ctx, username, month, year)
	return args.Bool(0), args.Error(1)
}

func TestExistsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		year           string
		month          string
		username       string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "платежи есть",
			year:     "2025",
			month:    "3",
			username: "testuser",
			setupMock: func(m *MockService) {
				m.On("HasPayments", mock.Anything, "testuser", 3, 2025).Return(true, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"has_payments":true}}`,
		},
		{
			name:     "платежей нет или запись отсутствует",
			year:     "2025",
			month:    "3",
			username: "testuser",
			setupMock: func(m *MockService) {
				m.On("HasPayments", mock.Anything, "testuser", 3, 2025).Return(false, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"has_payments":false}}`,
		},
		{
			name:           "некорректный год",
			year:           "twenty",
			month:          "3",
			username:       "testuser",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid year"}`,
		},
		{
			name:     "ошибка сервиса",
			year:     "2025",
			month:    "3",
			username: "testuser",
			setupMock: func(m *MockService) {
				m.On("HasPayments", mock.Anything, "testuser", 3, 2025).
					Return(false, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not check payments"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet,
				"/api/v1/records/"+tt.year+"/"+tt.month+"/payments/exists", nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("year", tt.year)
			rctx.URLParams.Add("month", tt.month)

			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.User, tt.username)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
