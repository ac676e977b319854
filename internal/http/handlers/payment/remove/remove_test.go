package remove

import (
	"context"
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
	"github.com/magabrotheeeer/worklog-ledger/internal/storage/repository"
)

// MockService реализует интерфейс remove.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) DeletePayment(ctx context.Context, username string, month, year int, paidAt int64) error {
	args := m.Called(ctx, username, month, year, paidAt)
	return args.Error(0)
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		paidAt         string
		username       string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "успешное удаление платежа",
			paidAt:   "1740000000000000000",
			username: "testuser",
			setupMock: func(m *MockService) {
				m.On("DeletePayment", mock.Anything, "testuser", 3, 2025, int64(1740000000000000000)).
					Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"paid_at":1740000000000000000}}`,
		},
		{
			name:     "платёж не найден",
			paidAt:   "999",
			username: "testuser",
			setupMock: func(m *MockService) {
				m.On("DeletePayment", mock.Anything, "testuser", 3, 2025, int64(999)).
					Return(repository.ErrPaymentNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"payment not found"}`,
		},
		{
			name:           "некорректная метка времени",
			paidAt:         "not-a-number",
			username:       "testuser",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid payment timestamp"}`,
		},
		{
			name:           "отсутствует авторизация",
			paidAt:         "123",
			username:       "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/records/2025/3/payments/"+tt.paidAt, nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("year", "2025")
			rctx.URLParams.Add("month", "3")
			rctx.URLParams.Add("paidAt", tt.paidAt)

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
