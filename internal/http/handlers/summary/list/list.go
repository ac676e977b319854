// Package list реализует HTTP-обработчик чтения сводок по всем месяцам вызывающего.
//
// Суммы в сводках вычисляются в момент запроса из актуальных записей.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/worklog-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/worklog-ledger/internal/http/response"
	"github.com/magabrotheeeer/worklog-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/worklog-ledger/internal/models"
)

// Handler обрабатывает HTTP-запросы чтения списка сводок.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис read-only запросов
}

// Service описывает интерфейс чтения сводок.
type Service interface {
	Summaries(ctx context.Context, username string) ([]models.MonthSummary, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить сводки по всем месяцам
// @Description Возвращает сводки по всем записям вызывающего: начислено, выплачено, остаток.
// @Tags Summaries
// @Produce  json
// @Success 200 {object} response.OKResponse "Список сводок"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /summaries [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.summary.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	summaries, err := h.service.Summaries(r.Context(), username)
	if err != nil {
		log.Error("failed to list summaries", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list summaries"))
		return
	}

	render.JSON(w, r, response.OKWithData(summaries))
}
