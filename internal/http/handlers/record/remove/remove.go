// Package remove реализует HTTP-обработчик удаления месячной записи вызывающего.
//
// Удаление разрешено только при точном нулевом остатке: запись с недоплатой
// или переплатой отклоняется с HTTP 409, сначала нужно выровнять платежи.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/worklog-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/worklog-ledger/internal/http/response"
	"github.com/magabrotheeeer/worklog-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/worklog-ledger/internal/lib/workmonth"
	"github.com/magabrotheeeer/worklog-ledger/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы удаления записи месяца.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики учёта
}

// Service описывает интерфейс удаления записи месяца.
type Service interface {
	DeleteRecord(ctx context.Context, username string, month, year int) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить запись месяца
// @Description Удаляет запись месяца вместе с платежами. Доступно только при нулевом остатке.
// @Tags Records
// @Produce  json
// @Param year path int true "Год записи"
// @Param month path int true "Месяц записи"
// @Success 200 {object} map[string]any "Запись удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный год или месяц"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 409 {object} response.ErrorResponse "Остаток по записи не равен нулю"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /records/{year}/{month} [delete]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.record.remove"
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

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		log.Error("invalid year format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid year"))
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		log.Error("invalid month format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid month"))
		return
	}

	if err := h.service.DeleteRecord(r.Context(), username, month, year); err != nil {
		switch {
		case errors.Is(err, workmonth.ErrMonthOutOfRange), errors.Is(err, workmonth.ErrYearOutOfRange):
			log.Error("month key out of range", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, repository.ErrRecordNotFound):
			log.Error("record not found", slog.String("month", workmonth.Label(month, year)))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("record not found"))
		case errors.Is(err, repository.ErrUnsettledBalance):
			log.Error("record balance is not settled", slog.String("month", workmonth.Label(month, year)))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("record balance is not settled"))
		default:
			log.Error("failed to delete record", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not delete record"))
		}
		return
	}

	log.Info("success to delete record", slog.String("month", workmonth.Label(month, year)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"deleted": workmonth.Label(month, year),
	}))
}
