// Package remove реализует HTTP-обработчик удаления платежа по метке времени.
//
// Handler извлекает год, месяц и метку времени платежа из URL-параметров
// и удаляет платёж при точном совпадении метки.
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

// Handler обрабатывает HTTP-запросы удаления платежа.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики учёта
}

// Service описывает интерфейс удаления платежа.
type Service interface {
	DeletePayment(ctx context.Context, username string, month, year int, paidAt int64) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить платёж
// @Description Удаляет платёж записи месяца по точному совпадению метки времени.
// @Tags Payments
// @Produce  json
// @Param year path int true "Год записи"
// @Param month path int true "Месяц записи"
// @Param paidAt path int true "Метка времени платежа в наносекундах"
// @Success 200 {object} map[string]any "Платёж удалён"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Запись или платёж не найдены"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /records/{year}/{month}/payments/{paidAt} [delete]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.remove"
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
	paidAt, err := strconv.ParseInt(chi.URLParam(r, "paidAt"), 10, 64)
	if err != nil {
		log.Error("invalid paidAt format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid payment timestamp"))
		return
	}

	if err := h.service.DeletePayment(r.Context(), username, month, year, paidAt); err != nil {
		switch {
		case errors.Is(err, workmonth.ErrMonthOutOfRange), errors.Is(err, workmonth.ErrYearOutOfRange):
			log.Error("month key out of range", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, repository.ErrRecordNotFound):
			log.Error("record not found", slog.String("month", workmonth.Label(month, year)))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("record not found"))
		case errors.Is(err, repository.ErrPaymentNotFound):
			log.Error("payment not found", slog.Int64("paid_at", paidAt))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("payment not found"))
		default:
			log.Error("failed to delete payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not delete payment"))
		}
		return
	}

	log.Info("success to delete payment", slog.Int64("paid_at", paidAt))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"paid_at": paidAt,
	}))
}
