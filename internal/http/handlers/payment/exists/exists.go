// Package exists реализует HTTP-обработчик проверки наличия платежей
// у записи месяца. Клиенты используют признак для выбора типа платежа
// по умолчанию: первый платёж обычно банковский, последующие наличными.
package exists

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
)

// Handler обрабатывает HTTP-запросы проверки наличия платежей.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики учёта
}

// Service описывает интерфейс проверки наличия платежей.
type Service interface {
	HasPayments(ctx context.Context, username string, month, year int) (bool, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверить наличие платежей
// @Description Сообщает, есть ли у записи месяца хотя бы один платёж. Для отсутствующей записи возвращает false.
// @Tags Payments
// @Produce  json
// @Param year path int true "Год записи"
// @Param month path int true "Месяц записи"
// @Success 200 {object} map[string]any "Признак наличия платежей"
// @Failure 400 {object} response.ErrorResponse "Некорректный год или месяц"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /records/{year}/{month}/payments/exists [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.exists"
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

	has, err := h.service.HasPayments(r.Context(), username, month, year)
	if err != nil {
		if errors.Is(err, workmonth.ErrMonthOutOfRange) || errors.Is(err, workmonth.ErrYearOutOfRange) {
			log.Error("month key out of range", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to check payments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check payments"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"has_payments": has,
	}))
}
