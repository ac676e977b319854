// Package add реализует HTTP-обработчик регистрации платежа по записи месяца.
//
// Handler принимает сумму и тип платежа, валидирует их и добавляет платёж
// через сервис. Платежи только дописываются в конец истории записи.
package add

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/worklog-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/worklog-ledger/internal/http/response"
	"github.com/magabrotheeeer/worklog-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/worklog-ledger/internal/lib/workmonth"
	"github.com/magabrotheeeer/worklog-ledger/internal/models"
	"github.com/magabrotheeeer/worklog-ledger/internal/services/ledger"
	"github.com/magabrotheeeer/worklog-ledger/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы на добавление платежа.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики учёта
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс добавления платежа.
type Service interface {
	AddPayment(ctx context.Context, username string, month, year int, req models.DummyPayment) (*models.Payment, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить платёж
// @Description Регистрирует платёж по записи месяца и возвращает его идентификатор и метку времени.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param year path int true "Год записи"
// @Param month path int true "Месяц записи"
// @Param request body models.DummyPayment true "Сумма и тип платежа"
// @Success 200 {object} response.OKResponse "Добавленный платёж"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, год или месяц"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /records/{year}/{month}/payments [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.add"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPayment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

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

	payment, err := h.service.AddPayment(r.Context(), username, month, year, req)
	if err != nil {
		switch {
		case errors.Is(err, workmonth.ErrMonthOutOfRange), errors.Is(err, workmonth.ErrYearOutOfRange):
			log.Error("month key out of range", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrInvalidPaymentType):
			log.Error("invalid payment values", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, repository.ErrRecordNotFound):
			log.Error("record not found", slog.String("month", workmonth.Label(month, year)))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("record not found"))
		default:
			log.Error("failed to add payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not add payment"))
		}
		return
	}

	log.Info("success to add payment",
		slog.String("month", workmonth.Label(month, year)),
		slog.Int64("amount_cents", payment.AmountCents))
	render.JSON(w, r, response.OKWithData(payment))
}
