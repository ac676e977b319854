// Package upsert реализует HTTP-обработчик создания и частичного
// обновления месячной записи вызывающего.
//
// Handler принимает JSON-запрос с часами, ставкой и надбавкой, валидирует
// его и передаёт сервису. Непереданные ставка и надбавка при создании
// берутся из профиля, при обновлении сохраняют прежние значения.
package upsert

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/worklog-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/worklog-ledger/internal/http/response"
	"github.com/magabrotheeeer/worklog-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/worklog-ledger/internal/lib/workmonth"
	"github.com/magabrotheeeer/worklog-ledger/internal/models"
	"github.com/magabrotheeeer/worklog-ledger/internal/services/ledger"
)

// Handler обрабатывает HTTP-запросы на создание и обновление записи.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики учёта
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс создания и обновления записи.
type Service interface {
	UpsertRecord(ctx context.Context, username string, req models.DummyRecord) (*models.MonthlyRecord, error)
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
// @Summary Создать или обновить запись месяца
// @Description Создает запись месяца или частично обновляет существующую. Возвращает итоговое состояние записи.
// @Tags Records
// @Accept  json
// @Produce  json
// @Param request body models.DummyRecord true "Данные записи месяца"
// @Success 200 {object} response.OKResponse "Итоговое состояние записи"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /records [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.record.upsert"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyRecord
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	record, err := h.service.UpsertRecord(r.Context(), username, req)
	if err != nil {
		switch {
		case errors.Is(err, workmonth.ErrMonthOutOfRange),
			errors.Is(err, workmonth.ErrYearOutOfRange),
			errors.Is(err, ledger.ErrInvalidHours),
			errors.Is(err, ledger.ErrInvalidRate),
			errors.Is(err, ledger.ErrInvalidAllowance):
			log.Error("invalid record values", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to upsert record", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not save record"))
		}
		return
	}

	log.Info("success to upsert record",
		slog.String("month", workmonth.Label(record.Month, record.Year)))
	render.JSON(w, r, response.OKWithData(record))
}
