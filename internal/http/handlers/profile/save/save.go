// Package save реализует HTTP-обработчик сохранения профиля вызывающего.
//
// Handler принимает JSON-запрос с именем и значениями по умолчанию,
// валидирует их и атомарно сохраняет все поля профиля через сервис.
package save

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
	"github.com/magabrotheeeer/worklog-ledger/internal/models"
	"github.com/magabrotheeeer/worklog-ledger/internal/services/profile"
)

// Handler обрабатывает HTTP-запросы на сохранение профиля.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики профилей
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс сохранения профиля.
type Service interface {
	Save(ctx context.Context, username string, req models.DummyProfile) error
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
// @Summary Сохранить профиль
// @Description Атомарно сохраняет имя и значения по умолчанию для ставки и надбавки.
// @Tags Profiles
// @Accept  json
// @Produce  json
// @Param request body models.DummyProfile true "Данные профиля"
// @Success 200 {object} map[string]any "Профиль сохранён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /profile [put]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.save"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyProfile
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

	if err := h.service.Save(r.Context(), username, req); err != nil {
		if errors.Is(err, profile.ErrNegativeCents) {
			log.Error("negative cents rejected")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("cents values must not be negative"))
			return
		}
		log.Error("failed to save profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save profile"))
		return
	}

	log.Info("success to save profile", slog.String("username", username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"username": username,
	}))
}
