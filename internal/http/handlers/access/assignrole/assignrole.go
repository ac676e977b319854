// Package assignrole реализует HTTP-обработчик назначения роли пользователю.
//
// Handler принимает имя целевого пользователя и новую роль, проверяет,
// что вызывающий является администратором, и переназначает роль.
package assignrole

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
	"github.com/magabrotheeeer/worklog-ledger/internal/services/access"
	"github.com/magabrotheeeer/worklog-ledger/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы на назначение роли.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис контроля доступа
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс назначения роли.
type Service interface {
	AssignRole(ctx context.Context, caller, target, role string) error
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
// @Summary Назначить роль пользователю
// @Description Переназначает роль целевого пользователя. Доступно только администратору.
// @Tags Access
// @Accept  json
// @Produce  json
// @Param request body models.DummyAssignRole true "Целевой пользователь и роль"
// @Success 200 {object} map[string]any "Роль назначена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неизвестная роль"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Вызывающий не администратор"
// @Failure 404 {object} response.ErrorResponse "Целевой пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /access/roles [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.assignrole"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyAssignRole
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

	caller, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || caller == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.AssignRole(r.Context(), caller, req.Username, req.Role); err != nil {
		switch {
		case errors.Is(err, access.ErrUnauthorized):
			log.Error("caller is not an admin", slog.String("caller", caller))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("only admin can assign roles"))
		case errors.Is(err, access.ErrUnknownRole):
			log.Error("unknown role", slog.String("role", req.Role))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown role"))
		case errors.Is(err, repository.ErrUserNotFound):
			log.Error("target user not found", slog.String("target", req.Username))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to assign role", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not assign role"))
		}
		return
	}

	log.Info("success to assign role",
		slog.String("target", req.Username), slog.String("role", req.Role))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"username": req.Username,
		"role":     req.Role,
	}))
}
