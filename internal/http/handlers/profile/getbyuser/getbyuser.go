// Package getbyuser реализует HTTP-обработчик чтения профиля другого пользователя.
//
// Чтение чужого профиля доступно только администратору.
package getbyuser

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/worklog-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/worklog-ledger/internal/http/response"
	"github.com/magabrotheeeer/worklog-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/worklog-ledger/internal/models"
	"github.com/magabrotheeeer/worklog-ledger/internal/services/access"
)

// Handler обрабатывает HTTP-запросы чтения профиля по имени пользователя.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики профилей
}

// Service описывает интерфейс чтения чужого профиля.
type Service interface {
	GetFor(ctx context.Context, caller, target string) (*models.UserProfile, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить профиль пользователя
// @Description Возвращает профиль указанного пользователя. Чужой профиль доступен только администратору.
// @Tags Profiles
// @Produce  json
// @Param username path string true "Имя пользователя"
// @Success 200 {object} response.OKResponse "Профиль или пустые данные"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /profiles/{username} [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.getbyuser"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || caller == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	target := chi.URLParam(r, "username")
	if target == "" {
		log.Error("empty target username")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid username"))
		return
	}

	result, err := h.service.GetFor(r.Context(), caller, target)
	if err != nil {
		if errors.Is(err, access.ErrUnauthorized) {
			log.Error("foreign profile access denied", slog.String("caller", caller))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
			return
		}
		log.Error("failed to read profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read profile"))
		return
	}

	render.JSON(w, r, response.OKWithData(result))
}
