// Package getrole реализует HTTP-обработчик чтения эффективной роли вызывающего.
package getrole

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/worklog-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/worklog-ledger/internal/http/response"
	"github.com/magabrotheeeer/worklog-ledger/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы чтения роли.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис контроля доступа
}

// Service описывает интерфейс чтения эффективной роли.
type Service interface {
	Role(ctx context.Context, username string) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить роль вызывающего
// @Description Возвращает эффективную роль вызывающего. Неизвестный пользователь считается гостем.
// @Tags Access
// @Produce  json
// @Success 200 {object} map[string]any "Роль вызывающего"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /access/role [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.getrole"
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

	role, err := h.service.Role(r.Context(), username)
	if err != nil {
		log.Error("failed to resolve role", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not resolve role"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"role": role,
	}))
}
