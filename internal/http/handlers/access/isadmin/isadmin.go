// Package isadmin реализует HTTP-обработчик проверки административных прав.
package isadmin

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

// Handler обрабатывает HTTP-запросы проверки прав администратора.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис контроля доступа
}

// Service описывает интерфейс проверки административных прав.
type Service interface {
	IsAdmin(ctx context.Context, username string) (bool, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверить права администратора
// @Description Сообщает, является ли вызывающий администратором.
// @Tags Access
// @Produce  json
// @Success 200 {object} map[string]any "Признак администратора"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /access/admin [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.isadmin"
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

	isAdmin, err := h.service.IsAdmin(r.Context(), username)
	if err != nil {
		log.Error("failed to check admin rights", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check admin rights"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"is_admin": isAdmin,
	}))
}
