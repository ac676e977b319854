// Package initialize реализует HTTP-обработчик первичной настройки доступа.
//
// Handler назначает вызывающего администратором, если администраторов
// в системе ещё нет. Повторные вызовы идемпотентны и ничего не меняют.
package initialize

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

// Handler обрабатывает HTTP-запросы первичной настройки доступа.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис контроля доступа
}

// Service описывает интерфейс первичного назначения администратора.
type Service interface {
	Initialize(ctx context.Context, caller string) (bool, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Первичная настройка доступа
// @Description Назначает вызывающего администратором, только если администраторов ещё нет. Идемпотентна.
// @Tags Access
// @Produce  json
// @Success 200 {object} map[string]any "Результат инициализации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /access/initialize [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.initialize"
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

	promoted, err := h.service.Initialize(r.Context(), username)
	if err != nil {
		log.Error("failed to initialize access", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not initialize access"))
		return
	}

	log.Info("access initialization finished",
		slog.String("username", username), slog.Bool("promoted", promoted))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"promoted": promoted,
	}))
}
