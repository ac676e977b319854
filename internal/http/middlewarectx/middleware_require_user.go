package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/worklog-ledger/internal/http/response"
	"github.com/magabrotheeeer/worklog-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/worklog-ledger/internal/services/access"
)

// AccessService описывает интерфейс сервиса контроля доступа.
type AccessService interface {
	RequireUser(ctx context.Context, username string) error
}

// RequireUserMiddleware создает middleware, пропускающий только пользователей
// с ролью admin или user. Роль перечитывается из хранилища на каждом запросе,
// поэтому переназначение роли действует со следующего обращения.
func RequireUserMiddleware(accessService AccessService, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, ok := r.Context().Value(User).(string)
			if !ok || username == "" {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			if err := accessService.RequireUser(r.Context(), username); err != nil {
				if errors.Is(err, access.ErrUnauthorized) {
					log.Error("caller role does not permit access", slog.String("username", username))
					render.Status(r, http.StatusForbidden)
					render.JSON(w, r, response.Error("access denied"))
					return
				}
				log.Error("failed to resolve caller role", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
