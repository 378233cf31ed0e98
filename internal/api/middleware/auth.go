package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-ClinicBoxService/internal/api/handlers"
)

const (
	HeaderUserID = "X-User-ID"
	HeaderOrgID  = "X-Org-ID"

	msgMissingIdentity = "отсутствуют заголовки X-User-ID и X-Org-ID"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	orgIDKey  contextKey = "orgID"
)

// Auth требует идентификаторы пользователя и организации в заголовках
// и кладёт их в контекст запроса. Аутентификация выполняется снаружи сервиса.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		orgID := strings.TrimSpace(r.Header.Get(HeaderOrgID))
		if userID == "" || orgID == "" {
			handlers.RespondUnauthorized(w, msgMissingIdentity)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), userID, orgID)))
	})
}

// GetUserID возвращает ID пользователя, положенный Auth
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetOrgID возвращает ID организации, положенный Auth
func GetOrgID(ctx context.Context) (string, bool) {
	orgID, ok := ctx.Value(orgIDKey).(string)
	return orgID, ok && orgID != ""
}

// WithIdentity кладёт идентификаторы в контекст так же, как Auth
func WithIdentity(ctx context.Context, userID, orgID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, orgIDKey, orgID)
}
