package middleware

import (
	"log/slog"
	"net/http"

	"github.com/templui/mediafaves/internal/ctxkeys"
	"github.com/templui/mediafaves/internal/errs"
	"github.com/templui/mediafaves/internal/service"
)

// TokenHeader carries the session token on protected routes.
const TokenHeader = "x-auth-token"

// RequireToken resolves the token header to a live user and binds it to the
// request context. Anything short of that is answered with 401.
func RequireToken(authService *service.AuthService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(TokenHeader)
			if token == "" {
				writeMessage(w, http.StatusUnauthorized, "No token, authorization denied")
				return
			}

			user, err := authService.Authenticate(r.Context(), token)
			if err != nil {
				if errs.KindOf(err) == errs.KindUnauthorized {
					writeMessage(w, http.StatusUnauthorized, errs.Message(err))
					return
				}
				slog.Error("token check failed", "error", err, "request_id", ctxkeys.RequestID(r.Context()))
				writeMessage(w, http.StatusInternalServerError, "Server error")
				return
			}

			// Never expose the hash past the gate
			user.PasswordHash = ""

			next(w, r.WithContext(ctxkeys.WithUser(r.Context(), user)))
		}
	}
}
