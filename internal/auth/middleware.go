package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/articlehub-be/internal/apperrors"
)

// CookieName is the cookie the login handler sets and the guard falls back to.
const CookieName = "token"

type contextKey string

const userClaimsKey = contextKey("userClaims")

// ErrorWriter renders an error response. The HTTP layer supplies one so that
// guard failures use the same envelope as handler failures.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// ClaimsFromContext returns the verified claims the guard stored for the request.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(userClaimsKey).(*Claims)
	return claims, ok
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, userClaimsKey, claims)
}

// TokenFromRequest extracts a bearer token from the Authorization header,
// falling back to the token cookie.
func TokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		scheme, token, ok := strings.Cut(authHeader, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Guard returns middleware enforcing req. Authentication is checked before
// authorization: a missing or bad token is 401, a valid token lacking the
// role is 403. An undeclared requirement panics here, at route construction.
func Guard(tokens *TokenService, req Requirement, writeErr ErrorWriter) func(http.Handler) http.Handler {
	if req.kind == undeclared {
		panic("auth: route registered without an access requirement")
	}
	return func(next http.Handler) http.Handler {
		if req.IsPublic() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := TokenFromRequest(r)
			if tokenStr == "" {
				writeErr(w, r, apperrors.ErrUnauthenticated)
				return
			}

			claims, err := tokens.Verify(tokenStr)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected access token")
				writeErr(w, r, PublicError(err))
				return
			}

			if req.kind == anyOf && !Authorize(req.roles, claims.Permissions) {
				log.Info().Str("user_id", claims.Subject).Str("path", r.URL.Path).
					Str("required", req.String()).Msg("Access denied")
				writeErr(w, r, apperrors.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
