package middleware

import (
	"net/http"

	"libreria-be/internal/auth"
	"libreria-be/internal/user"
	"libreria-be/internal/utils"
)

// AuthMiddleware populates the request context from a valid session token.
// Requests without a token (or with a bad one) pass through anonymous;
// per-route guards decide whether that is acceptable.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := auth.ExtractAccessToken(r)
		if tokenStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := user.ParseJWT(tokenStr)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin guards admin routes: 401 without a verified session, 403 for
// a session without the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
			utils.WriteJSONError(w, "authentication required", http.StatusUnauthorized)
			return
		}
		if utils.GetUserRoleFromContext(r.Context()) != utils.RoleAdmin {
			utils.WriteJSONError(w, "admin role required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
