package http

import (
	"context"
	"net/http"
	"strings"
)

// Clé privée pour le contexte (évite les collisions entre packages).
type contextKey struct{ name string }

var userCtxKey = &contextKey{"user_id"}

// authMiddleware décode le header Authorization et valide le token.
// Pas de header : on laisse passer (signup/login/profil public) ; les
// routes protégées réclament l'identité via requireAuth.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			http.Error(w, "Invalid token format", http.StatusUnauthorized)
			return
		}

		userID, err := s.Identity.ValidateToken(r.Context(), tokenStr)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ForContext récupère l'ID utilisateur injecté par le middleware.
func ForContext(ctx context.Context) string {
	raw, _ := ctx.Value(userCtxKey).(string)
	return raw
}

// requireAuth borne les handlers protégés : le coeur reçoit toujours un
// actor id déjà authentifié, jamais une session.
func (s *Server) requireAuth(next func(w http.ResponseWriter, r *http.Request, userID string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := ForContext(r.Context())
		if userID == "" {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		next(w, r, userID)
	}
}
