package middleware

import (
	"net/http"
	"strings"

	"github.com/vaughan-dsouza/BeSocial/internal/policy"
	"github.com/vaughan-dsouza/BeSocial/internal/utils"
)

// Authenticate resolves the bearer access token into the request's actor.
// Requests without an Authorization header continue as anonymous; a header
// that is present but unusable is rejected with 401.
func Authenticate(signer utils.Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(auth, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				utils.JSONError(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}

			token := strings.TrimSpace(parts[1])
			if token == "" {
				utils.JSONError(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}

			claims, err := signer.Verify(token)
			if err != nil {
				utils.JSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			// push actor into context
			ctx := utils.WithActor(r.Context(), policy.Actor{UserID: claims.SubjectInt()})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests. Mount it after Authenticate.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !utils.ActorFrom(r.Context()).Authenticated() {
			utils.JSONError(w, http.StatusUnauthorized, "authentication credentials were not provided")
			return
		}
		next.ServeHTTP(w, r)
	})
}
