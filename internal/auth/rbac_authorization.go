package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/internal/transport"
)

// RBACAuthorization gates routes on the permission table before the
// handler runs. Services repeat the check so non-HTTP callers are covered.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

// Require passes when the caller may perform at least one of actions.
func (ra *RBACAuthorization) Require(actions ...Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				ra.Logger.WarnContext(r.Context(), "authorization check failed: member not found in context")
				ra.HandleServiceError(w, r, internal.ErrInvalidToken)
				return
			}

			var lastErr error
			for _, action := range actions {
				if lastErr = Authorize(user, action); lastErr == nil {
					next.ServeHTTP(w, r)
					return
				}
			}

			ra.Logger.WarnContext(r.Context(), "access denied",
				"member_id", user.ID,
				"role", user.Role,
				"required_actions", actions)
			ra.HandleServiceError(w, r, lastErr)
		})
	}
}
