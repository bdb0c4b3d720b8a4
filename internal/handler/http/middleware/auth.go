package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timekeeping/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type employeeKey struct{}

// AuthRequired rejects requests without a verified access token and stores
// the employee_id claim, when present, in the request context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, jwt.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, jwt.ErrInvalidToken)
				return
			}

			ctx := r.Context()
			if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
				ctx = context.WithValue(ctx, employeeKey{}, employeeID)
				ctx = notification.WithActor(ctx, employeeID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// EmployeeID returns the caller's employee_id claim, or "" for tokens that
// are not bound to an employee.
func EmployeeID(ctx context.Context) string {
	id, _ := ctx.Value(employeeKey{}).(string)
	return id
}
