package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/hrportal/leave-backend-go/internal/domain/employee"
	"github.com/hrportal/leave-backend-go/internal/handler/http/response"
)

// requireRole is a thin claims check; authorization policy itself
// lives outside this service.
func requireRole(roles ...employee.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Forbidden(w, "Insufficient permissions")
				return
			}

			roleStr, ok := claims["role"].(string)
			if !ok {
				response.Forbidden(w, "Insufficient permissions")
				return
			}

			role := employee.Role(roleStr)
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "Insufficient permissions")
		})
	}
}

// RequireDirector requires the director role
func RequireDirector(next http.Handler) http.Handler {
	return requireRole(employee.RoleDirector)(next)
}

// RequireDepartmentHead requires the department head role
func RequireDepartmentHead(next http.Handler) http.Handler {
	return requireRole(employee.RoleDepartmentHead)(next)
}

// RequireHR requires the hr role
func RequireHR(next http.Handler) http.Handler {
	return requireRole(employee.RoleHR)(next)
}

// RequireApprover requires either approver role
func RequireApprover(next http.Handler) http.Handler {
	return requireRole(employee.RoleDirector, employee.RoleDepartmentHead)(next)
}
