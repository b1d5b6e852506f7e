package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/escolardev/escolar/core/task"
	"github.com/escolardev/escolar/core/user"
)

// authMiddleware verifies the session cookie on every protected request.
// Stateless by design: no server-side session object, the token is re-checked
// per request.
func authMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := claimsFromCookie(ctx)
			if err != nil {
				return err
			}
			ctx.Set(contextClaimsKey, claims)
			return next(ctx)
		}
	}
}

// panelMiddleware gates a view on the centralized role check. This is the
// only place roles are compared; handlers never re-implement the policy.
func panelMiddleware(panel user.Panel) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if !user.Role(claims.Role).CanAccess(panel) {
				return errHTTPForbidden
			}
			return next(ctx)
		}
	}
}

// teacherOnlyMiddleware guards task mutations. Stricter than the teacher
// panel gate: admins may look, only teachers mutate (and the task service
// additionally requires ownership).
func teacherOnlyMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if user.Role(claims.Role) != user.RoleTeacher {
				return errHTTPForbidden
			}
			return next(ctx)
		}
	}
}

func actorFromClaims(claims *Claims) task.Actor {
	return task.Actor{DNI: claims.DNI, Role: user.Role(claims.Role)}
}
