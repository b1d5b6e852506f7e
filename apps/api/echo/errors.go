package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/escolardev/escolar/core"
	"github.com/escolardev/escolar/core/school"
	"github.com/escolardev/escolar/core/task"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errInvalidToken  = echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	errAccessDenied  = echo.NewHTTPError(http.StatusUnauthorized, "access denied")
	errHTTPForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHTTPNotFound  = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// newAppHTTPErrorHandler maps internal errors onto the four user-facing
// categories: form errors (400 with a field map), access denied (401),
// permission denied (403), not found (404). Everything else is an opaque 500;
// store and signature internals never reach the client.
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			switch origErr {
			case task.ErrNotFound, school.ErrClassroomNotFound, school.ErrSubjectNotFound:
				code = errHTTPNotFound.Code
				message = errHTTPNotFound.Message
			case task.ErrNotOwner:
				code = errHTTPForbidden.Code
				message = errHTTPForbidden.Message
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				var dni string
				if claims, cErr := getContextClaims(ctx); cErr == nil {
					dni = claims.DNI
				}
				logger.Error(msg, errors.Wrap(err, msg), map[string]interface{}{"dni": dni})
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
