package echomw

import (
	"github.com/labstack/echo/v4"

	"github.com/reoring/nsconnector/dsl"
	"github.com/reoring/nsconnector/middleware"
)

// ValidateJSON validates the request body against s, stores the decoded
// object in the request context, or responds with the issue payload when the
// body is rejected. A zero opt uses middleware.DefaultOptions.
func ValidateJSON(s *dsl.Schema, opt middleware.Options) echo.MiddlewareFunc {
	if opt == (middleware.Options{}) {
		opt = middleware.DefaultOptions()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m, rej := middleware.Validate(c.Request(), s, opt)
			if rej != nil {
				return c.JSON(rej.Status, rej.Payload())
			}
			c.SetRequest(c.Request().WithContext(middleware.ContextWithPayload(c.Request().Context(), m)))
			return next(c)
		}
	}
}

// GetPayload fetches the validated payload from echo.Context.
func GetPayload(c echo.Context) (map[string]any, bool) {
	return middleware.PayloadFromContext(c.Request().Context())
}
