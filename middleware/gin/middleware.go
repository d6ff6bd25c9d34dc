package ginmw

import (
	"github.com/gin-gonic/gin"

	"github.com/reoring/nsconnector/dsl"
	"github.com/reoring/nsconnector/middleware"
)

// ValidateJSON validates the request body against s, stores the decoded
// object in the request context, and aborts with the issue payload when the
// body is rejected. A zero opt uses middleware.DefaultOptions.
func ValidateJSON(s *dsl.Schema, opt middleware.Options) gin.HandlerFunc {
	if opt == (middleware.Options{}) {
		opt = middleware.DefaultOptions()
	}
	return func(c *gin.Context) {
		m, rej := middleware.Validate(c.Request, s, opt)
		if rej != nil {
			c.AbortWithStatusJSON(rej.Status, rej.Payload())
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithPayload(c.Request.Context(), m))
		c.Next()
	}
}

// GetPayload fetches the validated payload from gin.Context.
func GetPayload(c *gin.Context) (map[string]any, bool) {
	return middleware.PayloadFromContext(c.Request.Context())
}
