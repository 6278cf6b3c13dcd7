package middleware

import "github.com/labstack/echo/v4"

// identity returns the username placed in the context by JWTAuth, or
// "anonymous" for unauthenticated requests.
func identity(c echo.Context) string {
	if u, ok := c.Get(ctxUsername).(string); ok && u != "" {
		return u
	}
	return "anonymous"
}
