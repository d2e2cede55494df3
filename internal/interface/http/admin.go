package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const adminPasswordHeader = "X-Admin-Password"

// adminMiddleware gates mutating endpoints behind a shared admin password,
// compared against the configured bcrypt hash.
func adminMiddleware(passwordHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		password := c.GetHeader(adminPasswordHeader)
		if password == "" {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing admin password", nil))
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid admin password", nil))
			return
		}
		c.Next()
	}
}
