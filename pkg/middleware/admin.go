package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ibquestionbank/questionbank/pkg/metrics"
)

// AdminPasswordHeader carries the shared admin secret on write requests.
const AdminPasswordHeader = "x-admin-password"

// AdminPassword returns a Gin middleware that only lets a request through when
// the AdminPasswordHeader equals secret. The comparison is constant-time. An
// empty secret rejects every request, so a deployment without ADMIN_PASSWORD
// is read-only.
func AdminPassword(secret string) gin.HandlerFunc {
	want := []byte(secret)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(AdminPasswordHeader))
		if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			metrics.AdminAuthFailures.Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Incorrect password"})
			return
		}
		c.Next()
	}
}
