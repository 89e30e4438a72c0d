package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hrkit/chartbot/pkg/models"
)

const principalKey = "principal"

// principalMiddleware builds the request principal from proxy headers.
// Authentication itself happens upstream (oauth2-proxy or the HR portal's
// session layer); this service trusts the forwarded identity headers:
//
//	X-User-ID        required, numeric account id
//	X-Username       optional display name
//	X-Employee-ID    optional linked employee record (absent for guests)
//	X-User-Staff     optional "true"/"false"
//	X-User-Superuser optional "true"/"false"
//	X-Tenant-ID      optional company id for multi-tenant deployments
func principalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseInt(c.GetHeader("X-User-ID"), 10, 64)
		if err != nil || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid X-User-ID header"})
			return
		}

		principal := models.Principal{
			UserID:      userID,
			Username:    c.GetHeader("X-Username"),
			IsStaff:     c.GetHeader("X-User-Staff") == "true",
			IsSuperuser: c.GetHeader("X-User-Superuser") == "true",
			TenantID:    c.GetHeader("X-Tenant-ID"),
		}

		if raw := c.GetHeader("X-Employee-ID"); raw != "" {
			employeeID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || employeeID <= 0 {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid X-Employee-ID header"})
				return
			}
			principal.EmployeeID = models.EmployeeID(employeeID)
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// currentPrincipal returns the principal set by principalMiddleware.
func currentPrincipal(c *gin.Context) models.Principal {
	return c.MustGet(principalKey).(models.Principal)
}
