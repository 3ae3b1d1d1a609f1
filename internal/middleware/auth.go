package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yukikurage/org-hierarchy-api/internal/constants"
	apierrors "github.com/yukikurage/org-hierarchy-api/internal/errors"
	"github.com/yukikurage/org-hierarchy-api/internal/logging"
)

// RequireAuth checks if the user is authenticated via session. The user id
// is stored on the gin context and added to the request logger.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		c.Set(constants.ContextKeyUserID, session.Get(constants.ContextKeyUserID))

		userID, ok := GetUserID(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		entry := logging.FromContext(ctx).WithFields(logrus.Fields{"user_id": userID})
		c.Request = c.Request.WithContext(logging.WithLogger(ctx, entry))
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, v != 0
	case uint:
		return uint64(v), v != 0
	case int64:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
