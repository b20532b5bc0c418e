package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"tripcraft/internal/pkg/jwtutil"
	"tripcraft/internal/repository"
	"tripcraft/internal/transport/http/response"
)

// ContextUserKey holds the authenticated *model.User in the gin context.
const ContextUserKey = "current_user"

// BearerAuth resolves the Authorization header into the acting user. Every
// failure path aborts with the same 401 body and WWW-Authenticate header.
func BearerAuth(secret string, userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			abortUnauthorized(c)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		userID, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		user, err := userRepo.GetByID(userID)
		if err != nil || user == nil {
			abortUnauthorized(c)
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	response.Unauthorized(c, response.CredentialsMessage)
	c.Abort()
}
