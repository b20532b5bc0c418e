package response

import "github.com/gin-gonic/gin"

// CredentialsMessage is the single body returned for every authentication
// failure, whatever the underlying cause, so clients cannot distinguish a
// bad signature from an expired or malformed token.
const CredentialsMessage = "could not validate credentials"

// Detail writes the error envelope used across the API: {"detail": message}.
func Detail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"detail": message})
}

// Unauthorized writes the uniform 401 with the bearer challenge header.
func Unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	Detail(c, 401, message)
}
