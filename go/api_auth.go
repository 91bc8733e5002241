package posserver

import (
	"strings"

	"github.com/gin-gonic/gin"

	usersdomain "github.com/Apurer/go-pos-api-server/internal/domains/users/domain"
	usersports "github.com/Apurer/go-pos-api-server/internal/domains/users/ports"
	apierrors "github.com/Apurer/go-pos-api-server/internal/shared/errors"
)

const currentUserKey = "posserver.currentUser"

// bearerToken extracts the session token from the Authorization header.
func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return header
}

// authGuard resolves the session token to a staff account and attaches it to
// the request context. Requests without a valid session are rejected.
func authGuard(users usersports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("missing session token"))
			c.Abort()
			return
		}
		user, err := users.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("invalid or expired session"))
			c.Abort()
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// adminGuard rejects requests whose session does not belong to an admin.
func adminGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || user.Role != usersdomain.RoleAdmin {
			respondProblem(c, apierrors.ErrForbidden.WithDetail("admin role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// currentUser returns the authenticated staff account attached by authGuard.
func currentUser(c *gin.Context) *usersdomain.User {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*usersdomain.User)
	if !ok {
		return nil
	}
	return user
}

// cashierDisplayName prefers the full name on receipts, falling back to the username.
func cashierDisplayName(user *usersdomain.User) string {
	if user == nil {
		return ""
	}
	if user.FullName != "" {
		return user.FullName
	}
	return user.Username
}
