package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Delandiluca/finly/internal/audit"
	"github.com/Delandiluca/finly/internal/models"
	"github.com/Delandiluca/finly/internal/tenant"
)

// AuthMiddleware returns a Gin middleware for authentication. It leaves
// the authenticated user id (and the selected organization id, when the
// token carries one) in the gin context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Status:  "error",
				Code:    "UNAUTHORIZED",
				Message: "Authentication required",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Status:  "error",
				Code:    "UNAUTHORIZED",
				Message: "Invalid token format",
			})
			c.Abort()
			return
		}

		jwtSecret := c.MustGet("jwtSecret").([]byte)
		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid signing method")
			}
			return jwtSecret, nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Status:  "error",
				Code:    "UNAUTHORIZED",
				Message: "Invalid token",
			})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Status:  "error",
				Code:    "UNAUTHORIZED",
				Message: "Invalid token claims",
			})
			c.Abort()
			return
		}

		userID, ok := claims["sub"].(string)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Status:  "error",
				Code:    "UNAUTHORIZED",
				Message: "Invalid user ID in token",
			})
			c.Abort()
			return
		}

		c.Set("userId", userID)

		// The org claim is only present after the caller selected an
		// organization; TenantMiddleware enforces it where required.
		if orgID, ok := claims["org"].(string); ok && orgID != "" {
			c.Set("orgId", orgID)
		}

		c.Next()
	}
}

// TenantMiddleware establishes the organization scope for everything
// downstream. Authenticated callers without a selected organization get
// a distinct outcome directing them to pick one; this is not an
// authentication failure.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := c.GetString("orgId")
		if orgID == "" {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Status:  "error",
				Code:    "NO_ORGANIZATION",
				Message: "Select an organization before accessing this resource",
			})
			c.Abort()
			return
		}

		ctx := tenant.NewContext(c.Request.Context(), tenant.Scope{
			OrganizationID: orgID,
			UserID:         c.GetString("userId"),
		})
		ctx = audit.WithOrigin(ctx, audit.Origin{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
