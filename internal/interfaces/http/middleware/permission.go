package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/identity"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/interfaces/http/dto"
)

// RoleConfig holds configuration for the role guard
type RoleConfig struct {
	Logger *zap.Logger
}

// RequireAdmin allows only admin accounts through
func RequireAdmin() gin.HandlerFunc {
	return RequireRoleWithConfig(RoleConfig{}, identity.RoleAdmin)
}

// RequireRole allows users holding any of the roles through
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return RequireRoleWithConfig(RoleConfig{}, roles...)
}

// RequireRoleWithConfig is RequireRole with a logger for denials
func RequireRoleWithConfig(cfg RoleConfig, roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}

		if !slices.Contains(roles, identity.Role(claims.Role)) {
			if cfg.Logger != nil {
				cfg.Logger.Warn("Role check failed",
					zap.String("user_id", claims.UserID),
					zap.String("role", claims.Role),
					zap.String("path", c.Request.URL.Path),
				)
			}
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "Insufficient privileges", GetRequestID(c)))
			return
		}

		c.Next()
	}
}
