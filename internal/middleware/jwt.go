package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/kado/internal/pkg/errcode"
	"github.com/xxxsen/kado/internal/pkg/jwt"
	"github.com/xxxsen/kado/internal/pkg/response"
)

const (
	ContextStaffIDKey    = "staff_id"
	ContextStaffEmailKey = "staff_email"
)

func JWTAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, errcode.ErrUnauthorized, "missing authorization")
			c.Abort()
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Error(c, errcode.ErrUnauthorized, "invalid authorization")
			c.Abort()
			return
		}
		claims, err := jwt.ParseToken(strings.TrimSpace(token), secret)
		if err != nil {
			response.Error(c, errcode.ErrUnauthorized, "invalid token")
			c.Abort()
			return
		}
		c.Set(ContextStaffIDKey, claims.StaffID)
		if claims.Email != "" {
			c.Set(ContextStaffEmailKey, claims.Email)
		}
		c.Next()
	}
}
