package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/jwt"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/redis"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/response"
)

// Context keys set by the auth middleware.
const (
	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxTokenID  = "token_id"
	CtxTokenExp = "token_exp"
)

// JWTAuth requires a valid access token in Authorization: Bearer <token>.
// Revoked tokens are rejected when rdb is available; without Redis the
// blacklist check is skipped.
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing authorization header")
			c.Abort()
			return
		}
		if !authenticate(c, jwtMgr, rdb, authHeader) {
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a token is supplied and lets
// anonymous requests through. A malformed or revoked token is still rejected.
func OptionalAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		if !authenticate(c, jwtMgr, rdb, authHeader) {
			return
		}
		c.Next()
	}
}

// authenticate parses the header and populates the context. It writes the
// 401 response and aborts on failure.
func authenticate(c *gin.Context, jwtMgr *jwt.Manager, rdb *redis.Client, authHeader string) bool {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		response.Unauthorized(c, 10002, "invalid authorization header")
		c.Abort()
		return false
	}

	claims, err := jwtMgr.ParseToken(parts[1])
	if err != nil {
		response.Unauthorized(c, 10002, "token invalid or expired")
		c.Abort()
		return false
	}
	if claims.TokenType != jwt.TokenTypeAccess {
		response.Unauthorized(c, 10002, "invalid token type")
		c.Abort()
		return false
	}

	if rdb != nil && claims.ID != "" {
		revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
		if err == nil && revoked {
			response.Unauthorized(c, 10002, "token revoked")
			c.Abort()
			return false
		}
	}

	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxRole, claims.Role)
	c.Set(CtxTokenID, claims.ID)
	if claims.ExpiresAt != nil {
		c.Set(CtxTokenExp, claims.ExpiresAt.Time)
	} else {
		c.Set(CtxTokenExp, time.Time{})
	}
	return true
}

// RoleAuth admits callers holding one of allowedRoles.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(CtxRole)
		if !exists {
			response.Unauthorized(c, 10002, "unauthenticated")
			c.Abort()
			return
		}

		userRole, _ := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "access denied")
		c.Abort()
	}
}
