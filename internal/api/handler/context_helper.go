package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/api/middleware"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/model"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/service"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/response"
)

// MustGetUserID extracts user_id set by JWTAuth. On failure it writes a 401
// and the caller should return.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.CtxUserID)
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	return s, true
}

// MustGetActor is MustGetUserID plus the caller's role.
func MustGetActor(c *gin.Context) (service.Actor, bool) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{UserID: uid, Role: model.Role(c.GetString(middleware.CtxRole))}, true
}

// ActorFrom returns the caller identified by OptionalAuth, or the anonymous actor.
func ActorFrom(c *gin.Context) service.Actor {
	return service.Actor{
		UserID: c.GetString(middleware.CtxUserID),
		Role:   model.Role(c.GetString(middleware.CtxRole)),
	}
}
