package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ygyuri/foodbank-management-system/internal/model"
	"github.com/ygyuri/foodbank-management-system/internal/workflow"
	"github.com/ygyuri/foodbank-management-system/pkg/response"
)

// MustGetUserID reads user_id set by JWTAuth. On false a 401 is already written.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}

// MustGetRole reads role set by JWTAuth.
func MustGetRole(c *gin.Context) (model.Role, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, _ := v.(string)
	role := model.Role(s)
	if !role.Valid() {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return role, true
}

// MustGetActor the authenticated caller as the services expect it.
func MustGetActor(c *gin.Context) (workflow.Actor, bool) {
	id, ok := MustGetUserID(c)
	if !ok {
		return workflow.Actor{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return workflow.Actor{}, false
	}
	return workflow.Actor{ID: id, Role: role}, true
}

// uuidParam path parameter that must be a UUID. On false a 400 is already written.
func uuidParam(c *gin.Context, name string) (string, bool) {
	v := c.Param(name)
	if _, err := uuid.Parse(v); err != nil {
		badParams(c, fmt.Errorf("%s must be a UUID", name))
		return "", false
	}
	return v, true
}

// tokenInfo jti and remaining lifetime of the access token, for logout.
func tokenInfo(c *gin.Context) (string, time.Duration) {
	jti := c.GetString("token_jti")
	ttl, _ := c.Get("token_ttl")
	d, _ := ttl.(time.Duration)
	return jti, d
}
