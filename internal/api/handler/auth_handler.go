package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ygyuri/foodbank-management-system/config"
	"github.com/ygyuri/foodbank-management-system/internal/dto"
	"github.com/ygyuri/foodbank-management-system/internal/service"
	"github.com/ygyuri/foodbank-management-system/pkg/response"
)

const refreshCookie = "refresh_token"

// AuthHandler authentication endpoints.
type AuthHandler struct {
	authSvc service.AuthService
	cfg     *config.AuthConfig
}

// NewAuthHandler cfg may be nil, then the refresh cookie lives for the browser session.
func NewAuthHandler(authSvc service.AuthService, cfg *config.AuthConfig) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, cfg: cfg}
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, token, maxAge, "/api/v1/auth", "", c.Request.TLS != nil, true)
}

func (h *AuthHandler) cookieMaxAge() int {
	if h.cfg == nil {
		return 0
	}
	return int(h.cfg.RefreshTokenTTL.Seconds())
}

// Register
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, user)
}

// Login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, h.cookieMaxAge())
	response.OK(c, result)
}

// RefreshToken takes the refresh token from the body, falling back to the cookie.
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		cookie, cerr := c.Cookie(refreshCookie)
		if cerr != nil || cookie == "" {
			badParams(c, err)
			return
		}
		req.RefreshToken = cookie
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, h.cookieMaxAge())
	response.OK(c, result)
}

// Logout revokes the access token and, when supplied, the refresh token.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(refreshCookie)
	}

	jti, ttl := tokenInfo(c)
	if err := h.authSvc.Logout(c.Request.Context(), jti, ttl, req.RefreshToken); err != nil {
		handleError(c, err)
		return
	}

	h.setRefreshCookie(c, "", -1)
	response.OK(c, nil)
}

// GetCurrentUser
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.Me(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, user)
}
