package controller

import (
	"net/http"
	"strings"

	"otp-verify/entity"
	"otp-verify/pkg/logger"
	"otp-verify/service"

	"github.com/labstack/echo/v4"
)

// AuthController handles authentication-related operations
type AuthController struct {
	jwtService service.JWTService
	logger     *logger.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(jwtService service.JWTService, logger *logger.Logger) *AuthController {
	return &AuthController{
		jwtService: jwtService,
		logger:     logger,
	}
}

// Logout revokes the caller's session, or every session with logout_all
// @Summary Logout user
// @Description Logout user and revoke JWT token from the Redis session store
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body entity.LogoutRequest false "Logout options"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} entity.ErrorResponse
// @Failure 500 {object} entity.ErrorResponse
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx echo.Context) error {
	authHeader := ctx.Request().Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ctx.JSON(http.StatusUnauthorized, entity.ErrorResponse{
			Code:    "UNAUTHORIZED",
			Message: "Missing or malformed Authorization header",
		})
	}
	tokenString := authHeader[7:]

	var req entity.LogoutRequest
	if err := ctx.Bind(&req); err != nil {
		// The body is optional
		req = entity.LogoutRequest{}
	}

	token, err := c.jwtService.ValidateToken(tokenString)
	if err != nil {
		c.logger.Warnw("Failed to validate token for logout", "error", err)
		return ctx.JSON(http.StatusUnauthorized, entity.ErrorResponse{
			Code:    "UNAUTHORIZED",
			Message: "Invalid token",
		})
	}

	user, err := c.jwtService.GetUserFromToken(token)
	if err != nil {
		c.logger.Errorw("Failed to get user from token", "error", err)
		return ctx.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Code:    "INTERNAL",
			Message: "Failed to process logout",
		})
	}

	if req.LogoutAll {
		if err := c.jwtService.RevokeAllUserTokens(user.ID); err != nil {
			c.logger.Errorw("Failed to revoke all user tokens", "user_id", user.ID, "error", err)
			return ctx.JSON(http.StatusInternalServerError, entity.ErrorResponse{
				Code:    "INTERNAL",
				Message: "Failed to logout from all devices",
			})
		}
		c.logger.Infow("User logged out from all devices", "user_id", user.ID)
		return ctx.JSON(http.StatusOK, map[string]string{
			"message": "Successfully logged out from all devices",
		})
	}

	if err := c.jwtService.RevokeToken(tokenString); err != nil {
		c.logger.Errorw("Failed to revoke token", "user_id", user.ID, "error", err)
		return ctx.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Code:    "INTERNAL",
			Message: "Failed to logout",
		})
	}
	c.logger.Infow("User logged out", "user_id", user.ID)
	return ctx.JSON(http.StatusOK, map[string]string{
		"message": "Successfully logged out",
	})
}
