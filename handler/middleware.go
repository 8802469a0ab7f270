package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"otp-verify/config"
	"otp-verify/entity"
	"otp-verify/pkg/logger"
	"otp-verify/service"

	"github.com/labstack/echo/v4"
)

// JWTMiddleware creates a JWT authentication middleware. OTP and system
// endpoints stay public; everything else needs a valid bearer token.
func JWTMiddleware(jwtService service.JWTService, logger *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if strings.HasPrefix(path, "/api/v1/otp/") ||
				strings.HasPrefix(path, "/api/v1/email-otp/") ||
				strings.HasPrefix(path, "/internal/") ||
				strings.HasPrefix(path, "/swagger") ||
				path == "/" ||
				path == "/health" {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				logger.Warnw("Missing Authorization header", "path", path)
				return c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
					Code:    "UNAUTHORIZED",
					Message: "Missing Authorization header",
				})
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				logger.Warnw("Invalid Authorization header format", "path", path)
				return c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
					Code:    "UNAUTHORIZED",
					Message: "Invalid Authorization header format",
				})
			}

			tokenString := authHeader[7:]

			token, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				logger.Warnw("Invalid JWT token", "path", path, "error", err)
				return c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
					Code:    "UNAUTHORIZED",
					Message: "Invalid or expired token",
				})
			}

			user, err := jwtService.GetUserFromToken(token)
			if err != nil {
				logger.Errorw("Failed to extract user from token", "path", path, "error", err)
				return c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
					Code:    "UNAUTHORIZED",
					Message: "Invalid token claims",
				})
			}

			c.Set("user", user)
			return next(c)
		}
	}
}

// InternalKeyMiddleware guards operations endpoints with a shared key
// passed in the X-Internal-Key header
func InternalKeyMiddleware(cfg *config.Config, logger *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			configured := cfg.Application.InternalAPIKey
			if configured == "" {
				logger.Warnw("Internal endpoint hit but no internal API key configured", "path", c.Request().URL.Path)
				return c.JSON(http.StatusForbidden, entity.ErrorResponse{
					Code:    "FORBIDDEN",
					Message: "Internal API disabled",
				})
			}

			provided := c.Request().Header.Get("X-Internal-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(configured)) != 1 {
				logger.Warnw("Invalid internal API key", "path", c.Request().URL.Path)
				return c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
					Code:    "UNAUTHORIZED",
					Message: "Invalid internal API key",
				})
			}

			return next(c)
		}
	}
}

// CORSMiddleware creates a CORS middleware
func CORSMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("Access-Control-Allow-Origin", "*")
			c.Response().Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, X-Internal-Key")

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}

// RequestLoggerMiddleware logs each request with its latency and status
func RequestLoggerMiddleware(logger *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			logger.Infow("HTTP request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"remote_addr", c.RealIP(),
				"latency_ms", time.Since(start).Milliseconds(),
			)

			return err
		}
	}
}
