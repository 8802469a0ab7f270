package handler

import (
	"otp-verify/config"
	"otp-verify/controller"
	_ "otp-verify/docs" // swagger docs
	"otp-verify/pkg/logger"
	"otp-verify/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RegisterRoutes registers all HTTP routes and middleware
func RegisterRoutes(
	e *echo.Echo,
	otpController *controller.OTPController,
	emailOTPController *controller.EmailOTPController,
	userController *controller.UserController,
	authController *controller.AuthController,
	blockController *controller.BlockController,
	healthController *controller.HealthController,
	jwtService service.JWTService,
	cfg *config.Config,
	logger *logger.Logger,
) {
	e.Use(middleware.Recover())
	e.Use(CORSMiddleware())
	e.Use(RequestLoggerMiddleware(logger))
	e.Use(JWTMiddleware(jwtService, logger))

	// System endpoints
	e.GET("/health", healthController.HealthCheck)
	e.GET("/", healthController.ServiceInfo)

	// Swagger documentation
	if cfg.Swagger.Enabled {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	v1 := e.Group("/api/v1")

	// OTP routes (public)
	otpGroup := v1.Group("/otp")
	otpGroup.POST("/send", otpController.SendOTP)
	otpGroup.POST("/verify", otpController.VerifyOTP)

	emailGroup := v1.Group("/email-otp")
	emailGroup.POST("/send", emailOTPController.SendEmailOTP)
	emailGroup.POST("/verify", emailOTPController.VerifyEmailOTP)

	// User routes (protected)
	userGroup := v1.Group("/users")
	userGroup.GET("/:id", userController.GetUser)
	userGroup.GET("", userController.ListUsers)

	// Auth routes (protected)
	authGroup := v1.Group("/auth")
	authGroup.POST("/logout", authController.Logout)

	// Operations surface, guarded by the internal API key
	internalGroup := e.Group("/internal", InternalKeyMiddleware(cfg, logger))
	internalGroup.POST("/blocks", blockController.AddBlock)
	internalGroup.DELETE("/blocks", blockController.RemoveBlock)
}
