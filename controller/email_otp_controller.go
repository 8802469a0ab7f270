package controller

import (
	"net/http"

	"otp-verify/entity"
	"otp-verify/pkg/logger"
	"otp-verify/pkg/otperr"
	"otp-verify/service"
	"otp-verify/validator"

	"github.com/labstack/echo/v4"
)

// EmailOTPController handles email-channel OTP HTTP requests. Unlike the
// phone controller its results are detailed: cooldowns and attempt budgets
// are reported explicitly.
type EmailOTPController struct {
	challengeService service.ChallengeService
	validator        *validator.Validator
	logger           *logger.Logger
}

// NewEmailOTPController creates a new email OTP controller instance
func NewEmailOTPController(challengeService service.ChallengeService, validator *validator.Validator, logger *logger.Logger) *EmailOTPController {
	return &EmailOTPController{
		challengeService: challengeService,
		validator:        validator,
		logger:           logger,
	}
}

// SendEmailOTP issues an email challenge
// @Summary Send email OTP
// @Description Generate and send OTP to the provided email address
// @Tags EmailOTP
// @Accept json
// @Produce json
// @Param request body entity.SendEmailOTPRequest true "Send Email OTP Request"
// @Success 200 {object} entity.EmailOTPResult
// @Failure 400 {object} entity.EmailOTPResult
// @Failure 429 {object} entity.EmailOTPResult
// @Router /email-otp/send [post]
func (c *EmailOTPController) SendEmailOTP(ctx echo.Context) error {
	var req entity.SendEmailOTPRequest

	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, entity.EmailOTPResult{
			Success: false,
			Error:   "Invalid request format",
		})
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		c.logger.Warnw("Email send validation failed", "error", err)
		return ctx.JSON(http.StatusBadRequest, entity.EmailOTPResult{
			Success: false,
			Error:   err.Error(),
		})
	}

	result, err := c.challengeService.Send(entity.EmailSubject(req.Email), req.Purpose, req.DeviceID)
	if err != nil {
		return c.failure(ctx, err)
	}

	c.logger.Infow("Email OTP sent", "email", entity.EmailSubject(req.Email).Key(), "purpose", req.Purpose)
	return ctx.JSON(http.StatusOK, entity.EmailOTPResult{
		Success:   true,
		ExpiresAt: &result.ExpiresAt,
		DebugCode: result.DebugCode,
	})
}

// VerifyEmailOTP checks a candidate code for an email challenge
// @Summary Verify email OTP
// @Description Verify OTP previously sent to an email address
// @Tags EmailOTP
// @Accept json
// @Produce json
// @Param request body entity.VerifyEmailOTPRequest true "Verify Email OTP Request"
// @Success 200 {object} entity.EmailOTPResult
// @Failure 400 {object} entity.EmailOTPResult
// @Failure 401 {object} entity.EmailOTPResult
// @Failure 429 {object} entity.EmailOTPResult
// @Router /email-otp/verify [post]
func (c *EmailOTPController) VerifyEmailOTP(ctx echo.Context) error {
	var req entity.VerifyEmailOTPRequest

	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, entity.EmailOTPResult{
			Success: false,
			Error:   "Invalid request format",
		})
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		c.logger.Warnw("Email verify validation failed", "error", err)
		return ctx.JSON(http.StatusBadRequest, entity.EmailOTPResult{
			Success: false,
			Error:   err.Error(),
		})
	}

	if _, err := c.challengeService.Verify(entity.EmailSubject(req.Email), req.Code, req.Purpose); err != nil {
		return c.failure(ctx, err)
	}

	c.logger.Infow("Email OTP verified", "email", entity.EmailSubject(req.Email).Key(), "purpose", req.Purpose)
	return ctx.JSON(http.StatusOK, entity.EmailOTPResult{Success: true})
}

func (c *EmailOTPController) failure(ctx echo.Context, err error) error {
	policyErr, ok := otperr.As(err)
	if !ok {
		c.logger.Errorw("Email OTP operation failed", "error", err)
		return ctx.JSON(http.StatusInternalServerError, entity.EmailOTPResult{
			Success: false,
			Error:   "Internal server error",
		})
	}

	result := entity.EmailOTPResult{
		Success: false,
		Error:   policyErr.Message,
	}

	switch policyErr.Kind {
	case otperr.KindResendTooSoon:
		result.CooldownMs = int64(policyErr.WaitSeconds) * 1000
		return ctx.JSON(http.StatusTooManyRequests, result)
	case otperr.KindRateLimited, otperr.KindTooManyAttempts:
		return ctx.JSON(http.StatusTooManyRequests, result)
	case otperr.KindCodeMismatch:
		remaining := policyErr.AttemptsRemaining
		result.AttemptsRemaining = &remaining
		return ctx.JSON(http.StatusUnauthorized, result)
	case otperr.KindNoActiveCode:
		return ctx.JSON(http.StatusBadRequest, result)
	case otperr.KindPhoneBlocked, otperr.KindDeviceBlocked:
		return ctx.JSON(http.StatusForbidden, result)
	case otperr.KindDeliveryFailed:
		return ctx.JSON(http.StatusServiceUnavailable, result)
	default:
		return ctx.JSON(http.StatusBadRequest, result)
	}
}
