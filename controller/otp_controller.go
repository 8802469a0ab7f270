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

// OTPController handles phone-channel OTP HTTP requests
type OTPController struct {
	challengeService service.ChallengeService
	jwtService       service.JWTService
	validator        *validator.Validator
	logger           *logger.Logger
}

// NewOTPController creates a new OTP controller instance
func NewOTPController(challengeService service.ChallengeService, jwtService service.JWTService, validator *validator.Validator, logger *logger.Logger) *OTPController {
	return &OTPController{
		challengeService: challengeService,
		jwtService:       jwtService,
		validator:        validator,
		logger:           logger,
	}
}

// SendOTP handles OTP generation and dispatch for a phone number
// @Summary Send OTP
// @Description Generate and send OTP to the provided phone number
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body entity.SendOTPRequest true "Send OTP Request"
// @Success 200 {object} entity.SendOTPResponse
// @Failure 400 {object} entity.ErrorResponse
// @Failure 403 {object} entity.ErrorResponse
// @Failure 429 {object} entity.ErrorResponse
// @Failure 503 {object} entity.ErrorResponse
// @Router /otp/send [post]
func (c *OTPController) SendOTP(ctx echo.Context) error {
	var req entity.SendOTPRequest

	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    string(otperr.KindInvalidPhone),
			Message: "Invalid request format",
		})
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		c.logger.Warnw("Send validation failed", "error", err)
		return ctx.JSON(http.StatusUnprocessableEntity, entity.ErrorResponse{
			Code:    string(otperr.KindInvalidPhone),
			Message: err.Error(),
		})
	}

	result, err := c.challengeService.Send(entity.PhoneSubject(req.PhoneNumber), entity.PurposeLogin, req.DeviceID)
	if err != nil {
		return c.sendFailure(ctx, req.PhoneNumber, err)
	}

	c.logger.Infow("OTP sent", "phone_number", req.PhoneNumber)
	return ctx.JSON(http.StatusOK, entity.SendOTPResponse{
		Message:     "Verification code sent",
		PhoneNumber: req.PhoneNumber,
		Channel:     result.Channel,
		ExpiresAt:   result.ExpiresAt,
		DebugCode:   result.DebugCode,
	})
}

// VerifyOTP handles OTP verification and authentication. Every failure mode
// collapses to the same 401 body so callers cannot probe which one occurred.
// @Summary Verify OTP
// @Description Verify OTP and authenticate user
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body entity.VerifyOTPRequest true "Verify OTP Request"
// @Success 200 {object} entity.VerifyOTPResponse
// @Failure 400 {object} entity.ErrorResponse
// @Failure 401 {object} entity.VerifyOTPResponse
// @Router /otp/verify [post]
func (c *OTPController) VerifyOTP(ctx echo.Context) error {
	var req entity.VerifyOTPRequest

	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    string(otperr.KindInvalidPhone),
			Message: "Invalid request format",
		})
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		c.logger.Warnw("Verify validation failed", "error", err)
		return ctx.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    string(otperr.KindInvalidPhone),
			Message: err.Error(),
		})
	}

	user, err := c.challengeService.Verify(entity.PhoneSubject(req.PhoneNumber), req.Code, entity.PurposeLogin)
	if err != nil {
		c.logger.Warnw("OTP verification failed", "phone_number", req.PhoneNumber, "kind", otperr.KindOf(err))
		return ctx.JSON(http.StatusUnauthorized, entity.VerifyOTPResponse{Success: false})
	}

	authResponse, err := c.jwtService.GenerateToken(user)
	if err != nil {
		c.logger.Errorw("Failed to generate JWT token", "user_id", user.ID, "error", err)
		return ctx.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Code:    string(otperr.KindServiceUnavailable),
			Message: "Failed to generate authentication token",
		})
	}

	c.logger.Infow("OTP verified", "user_id", user.ID, "phone_number", user.PhoneNumber)
	return ctx.JSON(http.StatusOK, entity.VerifyOTPResponse{
		Success:   true,
		Token:     authResponse.Token,
		User:      &authResponse.User,
		ExpiresAt: &authResponse.ExpiresAt,
	})
}

// sendFailure maps a policy error kind to an HTTP status and body. Raw
// error text from lower layers never reaches the client.
func (c *OTPController) sendFailure(ctx echo.Context, phoneNumber string, err error) error {
	kind := otperr.KindOf(err)
	c.logger.Warnw("OTP send refused", "phone_number", phoneNumber, "kind", kind, "error", err)

	policyErr, ok := otperr.As(err)
	if !ok {
		return ctx.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Code:    string(otperr.KindServiceUnavailable),
			Message: "Failed to send verification code",
		})
	}

	body := entity.ErrorResponse{
		Code:        string(policyErr.Kind),
		Message:     policyErr.Message,
		WaitSeconds: policyErr.WaitSeconds,
	}

	switch policyErr.Kind {
	case otperr.KindResendTooSoon, otperr.KindRateLimited:
		return ctx.JSON(http.StatusTooManyRequests, body)
	case otperr.KindPhoneBlocked, otperr.KindDeviceBlocked:
		return ctx.JSON(http.StatusForbidden, body)
	case otperr.KindInvalidPhone:
		return ctx.JSON(http.StatusUnprocessableEntity, body)
	case otperr.KindDeliveryFailed, otperr.KindServiceUnavailable:
		return ctx.JSON(http.StatusServiceUnavailable, body)
	default:
		return ctx.JSON(http.StatusInternalServerError, body)
	}
}
