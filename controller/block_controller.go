package controller

import (
	"net/http"
	"time"

	"otp-verify/entity"
	"otp-verify/pkg/logger"
	"otp-verify/repository"
	"otp-verify/validator"

	"github.com/labstack/echo/v4"
)

// BlockController manages the fraud block list. Its routes sit behind the
// internal-key middleware and are meant for the operations surface, not
// end users.
type BlockController struct {
	blockRepo repository.BlockRepository
	validator *validator.Validator
	logger    *logger.Logger
}

// NewBlockController creates a new block controller instance
func NewBlockController(blockRepo repository.BlockRepository, validator *validator.Validator, logger *logger.Logger) *BlockController {
	return &BlockController{
		blockRepo: blockRepo,
		validator: validator,
		logger:    logger,
	}
}

// AddBlock blocks a subject or device
// @Summary Block a subject or device
// @Description Add a phone/email or device id to the fraud block list
// @Tags Internal
// @Accept json
// @Produce json
// @Param request body entity.BlockRequest true "Block Request"
// @Success 200 {object} map[string]string
// @Failure 400 {object} entity.ErrorResponse
// @Router /internal/blocks [post]
func (c *BlockController) AddBlock(ctx echo.Context) error {
	req, ok := c.bind(ctx)
	if !ok {
		return nil
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second

	var blockErr error
	if req.Kind == "device" {
		blockErr = c.blockRepo.BlockDevice(req.Value, req.Reason, ttl)
	} else {
		blockErr = c.blockRepo.BlockSubject(req.Value, req.Reason, ttl)
	}
	if blockErr != nil {
		c.logger.Errorw("Failed to add block", "kind", req.Kind, "value", req.Value, "error", blockErr)
		return ctx.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Code:    "INTERNAL",
			Message: "Failed to add block",
		})
	}

	c.logger.Infow("Block added", "kind", req.Kind, "value", req.Value, "reason", req.Reason)
	return ctx.JSON(http.StatusOK, map[string]string{"message": "blocked"})
}

// RemoveBlock unblocks a subject or device
// @Summary Unblock a subject or device
// @Description Remove a phone/email or device id from the fraud block list
// @Tags Internal
// @Accept json
// @Produce json
// @Param request body entity.BlockRequest true "Unblock Request"
// @Success 200 {object} map[string]string
// @Failure 400 {object} entity.ErrorResponse
// @Router /internal/blocks [delete]
func (c *BlockController) RemoveBlock(ctx echo.Context) error {
	req, ok := c.bind(ctx)
	if !ok {
		return nil
	}

	var unblockErr error
	if req.Kind == "device" {
		unblockErr = c.blockRepo.UnblockDevice(req.Value)
	} else {
		unblockErr = c.blockRepo.UnblockSubject(req.Value)
	}
	if unblockErr != nil {
		c.logger.Errorw("Failed to remove block", "kind", req.Kind, "value", req.Value, "error", unblockErr)
		return ctx.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Code:    "INTERNAL",
			Message: "Failed to remove block",
		})
	}

	c.logger.Infow("Block removed", "kind", req.Kind, "value", req.Value)
	return ctx.JSON(http.StatusOK, map[string]string{"message": "unblocked"})
}

// bind decodes and validates the request, writing the 400 response itself
// when the input is unusable
func (c *BlockController) bind(ctx echo.Context) (*entity.BlockRequest, bool) {
	var req entity.BlockRequest

	if err := ctx.Bind(&req); err != nil {
		_ = ctx.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "Invalid request format",
		})
		return nil, false
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		_ = ctx.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		})
		return nil, false
	}

	return &req, true
}
