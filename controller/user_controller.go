package controller

import (
	"net/http"
	"strconv"

	"otp-verify/entity"
	"otp-verify/pkg/logger"
	"otp-verify/service"

	"github.com/labstack/echo/v4"
)

// UserController handles user-related HTTP requests
type UserController struct {
	userService service.UserService
	logger      *logger.Logger
}

// NewUserController creates a new user controller instance
func NewUserController(userService service.UserService, logger *logger.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

// GetUser retrieves a single user by id
// @Summary Get user
// @Description Get a user by ID
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Security BearerAuth
// @Success 200 {object} entity.UserResponse
// @Failure 400 {object} entity.ErrorResponse
// @Failure 404 {object} entity.ErrorResponse
// @Router /users/{id} [get]
func (c *UserController) GetUser(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id < 1 {
		return ctx.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "User id must be a positive integer",
		})
	}

	user, err := c.userService.GetByID(id)
	if err != nil {
		c.logger.Warnw("Failed to get user", "user_id", id, "error", err)
		return ctx.JSON(http.StatusNotFound, entity.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "User not found",
		})
	}

	return ctx.JSON(http.StatusOK, user)
}

// ListUsers retrieves a paginated user list with optional search
// @Summary List users
// @Description Get paginated list of users with optional phone search
// @Tags Users
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Phone number search"
// @Security BearerAuth
// @Success 200 {object} entity.UsersListResponse
// @Failure 500 {object} entity.ErrorResponse
// @Router /users [get]
func (c *UserController) ListUsers(ctx echo.Context) error {
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	pageSize, _ := strconv.Atoi(ctx.QueryParam("page_size"))
	search := ctx.QueryParam("search")

	list, err := c.userService.GetList(page, pageSize, search)
	if err != nil {
		c.logger.Errorw("Failed to list users", "error", err)
		return ctx.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Code:    "INTERNAL",
			Message: "Failed to list users",
		})
	}

	return ctx.JSON(http.StatusOK, list)
}
