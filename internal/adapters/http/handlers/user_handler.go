package handlers

import (
	"lendinghub/internal/core/domain"
	"lendinghub/internal/core/services"
	"lendinghub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// UserRequest represents register/update user request
type UserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

func (r UserRequest) toInput() *services.UserInput {
	return &services.UserInput{
		Name:  r.Name,
		Email: r.Email,
		Role:  domain.Role(r.Role),
	}
}

// Register handles user registration
// @Summary Register user
// @Description Register a new user. Role defaults to MEMBER.
// @Tags Users
// @Accept json
// @Produce json
// @Param body body UserRequest true "User data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users [post]
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req UserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.RegisterUser(c.Context(), req.toInput())
	if err != nil {
		return handleServiceError(c, err, "Failed to register user")
	}

	return response.Created(c, "User registered successfully", fiber.Map{
		"user": user,
	})
}

// GetUser handles getting a user by ID
// @Summary Get user by ID
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return handleServiceError(c, err, "")
	}

	user, err := h.userService.GetUser(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": user,
	})
}

// UpdateUser handles updating a user
// @Summary Update user
// @Description Replace name, email and role of a user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body UserRequest true "User data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return handleServiceError(c, err, "")
	}

	var req UserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateUser(c.Context(), id, req.toInput())
	if err != nil {
		return handleServiceError(c, err, "Failed to update user")
	}

	return response.Success(c, "User updated successfully", fiber.Map{
		"user": user,
	})
}

// GetLoans handles listing a user's lending history
// @Summary List user loans
// @Description All loans of a user, open and returned, newest first
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/loans [get]
func (h *UserHandler) GetLoans(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return handleServiceError(c, err, "")
	}

	loans, err := h.userService.ListUserLoans(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", fiber.Map{
		"loans": loans,
		"total": len(loans),
	})
}
