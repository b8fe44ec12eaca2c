package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"freight-cost-approval/internal/domain"
	"freight-cost-approval/internal/middleware"
	"freight-cost-approval/internal/service/user"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	u, err := h.userService.GetProfile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return middleware.NotFound("User not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(u)
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	var role *domain.UserRole
	if r := c.Query("role"); r != "" {
		parsed := domain.UserRole(r)
		if !parsed.IsValid() {
			return middleware.BadRequest("Invalid role")
		}
		role = &parsed
	}

	users, err := h.userService.List(c.Context(), role)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(users)
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validateInput(input); err != nil {
		return err
	}

	u, err := h.userService.Create(c.Context(), middleware.GetCurrentUser(c), input)
	if err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			return middleware.Conflict("Email already registered")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(u)
}
