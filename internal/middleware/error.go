package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"freight-cost-approval/internal/domain"
)

type ErrorResponse struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Fields  domain.FieldErrors `json:"fields,omitempty"`
	TraceID string             `json:"trace_id,omitempty"`
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	traceID := uuid.New().String()[:8]
	resp := ErrorResponse{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		TraceID: traceID,
	}
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	var verr *domain.ValidationError

	switch {
	case errors.As(err, &fe):
		code = fe.Code
		resp.Message = fe.Message
		resp.Code = codeForStatus(code)
	case errors.As(err, &verr):
		code = fiber.StatusUnprocessableEntity
		resp.Code = "VALIDATION_ERROR"
		resp.Message = "Validation failed"
		resp.Fields = verr.Fields
	case errors.Is(err, domain.ErrUnauthorized):
		code = fiber.StatusForbidden
		resp.Code = "FORBIDDEN"
		resp.Message = "Insufficient permissions for this operation"
	case errors.Is(err, domain.ErrInvalidTransition):
		code = fiber.StatusConflict
		resp.Code = "INVALID_TRANSITION"
		resp.Message = "Cost request has already been resolved"
	case errors.Is(err, domain.ErrNotFound):
		code = fiber.StatusNotFound
		resp.Code = "NOT_FOUND"
		resp.Message = "Resource not found"
	case errors.Is(err, domain.ErrStorage):
		code = fiber.StatusBadGateway
		resp.Code = "STORAGE_ERROR"
		resp.Message = "Storage is unavailable, please retry"
	}

	if code >= fiber.StatusInternalServerError {
		log.Printf("[%s] %s %s: %v", traceID, c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(resp)
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusForbidden, message)
}

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, message)
}

func Conflict(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusConflict, message)
}
