package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// respondDomainError traduce errores de dominio a respuestas HTTP estructuradas,
// incluyendo el campo ofensivo cuando se conoce. Nada se traga en silencio:
// lo no reconocido sale como 500 con el mensaje original.
func respondDomainError(c *fiber.Ctx, err error) error {
	var refErr *domain.ReferenceError
	if errors.As(err, &refErr) {
		if errors.Is(refErr, domain.ErrInactiveReference) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Code: "INACTIVE_REFERENCE", Message: refErr.Error(), Field: refErr.Field,
			})
		}
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code: "UNKNOWN_REFERENCE", Message: refErr.Error(), Field: refErr.Field,
		})
	}

	var dupErr *domain.DuplicateDocumentError
	if errors.As(err, &dupErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "DUPLICATE_DOCUMENT", Message: dupErr.Error(), Field: "record_no",
		})
	}

	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK", Message: stockErr.Error(),
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrContention):
		// Transitorio: el cliente debe reintentar la operación completa.
		return c.Status(fiber.StatusLocked).JSON(dto.ErrorResponse{Code: "CONTENTION", Message: err.Error()})
	case errors.Is(err, domain.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORAGE_UNAVAILABLE", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
