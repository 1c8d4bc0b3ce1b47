package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// Errores de autenticación; envuelven ErrUnauthorized/ErrForbidden con un código propio.
var (
	errMissingToken = fmt.Errorf("token requerido: %w", domain.ErrUnauthorized)
	errInvalidToken = fmt.Errorf("token inválido o expirado: %w", domain.ErrUnauthorized)
	errMissingRole  = fmt.Errorf("el token no incluye un rol: %w", domain.ErrForbidden)
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorTable traduce errores de dominio a HTTP. El orden importa: gana la primera coincidencia.
var errorTable = []errorMapping{
	{domain.ErrMissingRequiredField, fiber.StatusBadRequest, "MISSING_FIELD"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrCodeRequired, fiber.StatusBadRequest, "CODE_REQUIRED"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
	{errMissingToken, fiber.StatusUnauthorized, "MISSING_TOKEN"},
	{errInvalidToken, fiber.StatusUnauthorized, "INVALID_TOKEN"},
	{errMissingRole, fiber.StatusForbidden, "MISSING_ROLE"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrLoanNotFound, fiber.StatusNotFound, "LOAN_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrAlreadyActive, fiber.StatusConflict, "ALREADY_ACTIVE"},
	{domain.ErrNotActive, fiber.StatusConflict, "NOT_ACTIVE"},
	{domain.ErrLotReferenced, fiber.StatusConflict, "LOT_REFERENCED"},
	{domain.ErrAlreadyFinalized, fiber.StatusConflict, "ALREADY_FINALIZED"},
	{domain.ErrOverReturn, fiber.StatusConflict, "OVER_RETURN"},
}

// respondError escribe la respuesta para un error de dominio conocido.
// Cualquier otro error se devuelve para que lo atienda ErrorHandler (500).
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorTable {
		if !errors.Is(err, m.err) {
			continue
		}
		body := dto.ErrorResponse{Code: m.code, Message: err.Error()}
		var fe *domain.FieldError
		if errors.As(err, &fe) {
			body.Fields = map[string]string{fe.Field: fe.Err.Error()}
		}
		return c.Status(m.status).JSON(body)
	}
	return err
}

// ErrorHandler handler de errores de la app Fiber: errores de Fiber conservan su status,
// el resto es 500 y se registra sin exponer el detalle al cliente.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
		}
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
