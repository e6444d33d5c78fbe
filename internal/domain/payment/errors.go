package payment

import "family-dues-go/internal/apperr"

var (
	ErrPaymentNotFound    = apperr.NotFound("pago no encontrado")
	ErrFamilyRequired     = apperr.BadRequest("la familia es obligatoria")
	ErrInvalidConcept     = apperr.BadRequest("concepto inválido, use CUOTA o CFA")
	ErrRequestIDCollision = apperr.Conflict("la solicitud ya fue procesada sin generar un pago")
)
