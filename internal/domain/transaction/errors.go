package transaction

import "family-dues-go/internal/apperr"

var (
	ErrTransactionNotFound = apperr.NotFound("transacción no encontrada")
	ErrInvalidAmount       = apperr.BadRequest("el monto debe ser mayor a cero")
	ErrInvalidDirection    = apperr.BadRequest("dirección inválida, use INCOME o EXPENSE")
	ErrInvalidCategory     = apperr.BadRequest("categoría inválida")
	ErrMethodRequired      = apperr.BadRequest("el medio de pago es obligatorio")
	ErrInvalidDateRange    = apperr.BadRequest("el rango de fechas es inválido")
)
