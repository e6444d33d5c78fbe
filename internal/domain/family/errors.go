package family

import "family-dues-go/internal/apperr"

var (
	ErrFamilyNotFound  = apperr.NotFound("familia no encontrada")
	ErrBalanceNotFound = apperr.NotFound("balance no encontrado")
	ErrNameRequired    = apperr.BadRequest("el nombre de la familia es obligatorio")
	ErrNegativeCustom  = apperr.BadRequest("el monto personalizado no puede ser negativo")
)
