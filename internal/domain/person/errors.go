package person

import "family-dues-go/internal/apperr"

var (
	ErrPersonNotFound = apperr.NotFound("persona no encontrada")
	ErrNameRequired   = apperr.BadRequest("nombre y apellido son obligatorios")
)
