package stats

import "family-dues-go/internal/apperr"

var (
	ErrInvalidMonth = apperr.BadRequest("mes inválido, debe estar entre 1 y 12")
	ErrInvalidYear  = apperr.BadRequest("año inválido, debe tener 4 dígitos")
)
