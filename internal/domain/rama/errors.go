package rama

import "family-dues-go/internal/apperr"

var (
	ErrRamaNotFound   = apperr.NotFound("rama no encontrada")
	ErrNameRequired   = apperr.BadRequest("el nombre es obligatorio")
	ErrDuplicatedName = apperr.Conflict("ya existe una rama con ese nombre")
)
