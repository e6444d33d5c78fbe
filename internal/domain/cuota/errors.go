package cuota

import "family-dues-go/internal/apperr"

var (
	ErrCuotaNotFound      = apperr.NotFound("cuota no encontrada")
	ErrNoActiveCuota      = apperr.NotFound("no hay una cuota activa")
	ErrOverrideNotFound   = apperr.NotFound("cuota por hermanos no encontrada")
	ErrDuplicatedCantidad = apperr.Conflict("ya existe una cuota para esa cantidad de hermanos")
	ErrActiveCuotaDelete  = apperr.Conflict("no se puede eliminar la cuota activa")
	ErrMultipleActive     = apperr.Conflict("ya existe otra cuota activa")
	ErrNegativeValue      = apperr.BadRequest("los montos no pueden ser negativos")
	ErrInvalidCantidad    = apperr.BadRequest("la cantidad de hermanos debe ser mayor a cero")
)
