package actionlog

import "family-dues-go/internal/apperr"

var (
	ErrNotFound            = apperr.NotFound("registro de acción no encontrado")
	ErrAlreadyFinalized    = apperr.Conflict("el registro de acción ya fue finalizado")
	ErrAlreadyRunThisMonth = apperr.Conflict("la operación ya se ejecutó este mes")
	ErrDuplicateRequestID  = apperr.Conflict("ya existe un registro con ese request_id")
	ErrInvalidActionType   = apperr.BadRequest("tipo de acción inválido")
	ErrInvalidStatus       = apperr.BadRequest("estado inválido")
	ErrInvalidDateRange    = apperr.BadRequest("el rango de fechas es inválido")
	ErrInvalidOrder        = apperr.BadRequest("orden inválido, use asc o desc")
)

const unknownErrorMessage = "Error desconocido"
