package user

import "family-dues-go/internal/apperr"

var (
	ErrUserNotFound     = apperr.NotFound("usuario no encontrado")
	ErrUsernameTaken    = apperr.Conflict("el nombre de usuario ya está en uso")
	ErrUsernameRequired = apperr.BadRequest("el nombre de usuario es obligatorio")
	ErrPasswordTooShort = apperr.BadRequest("la contraseña debe tener al menos 8 caracteres")
	ErrCannotDeleteSelf = apperr.Conflict("no puede eliminar su propio usuario")
)
