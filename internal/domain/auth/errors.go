package auth

import "family-dues-go/internal/apperr"

var (
	ErrInvalidCredentials = apperr.Unauthorized("usuario o contraseña incorrectos")
	ErrInactiveUser       = apperr.Forbidden("el usuario está inactivo")
)
