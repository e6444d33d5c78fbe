package folder

import "family-dues-go/internal/apperr"

var (
	ErrFolderNotFound   = apperr.NotFound("carpeta no encontrada")
	ErrFileNotFound     = apperr.NotFound("archivo no encontrado")
	ErrFolderExists     = apperr.Conflict("el usuario ya tiene una carpeta")
	ErrUserRequired     = apperr.BadRequest("el usuario es obligatorio")
	ErrFilenameRequired = apperr.BadRequest("el nombre del archivo es obligatorio")
	ErrEmptyFile        = apperr.BadRequest("el archivo está vacío")
	ErrFileTooLarge     = apperr.BadRequest("el archivo supera el tamaño máximo permitido")
)
