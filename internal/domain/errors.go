package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInvalidMovement    = errors.New("datos de movimiento inválidos")
	ErrInvalidInvoice     = errors.New("factura inválida: agrega al menos 1 línea válida")
	ErrStorageUnavailable = errors.New("almacenamiento no disponible")
)
