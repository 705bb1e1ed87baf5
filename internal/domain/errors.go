package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// Entrada
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrInvalidAmount = errors.New("la cantidad debe ser un entero positivo")

	// Identidad y autorización
	ErrDuplicateIdentity  = errors.New("el usuario ya existe")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrUnauthenticated    = errors.New("no autenticado")
	ErrForbidden          = errors.New("acceso denegado")

	// Estado del inventario
	ErrNotFound   = errors.New("recurso no encontrado")
	ErrOutOfStock = errors.New("producto agotado")
)
