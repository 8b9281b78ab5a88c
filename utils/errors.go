package utils

import (
	"errors"
	"fmt"
)

// Error taxonomy for the API. Services wrap one of these sentinels and
// controllers translate them to HTTP codes via RespondAppError.
var (
	ErrValidation       = errors.New("datos de entrada invalidos")
	ErrAuth             = errors.New("credenciales invalidas")
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrStoreConstraint  = errors.New("violacion de restriccion de datos")
	ErrStoreUnavailable = errors.New("base de datos no disponible")
	ErrInvalidItem      = errors.New("item de menu inexistente")
	ErrNoPermission     = errors.New("no tiene permisos para esta operacion")
)

// InvalidItemError reports which catalog entry id made an order
// unprocessable. It unwraps to ErrInvalidItem.
type InvalidItemError struct {
	ItemID uint
}

func (e *InvalidItemError) Error() string {
	return fmt.Sprintf("item de menu inexistente: %d", e.ItemID)
}

func (e *InvalidItemError) Unwrap() error {
	return ErrInvalidItem
}

// StatusForError maps a service error onto an HTTP status code.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidItem), errors.Is(err, ErrStoreConstraint):
		return 400
	case errors.Is(err, ErrAuth):
		return 401
	case errors.Is(err, ErrNoPermission):
		return 403
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrStoreUnavailable):
		return 503
	default:
		return 500
	}
}
