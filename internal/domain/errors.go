package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists    = errors.New("el email ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrProductNotFound       = errors.New("producto no encontrado o inactivo")
	ErrWarehouseNotFound     = errors.New("bodega no encontrada o inactiva")
	ErrTransferNotFound      = errors.New("traslado no encontrado")
	ErrSameWarehouseTransfer = errors.New("bodega origen y destino deben ser distintas")
	ErrInvalidTransferState  = errors.New("el traslado no está en el estado requerido")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrInvalidMovementType   = errors.New("tipo de movimiento desconocido")
)

// InsufficientStockError lleva las cantidades disponibles y solicitadas para
// diagnóstico. errors.Is(err, ErrInsufficientStock) devuelve true.
type InsufficientStockError struct {
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Available, e.Requested)
}

// Is permite el match con el sentinel ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
