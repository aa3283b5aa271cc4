package inventory

import (
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// SignedQuantity resuelve el signo de la cantidad según el tipo de movimiento
// (servicio de dominio, puro). La magnitud puede llegar con cualquier signo
// (callers históricos o descuidados): se toma el valor absoluto antes de
// aplicar la política, excepto para ADJUSTMENT que conserva el signo original
// (incluido cero).
//
// Política:
//
//	PURCHASE, RETURN, TRANSFER_IN  -> siempre positivo (entra stock)
//	SALE, DAMAGED, TRANSFER_OUT    -> siempre negativo (sale stock)
//	ADJUSTMENT                     -> signo del caller
//
// Un tipo fuera del enum devuelve ErrInvalidMovementType; con el enum cerrado
// no debería ocurrir nunca.
func SignedQuantity(movementType string, magnitude int64) (int64, error) {
	abs := magnitude
	if abs < 0 {
		abs = -abs
	}
	switch movementType {
	case entity.MovementTypePURCHASE, entity.MovementTypeRETURN, entity.MovementTypeTRANSFERIN:
		return abs, nil
	case entity.MovementTypeSALE, entity.MovementTypeDAMAGED, entity.MovementTypeTRANSFEROUT:
		return -abs, nil
	case entity.MovementTypeADJUSTMENT:
		return magnitude, nil
	default:
		return 0, domain.ErrInvalidMovementType
	}
}

// IsInbound indica si el tipo suma stock. ADJUSTMENT no es clasificable sin la cantidad.
func IsInbound(movementType string) bool {
	switch movementType {
	case entity.MovementTypePURCHASE, entity.MovementTypeRETURN, entity.MovementTypeTRANSFERIN:
		return true
	}
	return false
}
