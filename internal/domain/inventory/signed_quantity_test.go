package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/inventory"
)

// La política de signos es el corazón del ledger: toda la aritmética de stock
// depende de que cada tipo de movimiento resuelva el signo correcto sin
// importar el signo con que el usuario ingrese la magnitud.
func TestSignedQuantity_PoliticaDeSignos(t *testing.T) {
	cases := []struct {
		name         string
		movementType string
		magnitude    int64
		want         int64
	}{
		{"compra positiva", entity.MovementTypePURCHASE, 100, 100},
		{"compra con magnitud negativa se normaliza", entity.MovementTypePURCHASE, -100, 100},
		{"devolución entra", entity.MovementTypeRETURN, 5, 5},
		{"entrada de traslado entra", entity.MovementTypeTRANSFERIN, 30, 30},
		{"venta sale", entity.MovementTypeSALE, 40, -40},
		{"venta con magnitud negativa sigue saliendo", entity.MovementTypeSALE, -40, -40},
		{"daño sale", entity.MovementTypeDAMAGED, 3, -3},
		{"salida de traslado sale", entity.MovementTypeTRANSFEROUT, 30, -30},
		{"ajuste positivo conserva signo", entity.MovementTypeADJUSTMENT, 12, 12},
		{"ajuste negativo conserva signo", entity.MovementTypeADJUSTMENT, -12, -12},
		{"ajuste cero se conserva", entity.MovementTypeADJUSTMENT, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := inventory.SignedQuantity(tc.movementType, tc.magnitude)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSignedQuantity_TipoDesconocido(t *testing.T) {
	_, err := inventory.SignedQuantity("TELEPORT", 10)
	assert.ErrorIs(t, err, domain.ErrInvalidMovementType,
		"un tipo fuera del enum debe rechazarse, nunca asumir un signo")
}

func TestIsInbound(t *testing.T) {
	assert.True(t, inventory.IsInbound(entity.MovementTypePURCHASE))
	assert.True(t, inventory.IsInbound(entity.MovementTypeRETURN))
	assert.True(t, inventory.IsInbound(entity.MovementTypeTRANSFERIN))
	assert.False(t, inventory.IsInbound(entity.MovementTypeSALE))
	assert.False(t, inventory.IsInbound(entity.MovementTypeDAMAGED))
	assert.False(t, inventory.IsInbound(entity.MovementTypeTRANSFEROUT))
}
