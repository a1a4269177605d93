package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Validade-api/internal/domain/entity"
)

func TestParseMovementType(t *testing.T) {
	mt, err := entity.ParseMovementType(" SALE ")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeSale, mt)

	_, err = entity.ParseMovementType("transfer")
	assert.Error(t, err)
	_, err = entity.ParseMovementType("")
	assert.Error(t, err)
}

func TestMovementType_MotivoDeBaja(t *testing.T) {
	assert.False(t, entity.MovementTypeIn.IsDecreaseReason())
	assert.True(t, entity.MovementTypeSale.IsDecreaseReason())
	assert.True(t, entity.MovementTypeExpired.IsDecreaseReason())
	assert.True(t, entity.MovementTypeAdjust.IsDecreaseReason())
}

func TestIsBatchID(t *testing.T) {
	assert.True(t, entity.IsBatchID("3f2a9c4e-8b1d-4e6f-9a2b-7c5d1e0f4a3b"))

	for _, id := range []string{"", "abc", "no-existe", "3f2a9c4e8b1d4e6f9a2b7c5d1e0f4a3b", "{3f2a9c4e-8b1d-4e6f-9a2b-7c5d1e0f4a3b}", "3f2a9c4e-8b1d-4e6f-9a2b-7c5d1e0f4a3z"} {
		assert.False(t, entity.IsBatchID(id), id)
	}
}
