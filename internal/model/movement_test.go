package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMovementType(t *testing.T) {
	mt, err := ParseMovementType("Removal")
	require.NoError(t, err)
	assert.Equal(t, MovementRemoval, mt)

	_, err = ParseMovementType("transfer")
	assert.Error(t, err)
	assert.False(t, MovementType("transfer").Valid())
}

func TestMovementType_Apply(t *testing.T) {
	assert.Equal(t, 60, MovementAddition.Apply(50, 10))
	assert.Equal(t, 30, MovementRemoval.Apply(50, 20))
	assert.Equal(t, -5, MovementRemoval.Apply(5, 10))
	assert.Equal(t, 5, MovementAdjustment.Apply(30, 5))
	assert.Equal(t, 7, MovementType("bogus").Apply(7, 3))
}

// Additions and removals sum; an adjustment resets the running total.
func TestMovementType_ApplyFold(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	types := []MovementType{MovementAddition, MovementRemoval, MovementAdjustment}

	for run := 0; run < 200; run++ {
		qty := 0
		sinceReset := 0
		for step := 0; step < 1+rng.Intn(30); step++ {
			mt := types[rng.Intn(len(types))]
			n := rng.Intn(100)
			qty = mt.Apply(qty, n)
			switch mt {
			case MovementAddition:
				sinceReset += n
			case MovementRemoval:
				sinceReset -= n
			case MovementAdjustment:
				sinceReset = n
			}
		}
		require.Equal(t, sinceReset, qty)
	}
}
