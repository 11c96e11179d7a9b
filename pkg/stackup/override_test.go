package stackup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceSet(t *testing.T) {
	ref := DefaultReference()
	require.NoError(t, ref.Set("rod-diameter", 10))
	require.NoError(t, ref.Set("GAP_BEARING", 3))

	assert.Equal(t, 5.0, ref.Rod.Radius)
	assert.Equal(t, 3.0, ref.Margins.GapBearing)

	err := ref.Set("flux_capacitor", 1)
	assert.Error(t, err)
}

func TestReferenceApply(t *testing.T) {
	ref := DefaultReference()
	require.NoError(t, ref.Apply(map[string]float64{
		"rail_length":  600,
		"vslot-length": 500,
	}))
	assert.Equal(t, 600.0, ref.Rail.Length)
	assert.Equal(t, 500.0, ref.VSlot.Length)

	s, err := Derive(ref)
	require.NoError(t, err)
	assert.InDelta(t, 250-5-5.5, s.NemaSlot, 1e-9)
}

func TestOverridable(t *testing.T) {
	assert.True(t, Overridable("wall-rod"))
	assert.False(t, Overridable("rod_radius"))
	assert.Contains(t, OverrideNames(), "tool_bolt")
}
