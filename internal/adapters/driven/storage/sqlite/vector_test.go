package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorCodec_RoundTrip(t *testing.T) {
	original := []float32{1.0, -0.5, 0.25, 3.14159, 0}

	blob, err := serializeVector(original)
	require.NoError(t, err)
	assert.Len(t, blob, len(original)*4)

	decoded, err := deserializeVector(blob)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestVectorCodec_Empty(t *testing.T) {
	blob, err := serializeVector([]float32{})
	require.NoError(t, err)

	decoded, err := deserializeVector(blob)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestNormalizeVector_UnitLength(t *testing.T) {
	normalized := normalizeVector([]float32{3, 0, 4})
	assert.InDelta(t, 0.6, normalized[0], 0.0001)
	assert.InDelta(t, 0.0, normalized[1], 0.0001)
	assert.InDelta(t, 0.8, normalized[2], 0.0001)

	var sum float64
	for _, x := range normalized {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, sum, 0.0001)
}

func TestNormalizeVector_ZeroVectorUnchanged(t *testing.T) {
	assert.Equal(t, []float32{0, 0, 0}, normalizeVector([]float32{0, 0, 0}))
}

func TestVectorCodec_TruncatedBlob(t *testing.T) {
	blob, err := serializeVector([]float32{1, 2})
	require.NoError(t, err)

	_, err = deserializeVector(blob[:len(blob)-1])
	assert.Error(t, err)
}
