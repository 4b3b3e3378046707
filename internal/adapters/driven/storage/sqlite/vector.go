package sqlite

import (
	"encoding/binary"
	"fmt"
	"math"

	sqlitevec "github.com/asg017/sqlite-vec-go-bindings/ncruces"
)

// serializeVector encodes a vector as the fixed-width little-endian
// float32 blob the vec0 virtual table stores and matches against.
func serializeVector(v []float32) ([]byte, error) {
	blob, err := sqlitevec.SerializeFloat32(v)
	if err != nil {
		return nil, fmt.Errorf("serializing vector: %w", err)
	}
	return blob, nil
}

// normalizeVector scales v to unit length so that euclidean distance
// over stored vectors maps onto cosine similarity. The zero vector has
// no direction and is returned unchanged.
func normalizeVector(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// deserializeVector decodes a vec0 blob back into a float32 slice.
func deserializeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of 4", len(blob))
	}
	v := make([]float32, len(blob)/4)
	for i := range v {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		v[i] = math.Float32frombits(bits)
	}
	return v, nil
}
