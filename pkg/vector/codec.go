package vector

import (
	"encoding/binary"
	"fmt"
	"math"
)

// BytesPerElement is the width of one encoded element.
const BytesPerElement = 4

// Encode serializes vec as a little-endian sequence of IEEE 754 float32 values
// without a length prefix. The element count is derived from the byte length on
// decode. Values are copied bit-for-bit, NaN and Inf included.
func Encode(vec []float32) []byte {
	b := make([]byte, len(vec)*BytesPerElement)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*BytesPerElement:], math.Float32bits(v))
	}
	return b
}

// Decode is the inverse of Encode.
func Decode(b []byte) ([]float32, error) {
	if len(b)%BytesPerElement != 0 {
		return nil, fmt.Errorf("%w: blob length %d is not a multiple of %d", ErrCorruptData, len(b), BytesPerElement)
	}
	n := len(b) / BytesPerElement
	vec := make([]float32, n)
	for i := 0; i < n; i++ {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*BytesPerElement:]))
	}
	return vec, nil
}

// DecodeN decodes b and asserts that it holds exactly dims elements.
func DecodeN(b []byte, dims int) ([]float32, error) {
	vec, err := Decode(b)
	if err != nil {
		return nil, err
	}
	if len(vec) != dims {
		return nil, fmt.Errorf("%w: decoded %d elements, expected %d", ErrDimensionMismatch, len(vec), dims)
	}
	return vec, nil
}
