package utils

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Face embeddings travel as float arrays in JSON but are stored packed,
// four little-endian bytes per component, no length prefix. The layout
// must round-trip exactly: EncodeEmbedding(DecodeEmbedding(b)) == b for
// any b whose length is a multiple of 4.

// EncodeEmbedding packs a float32 vector into its storage form
func EncodeEmbedding(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

// DecodeEmbedding unpacks a stored embedding back into a float32 vector
func DecodeEmbedding(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("embedding length %d is not a multiple of 4", len(data))
	}
	vector := make([]float32, len(data)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return vector, nil
}

// Float64sToFloat32s narrows a JSON-decoded vector. encoding/json
// decodes numbers as float64; embeddings are stored at float32
// precision, matching what the AI module sent.
func Float64sToFloat32s(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
