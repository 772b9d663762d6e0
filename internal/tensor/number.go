package tensor

import "math"

// Numbers inside a token stream use a deliberately redundant encoding: a
// sign indicator, a fixed number of binary magnitude bits, a normalized
// scalar, and a log-magnitude feature. The reference decoder reads only the
// scalar, but the richer fields are part of the contract with the external
// observation encoder and must be emitted in full.
const (
	// BinaryNumberBits is how many magnitude bits each number carries.
	BinaryNumberBits = 10

	// MaxEncodedNumber is the largest magnitude the encoding represents;
	// anything larger is clamped. The clamp is intentional lossy behavior.
	MaxEncodedNumber = 1<<BinaryNumberBits - 1

	// NumberEncodingDims is the width of one encoded number: sign, bits,
	// scalar, log magnitude.
	NumberEncodingDims = 1 + BinaryNumberBits + 2

	scalarIndex = 1 + BinaryNumberBits
	logIndex    = scalarIndex + 1
)

var logScale = math.Log1p(MaxEncodedNumber)

// EncodeNumber encodes an integer into its redundant fixed-width form.
func EncodeNumber(value int) []float32 {
	enc := make([]float32, NumberEncodingDims)

	magnitude := value
	if magnitude < 0 {
		enc[0] = 1
		magnitude = -magnitude
	}
	if magnitude > MaxEncodedNumber {
		magnitude = MaxEncodedNumber
	}
	for bit := 0; bit < BinaryNumberBits; bit++ {
		if magnitude&(1<<bit) != 0 {
			enc[1+bit] = 1
		}
	}
	enc[scalarIndex] = float32(magnitude) / float32(MaxEncodedNumber)
	enc[logIndex] = float32(math.Log1p(float64(magnitude)) / logScale)
	return enc
}

// DecodeNumber recovers the integer from an encoded number. Only the scalar
// field participates, rescaled and rounded; the sign indicator restores
// negative values.
func DecodeNumber(enc []float32) int {
	if len(enc) < NumberEncodingDims {
		return 0
	}
	value := int(math.Round(float64(enc[scalarIndex]) * MaxEncodedNumber))
	if enc[0] > 0.5 {
		value = -value
	}
	return value
}
