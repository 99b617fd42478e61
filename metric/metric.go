package metric

import (
	"errors"
	"math/bits"
)

// Unsigned constrains point types for Hamming to fixed-width unsigned
// integers.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Hamming calculates the Hamming distance between two fixed-width
// integers: the number of differing bits (popcount of XOR).
func Hamming[T Unsigned](a, b T) (int, error) {
	return bits.OnesCount64(uint64(a ^ b)), nil
}

// HammingStrings calculates the Hamming distance between two strings of
// equal length: the number of positions with differing bytes.
func HammingStrings(a, b string) (int, error) {
	// Check if the string lengths match
	if len(a) != len(b) {
		return 0, errors.New("string lengths do not match")
	}

	distance := 0
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			distance++
		}
	}
	return distance, nil
}

// Abs calculates the absolute difference between two integers, the
// one-dimensional Euclidean distance.
func Abs(a, b int) (int, error) {
	if a < b {
		return b - a, nil
	}
	return a - b, nil
}
