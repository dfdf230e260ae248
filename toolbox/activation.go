package toolbox

import (
	"fmt"
	"math"
)

// ClampedTanh is math.Tanh, except that it returns exactly -1 below -20 and
// exactly 1 above 20.  At float64 precision tanh is already saturated there.
func ClampedTanh(x float64) float64 {
	if x < -20.0 {
		return -1.0
	}
	if x > 20.0 {
		return 1.0
	}
	return math.Tanh(x)
}

// Softmax returns a new probability vector for v.
//
// For stability, use the identity softmax(v) = softmax(v - c), and subtract
// the maximum element of v from every element as we evaluate the softmax.
//
// https://stackoverflow.com/questions/42599498/numerically-stable-softmax
func Softmax(v []float64) ([]float64, error) {
	if len(v) == 0 {
		return nil, fmt.Errorf("softmax of zero-length vector: %w", ErrEmptyVector)
	}

	maxv := v[0]
	for i := 1; i < len(v); i++ {
		if v[i] > maxv {
			maxv = v[i]
		}
	}

	var scale float64
	for i := 0; i < len(v); i++ {
		scale += math.Exp(v[i] - maxv)
	}

	result := make([]float64, len(v))
	for i := 0; i < len(v); i++ {
		result[i] = math.Exp(v[i]-maxv) / scale
	}

	return result, nil
}

// tanhGradient is the derivative of tanh, written in terms of a = tanh(z).
func tanhGradient(a float64) float64 {
	return (1.0 - a) * (1.0 + a)
}
