package main

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"github.com/sbinet/npyio/npz"
)

// loadExample reads the input vector from x.npy and the target vector from
// y.npy inside an npz archive.  Both must be one-dimensional float arrays.
func loadExample(path string) (x, y []float64, err error) {
	r, err := npz.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("while opening example data file: %w", err)
	}
	defer r.Close()

	x, err = loadVector(r, "x.npy")
	if err != nil {
		return nil, nil, fmt.Errorf("while reading x.npy: %w", err)
	}

	y, err = loadVector(r, "y.npy")
	if err != nil {
		return nil, nil, fmt.Errorf("while reading y.npy: %w", err)
	}

	return x, y, nil
}

func loadVector(r *npz.Reader, name string) ([]float64, error) {
	header := r.Header(name)
	if header == nil {
		return nil, fmt.Errorf("no entry for %s", name)
	}
	if len(header.Descr.Shape) != 1 {
		return nil, fmt.Errorf("unsupported shape %v", header.Descr.Shape)
	}

	switch header.Descr.Type {
	case "<f8":
		var raw []float64
		if err := r.Read(name, &raw); err != nil {
			return nil, fmt.Errorf("while reading float64 array: %w", err)
		}
		for i, v := range raw {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("element %d is not finite: %v", i, v)
			}
		}
		return raw, nil
	case "<f4":
		var raw []float32
		if err := r.Read(name, &raw); err != nil {
			return nil, fmt.Errorf("while reading float32 array: %w", err)
		}

		result := make([]float64, len(raw))
		for i, v := range raw {
			if math32.IsNaN(v) || math32.IsInf(v, 0) {
				return nil, fmt.Errorf("element %d is not finite: %v", i, v)
			}
			result[i] = float64(v)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unsupported dtype %s", header.Descr.Type)
	}
}
