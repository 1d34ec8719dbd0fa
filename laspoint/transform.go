// Copyright 2026 Lidarworks. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package laspoint

import (
	"math"

	"github.com/pkg/errors"
)

// Transform converts between a real-valued coordinate and its scaled
// integer on-disk encoding.
type Transform struct {
	Scale  float64
	Offset float64
}

// Encode converts a real-valued coordinate to its on-disk integer.
func (t Transform) Encode(v float64) (int32, error) {
	scaled := math.Round((v - t.Offset) / t.Scale)
	// The inverted comparison also rejects NaN, which a NaN coordinate
	// or a zero scale produces.
	if !(scaled >= math.MinInt32 && scaled <= math.MaxInt32) {
		return 0, errors.Errorf("coordinate %v is not representable with scale %v and offset %v", v, t.Scale, t.Offset)
	}
	return int32(scaled), nil
}

// Decode converts an on-disk integer back to a real-valued coordinate.
func (t Transform) Decode(i int32) float64 {
	return float64(i)*t.Scale + t.Offset
}

// Transforms holds the per-axis coordinate transforms.
type Transforms struct {
	X Transform
	Y Transform
	Z Transform
}

// DefaultTransforms returns millimetre precision transforms with no
// offset.
func DefaultTransforms() Transforms {
	t := Transform{Scale: 0.001}
	return Transforms{X: t, Y: t, Z: t}
}

// Vector is a point in coordinate space.
type Vector struct {
	X float64
	Y float64
	Z float64
}

// Bounds tracks the componentwise minimum and maximum of a set of
// vectors. NewBounds returns empty bounds which any Grow replaces.
type Bounds struct {
	Min Vector
	Max Vector
}

// NewBounds returns empty bounds.
func NewBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{
		Min: Vector{X: inf, Y: inf, Z: inf},
		Max: Vector{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsEmpty reports whether the bounds contain no vectors yet.
func (b Bounds) IsEmpty() bool {
	return b.Min.X > b.Max.X
}

// Grow expands the bounds to include v.
func (b *Bounds) Grow(v Vector) {
	b.Min.X = math.Min(b.Min.X, v.X)
	b.Min.Y = math.Min(b.Min.Y, v.Y)
	b.Min.Z = math.Min(b.Min.Z, v.Z)
	b.Max.X = math.Max(b.Max.X, v.X)
	b.Max.Y = math.Max(b.Max.Y, v.Y)
	b.Max.Z = math.Max(b.Max.Z, v.Z)
}
