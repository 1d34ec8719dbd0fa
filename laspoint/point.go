// Copyright 2026 Lidarworks. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

// Package laspoint holds the point record types shared by the LAS
// writer and reader: the cooked point, its optional attributes, the
// point format descriptor and the coordinate transforms used to
// convert between real-valued and on-disk integer coordinates.
package laspoint

// Color is a 16 bit per channel RGB triple.
type Color struct {
	Red   uint16
	Green uint16
	Blue  uint16
}

// Waveform references a point's waveform packet.
type Waveform struct {
	DescriptorIndex     uint8
	ByteOffset          uint64
	PacketSize          uint32
	ReturnPointLocation float32
	Xt                  float32
	Yt                  float32
	Zt                  float32
}

// Point is a cooked point record. Coordinates are real-valued; they
// are converted to their integer on-disk form with the writer's
// transforms. The pointer fields are optional attributes: nil means
// the attribute is absent.
type Point struct {
	X float64
	Y float64
	Z float64

	Intensity        uint16
	ReturnNumber     uint8
	NumberOfReturns  uint8
	ScanDirection    uint8
	EdgeOfFlightLine bool
	Classification   uint8
	Synthetic        bool
	KeyPoint         bool
	Withheld         bool
	Overlap          bool
	ScannerChannel   uint8
	ScanAngle        float32
	UserData         uint8
	PointSourceID    uint16

	GPSTime    *float64
	Color      *Color
	NIR        *uint16
	Waveform   *Waveform
	ExtraBytes []byte
}

// MatchesFormat reports whether the point can be written in the given
// format. The point's present optional attributes must exactly equal
// the format's required set and its extra byte block must have exactly
// the declared length. A surplus attribute would be silently lost on
// encode and a missing one cannot be encoded, so both directions fail.
func (p Point) MatchesFormat(f Format) bool {
	return (p.GPSTime != nil) == f.HasGPSTime &&
		(p.Color != nil) == f.HasColor &&
		(p.NIR != nil) == f.HasNIR &&
		(p.Waveform != nil) == f.HasWaveform &&
		len(p.ExtraBytes) == int(f.ExtraBytes)
}
