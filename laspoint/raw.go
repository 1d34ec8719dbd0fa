// Copyright 2026 Lidarworks. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package laspoint

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// rawCore is the 20 byte record shared by point formats 0 through 5.
type rawCore struct {
	X             int32
	Y             int32
	Z             int32
	Intensity     uint16
	BitField      uint8
	ClassBitField uint8
	ScanAngleRank int8
	UserData      uint8
	PointSourceID uint16
}

// rawExtendedCore is the 30 byte record shared by point formats 6
// through 10. GPS time is always part of the extended core.
type rawExtendedCore struct {
	X              int32
	Y              int32
	Z              int32
	Intensity      uint16
	ReturnBitField uint8
	FlagBitField   uint8
	Classification uint8
	UserData       uint8
	ScanAngle      int16
	PointSourceID  uint16
	GPSTime        float64
}

// WriteBinary converts the point to its fixed-size binary form under
// the given format and transforms and writes it to w. The caller is
// expected to have checked MatchesFormat first; attributes the format
// does not carry are ignored here.
func (p Point) WriteBinary(w io.Writer, f Format, t Transforms) error {
	x, err := t.X.Encode(p.X)
	if err != nil {
		return errors.Wrap(err, "encoding x")
	}
	y, err := t.Y.Encode(p.Y)
	if err != nil {
		return errors.Wrap(err, "encoding y")
	}
	z, err := t.Z.Encode(p.Z)
	if err != nil {
		return errors.Wrap(err, "encoding z")
	}

	if f.IsExtended {
		angle := math.Round(float64(p.ScanAngle) / 0.006)
		if angle < math.MinInt16 || angle > math.MaxInt16 {
			return errors.Errorf("scan angle %v out of range", p.ScanAngle)
		}
		core := rawExtendedCore{
			X:              x,
			Y:              y,
			Z:              z,
			Intensity:      p.Intensity,
			ReturnBitField: p.ReturnNumber&0x0f | p.NumberOfReturns<<4,
			FlagBitField:   p.extendedFlags(),
			Classification: p.Classification,
			UserData:       p.UserData,
			ScanAngle:      int16(angle),
			PointSourceID:  p.PointSourceID,
		}
		if p.GPSTime != nil {
			core.GPSTime = *p.GPSTime
		}
		if err := binary.Write(w, binary.LittleEndian, core); err != nil {
			return err
		}
	} else {
		angle := math.Round(float64(p.ScanAngle))
		if angle < math.MinInt8 || angle > math.MaxInt8 {
			return errors.Errorf("scan angle %v out of range", p.ScanAngle)
		}
		core := rawCore{
			X:             x,
			Y:             y,
			Z:             z,
			Intensity:     p.Intensity,
			BitField:      p.legacyBitField(),
			ClassBitField: p.legacyClassification(),
			ScanAngleRank: int8(angle),
			UserData:      p.UserData,
			PointSourceID: p.PointSourceID,
		}
		if err := binary.Write(w, binary.LittleEndian, core); err != nil {
			return err
		}
		if f.HasGPSTime {
			var gps float64
			if p.GPSTime != nil {
				gps = *p.GPSTime
			}
			if err := binary.Write(w, binary.LittleEndian, gps); err != nil {
				return err
			}
		}
	}

	if f.HasColor {
		var color Color
		if p.Color != nil {
			color = *p.Color
		}
		if err := binary.Write(w, binary.LittleEndian, color); err != nil {
			return err
		}
	}
	if f.HasNIR {
		var nir uint16
		if p.NIR != nil {
			nir = *p.NIR
		}
		if err := binary.Write(w, binary.LittleEndian, nir); err != nil {
			return err
		}
	}
	if f.HasWaveform {
		var waveform Waveform
		if p.Waveform != nil {
			waveform = *p.Waveform
		}
		if err := binary.Write(w, binary.LittleEndian, waveform); err != nil {
			return err
		}
	}
	if len(p.ExtraBytes) > 0 {
		if _, err := w.Write(p.ExtraBytes); err != nil {
			return err
		}
	}
	return nil
}

// ReadBinary reads one point record in the given format from r and
// converts it back to a cooked point with the given transforms.
func ReadBinary(r io.Reader, f Format, t Transforms) (Point, error) {
	var p Point
	if f.IsExtended {
		var core rawExtendedCore
		if err := binary.Read(r, binary.LittleEndian, &core); err != nil {
			return p, err
		}
		p.X = t.X.Decode(core.X)
		p.Y = t.Y.Decode(core.Y)
		p.Z = t.Z.Decode(core.Z)
		p.Intensity = core.Intensity
		p.ReturnNumber = core.ReturnBitField & 0x0f
		p.NumberOfReturns = core.ReturnBitField >> 4
		p.Synthetic = core.FlagBitField&0x01 != 0
		p.KeyPoint = core.FlagBitField&0x02 != 0
		p.Withheld = core.FlagBitField&0x04 != 0
		p.Overlap = core.FlagBitField&0x08 != 0
		p.ScannerChannel = core.FlagBitField >> 4 & 0x03
		p.ScanDirection = core.FlagBitField >> 6 & 0x01
		p.EdgeOfFlightLine = core.FlagBitField&0x80 != 0
		p.Classification = core.Classification
		p.UserData = core.UserData
		p.ScanAngle = float32(float64(core.ScanAngle) * 0.006)
		p.PointSourceID = core.PointSourceID
		gps := core.GPSTime
		p.GPSTime = &gps
	} else {
		var core rawCore
		if err := binary.Read(r, binary.LittleEndian, &core); err != nil {
			return p, err
		}
		p.X = t.X.Decode(core.X)
		p.Y = t.Y.Decode(core.Y)
		p.Z = t.Z.Decode(core.Z)
		p.Intensity = core.Intensity
		p.ReturnNumber = core.BitField & 0x07
		p.NumberOfReturns = core.BitField >> 3 & 0x07
		p.ScanDirection = core.BitField >> 6 & 0x01
		p.EdgeOfFlightLine = core.BitField&0x80 != 0
		p.Classification = core.ClassBitField & 0x1f
		p.Synthetic = core.ClassBitField&0x20 != 0
		p.KeyPoint = core.ClassBitField&0x40 != 0
		p.Withheld = core.ClassBitField&0x80 != 0
		p.ScanAngle = float32(core.ScanAngleRank)
		p.UserData = core.UserData
		p.PointSourceID = core.PointSourceID
		if f.HasGPSTime {
			var gps float64
			if err := binary.Read(r, binary.LittleEndian, &gps); err != nil {
				return p, err
			}
			p.GPSTime = &gps
		}
	}

	if f.HasColor {
		var color Color
		if err := binary.Read(r, binary.LittleEndian, &color); err != nil {
			return p, err
		}
		p.Color = &color
	}
	if f.HasNIR {
		var nir uint16
		if err := binary.Read(r, binary.LittleEndian, &nir); err != nil {
			return p, err
		}
		p.NIR = &nir
	}
	if f.HasWaveform {
		var waveform Waveform
		if err := binary.Read(r, binary.LittleEndian, &waveform); err != nil {
			return p, err
		}
		p.Waveform = &waveform
	}
	if f.ExtraBytes > 0 {
		p.ExtraBytes = make([]byte, f.ExtraBytes)
		if _, err := io.ReadFull(r, p.ExtraBytes); err != nil {
			return p, err
		}
	}
	return p, nil
}

// legacyBitField packs the return information for formats 0 through 5.
func (p Point) legacyBitField() uint8 {
	b := p.ReturnNumber&0x07 | p.NumberOfReturns<<3&0x38 | p.ScanDirection<<6&0x40
	if p.EdgeOfFlightLine {
		b |= 0x80
	}
	return b
}

// legacyClassification packs the classification and its flags for
// formats 0 through 5.
func (p Point) legacyClassification() uint8 {
	b := p.Classification & 0x1f
	if p.Synthetic {
		b |= 0x20
	}
	if p.KeyPoint {
		b |= 0x40
	}
	if p.Withheld {
		b |= 0x80
	}
	return b
}

// extendedFlags packs the classification flags, scanner channel and
// scan direction for formats 6 through 10.
func (p Point) extendedFlags() uint8 {
	var b uint8
	if p.Synthetic {
		b |= 0x01
	}
	if p.KeyPoint {
		b |= 0x02
	}
	if p.Withheld {
		b |= 0x04
	}
	if p.Overlap {
		b |= 0x08
	}
	b |= p.ScannerChannel << 4 & 0x30
	b |= p.ScanDirection << 6 & 0x40
	if p.EdgeOfFlightLine {
		b |= 0x80
	}
	return b
}
