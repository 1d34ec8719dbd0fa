// Copyright 2026 Lidarworks. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package laspoint

import (
	"github.com/pkg/errors"
)

// Format describes the layout of a point record: which optional
// attributes each record carries and how many extra raw bytes follow
// the standard fields. The zero Format is point format 0.
type Format struct {
	HasGPSTime  bool
	HasColor    bool
	HasNIR      bool
	HasWaveform bool
	IsExtended  bool
	ExtraBytes  uint16
}

// NewFormat returns the Format for a standard point format number
// (0 through 10).
func NewFormat(n uint8) (Format, error) {
	switch n {
	case 0:
		return Format{}, nil
	case 1:
		return Format{HasGPSTime: true}, nil
	case 2:
		return Format{HasColor: true}, nil
	case 3:
		return Format{HasGPSTime: true, HasColor: true}, nil
	case 4:
		return Format{HasGPSTime: true, HasWaveform: true}, nil
	case 5:
		return Format{HasGPSTime: true, HasColor: true, HasWaveform: true}, nil
	case 6:
		return Format{HasGPSTime: true, IsExtended: true}, nil
	case 7:
		return Format{HasGPSTime: true, HasColor: true, IsExtended: true}, nil
	case 8:
		return Format{HasGPSTime: true, HasColor: true, HasNIR: true, IsExtended: true}, nil
	case 9:
		return Format{HasGPSTime: true, HasWaveform: true, IsExtended: true}, nil
	case 10:
		return Format{HasGPSTime: true, HasColor: true, HasNIR: true, HasWaveform: true, IsExtended: true}, nil
	default:
		return Format{}, errors.Errorf("unsupported point format %d", n)
	}
}

// Number returns the standard format number for this combination of
// attributes, or an error if no standard format matches.
func (f Format) Number() (uint8, error) {
	if f.IsExtended {
		if !f.HasGPSTime {
			return 0, errors.New("extended point formats always carry GPS time")
		}
		if f.HasNIR && !f.HasColor {
			return 0, errors.New("no point format has near infrared without color")
		}
		switch {
		case f.HasWaveform && f.HasColor && f.HasNIR:
			return 10, nil
		case f.HasWaveform && !f.HasColor:
			return 9, nil
		case f.HasWaveform:
			return 0, errors.New("no extended point format has waveform and color without near infrared")
		case f.HasColor && f.HasNIR:
			return 8, nil
		case f.HasColor:
			return 7, nil
		default:
			return 6, nil
		}
	}
	if f.HasNIR {
		return 0, errors.New("only extended point formats carry near infrared")
	}
	if f.HasWaveform {
		if !f.HasGPSTime {
			return 0, errors.New("waveform point formats always carry GPS time")
		}
		if f.HasColor {
			return 5, nil
		}
		return 4, nil
	}
	var n uint8
	if f.HasGPSTime {
		n |= 1
	}
	if f.HasColor {
		n |= 2
	}
	return n, nil
}

// RecordLength returns the on-disk size in bytes of one point record
// in this format, including extra bytes.
func (f Format) RecordLength() uint16 {
	var n uint16
	if f.IsExtended {
		n = 30
	} else {
		n = 20
		if f.HasGPSTime {
			n += 8
		}
	}
	if f.HasColor {
		n += 6
	}
	if f.HasNIR {
		n += 2
	}
	if f.HasWaveform {
		n += 29
	}
	return n + f.ExtraBytes
}

// BaseRecordLength returns the record length without extra bytes.
func (f Format) BaseRecordLength() uint16 {
	return f.RecordLength() - f.ExtraBytes
}
