// Copyright 2026 Lidarworks. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package laspoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumberRoundTrip(t *testing.T) {
	for n := uint8(0); n <= 10; n++ {
		f, err := NewFormat(n)
		require.NoError(t, err, "format %d", n)
		got, err := f.Number()
		require.NoError(t, err, "format %d", n)
		assert.Equal(t, n, got)
	}
}

func TestFormatUnsupportedNumber(t *testing.T) {
	_, err := NewFormat(11)
	assert.Error(t, err)
}

func TestFormatInvalidCombinations(t *testing.T) {
	invalid := []Format{
		{HasNIR: true},      // nir is extended only
		{HasWaveform: true}, // waveform requires gps time
		{IsExtended: true},  // extended always has gps time
		{IsExtended: true, HasGPSTime: true, HasNIR: true}, // nir requires color
	}
	for i, f := range invalid {
		_, err := f.Number()
		assert.Error(t, err, "case %d", i)
	}
}

func TestFormatRecordLength(t *testing.T) {
	lengths := map[uint8]uint16{
		0:  20,
		1:  28,
		2:  26,
		3:  34,
		4:  57,
		5:  63,
		6:  30,
		7:  36,
		8:  38,
		9:  59,
		10: 67,
	}
	for n, want := range lengths {
		f, err := NewFormat(n)
		require.NoError(t, err)
		assert.Equal(t, want, f.RecordLength(), "format %d", n)
	}

	f, err := NewFormat(1)
	require.NoError(t, err)
	f.ExtraBytes = 5
	assert.Equal(t, uint16(33), f.RecordLength())
	assert.Equal(t, uint16(28), f.BaseRecordLength())
}

func TestMatchesFormatIsExact(t *testing.T) {
	gps := 1.0
	nir := uint16(2)
	full := Point{
		GPSTime:    &gps,
		Color:      &Color{},
		NIR:        &nir,
		Waveform:   &Waveform{},
		ExtraBytes: []byte{1, 2},
	}
	format := Format{
		HasGPSTime:  true,
		HasColor:    true,
		HasNIR:      true,
		HasWaveform: true,
		IsExtended:  true,
		ExtraBytes:  2,
	}
	assert.True(t, full.MatchesFormat(format))

	// Each missing attribute breaks the match.
	p := full
	p.GPSTime = nil
	assert.False(t, p.MatchesFormat(format))
	p = full
	p.Color = nil
	assert.False(t, p.MatchesFormat(format))
	p = full
	p.NIR = nil
	assert.False(t, p.MatchesFormat(format))
	p = full
	p.Waveform = nil
	assert.False(t, p.MatchesFormat(format))
	p = full
	p.ExtraBytes = []byte{1}
	assert.False(t, p.MatchesFormat(format))

	// And each surplus attribute breaks the match the other way.
	assert.False(t, full.MatchesFormat(Format{}))
	assert.False(t, Point{GPSTime: &gps}.MatchesFormat(Format{}))
}
