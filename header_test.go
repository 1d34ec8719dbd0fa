// Copyright 2026 Lidarworks
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package las

import (
	"encoding/binary"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidarworks/go-las/laspoint"
)

func TestHeaderSizes(t *testing.T) {
	sizes := map[Version]uint16{
		V(1, 0): 227,
		V(1, 1): 227,
		V(1, 2): 227,
		V(1, 3): 235,
		V(1, 4): 375,
	}
	for v, want := range sizes {
		got, err := v.HeaderSize()
		require.NoError(t, err)
		assert.Equal(t, want, got, "version %s", v)
	}

	_, err := V(1, 5).HeaderSize()
	assert.Error(t, err)
	_, err = V(2, 0).HeaderSize()
	assert.Error(t, err)
}

func TestRawHeaderLayoutSize(t *testing.T) {
	assert.Equal(t, headerSize10, binary.Size(rawHeader{}))
	assert.Equal(t, headerSize14-headerSize13, binary.Size(rawHeader14{}))
}

func TestVersionSupports(t *testing.T) {
	cases := []struct {
		version Version
		format  uint8
		want    bool
	}{
		{V(1, 0), 0, true},
		{V(1, 0), 1, true},
		{V(1, 0), 2, false},
		{V(1, 2), 2, true},
		{V(1, 2), 4, false},
		{V(1, 3), 4, true},
		{V(1, 3), 6, false},
		{V(1, 4), 6, true},
		{V(1, 4), 10, true},
	}
	for _, c := range cases {
		f, err := laspoint.NewFormat(c.format)
		require.NoError(t, err)
		assert.Equal(t, c.want, c.version.Supports(f), "version %s format %d", c.version, c.format)
	}
}

func TestOffsetToPointData(t *testing.T) {
	h := DefaultHeader()
	h.VLRs = []VLR{
		{Data: []byte("12345")},
		{},
	}
	h.VLRPadding = []byte{1, 2}

	offset, err := h.OffsetToPointData()
	require.NoError(t, err)
	assert.Equal(t, uint32(227+54+5+54+2), offset)
}

func TestGUIDBytesRoundTrip(t *testing.T) {
	u := uuid.MustParse("fedcba98-7654-3210-0123-456789abcdef")
	assert.Equal(t, u, guidFromBytes(guidBytes(u)))

	// The first group is stored little-endian on disk.
	b := guidBytes(u)
	assert.Equal(t, byte(0x98), b[0])
	assert.Equal(t, byte(0xfe), b[3])
}

func TestHeaderRejectsLongStrings(t *testing.T) {
	h := DefaultHeader()
	h.SystemID = "this system identifier is far longer than the thirty two byte field"
	_, err := NewMemWriter(h)
	assert.Error(t, err)
}

func TestHeaderFinalizedFormMatchesPlaceholderLength(t *testing.T) {
	for _, version := range []Version{V(1, 0), V(1, 2), V(1, 3), V(1, 4)} {
		h := DefaultHeader()
		h.Version = version

		var placeholder memSeeker
		require.NoError(t, h.writeTo(&placeholder))

		h.AddPoint(laspoint.Point{X: 1, Y: 2, Z: 3})
		var finalized memSeeker
		require.NoError(t, h.writeTo(&finalized))

		assert.Equal(t, len(placeholder.buf), len(finalized.buf), "version %s", version)
		size, err := version.HeaderSize()
		require.NoError(t, err)
		assert.Equal(t, int(size), len(placeholder.buf), "version %s", version)
	}
}
