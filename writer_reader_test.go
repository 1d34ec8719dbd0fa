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
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidarworks/go-las/laspoint"
)

// exactTransforms uses power of two scales so coordinates survive the
// integer encoding bit for bit.
func exactTransforms() laspoint.Transforms {
	t := laspoint.Transform{Scale: 0.25, Offset: 8}
	return laspoint.Transforms{X: t, Y: t, Z: t}
}

func TestWriteReadRoundTrip(t *testing.T) {
	gps1, gps2 := 123.5, 124.25
	points := []laspoint.Point{
		{
			X: 1.25, Y: -2.5, Z: 3.75,
			Intensity:       50,
			ReturnNumber:    1,
			NumberOfReturns: 2,
			Classification:  4,
			Synthetic:       true,
			ScanAngle:       -5,
			UserData:        9,
			PointSourceID:   77,
			GPSTime:         &gps1,
			Color:           &laspoint.Color{Red: 1, Green: 2, Blue: 3},
		},
		{
			X: -10.25, Y: 20.5, Z: 0,
			ReturnNumber:     2,
			NumberOfReturns:  2,
			ScanDirection:    1,
			EdgeOfFlightLine: true,
			GPSTime:          &gps2,
			Color:            &laspoint.Color{Red: 65535},
		},
	}

	header := DefaultHeader()
	header.Version = V(1, 2)
	header.PointFormat = mustFormat(t, 3)
	header.Transforms = exactTransforms()
	header.FileSourceID = 42
	header.SystemID = "unit test"
	header.VLRs = []VLR{
		{UserID: "lidarworks", RecordID: 1, Description: "first", Data: []byte("abc")},
		{UserID: "lidarworks", RecordID: 2, Description: "second"},
	}
	header.VLRPadding = []byte{0, 1, 2, 3}

	w, err := NewMemWriter(header)
	require.NoError(t, err)
	for _, p := range points {
		require.NoError(t, w.Write(p))
	}
	sink, err := w.Inner()
	require.NoError(t, err)

	r, err := NewReader(sink.(io.ReadSeeker))
	require.NoError(t, err)

	got := r.Header()
	assert.Equal(t, header.FileSourceID, got.FileSourceID)
	assert.Equal(t, header.GUID, got.GUID)
	assert.Equal(t, header.Version, got.Version)
	assert.Equal(t, header.SystemID, got.SystemID)
	assert.Equal(t, header.PointFormat, got.PointFormat)
	assert.Empty(t, cmp.Diff(header.Transforms, got.Transforms))
	assert.Empty(t, cmp.Diff(header.VLRs, got.VLRs, cmpopts.EquateEmpty()))
	assert.Equal(t, header.VLRPadding, got.VLRPadding)
	assert.Equal(t, uint64(len(points)), got.PointCount())

	for i, want := range points {
		p, err := r.ReadPoint()
		require.NoError(t, err, "point %d", i)
		assert.Empty(t, cmp.Diff(want, p), "point %d", i)
	}
	_, err = r.ReadPoint()
	assert.Equal(t, io.EOF, err)
}

func TestEVLRRoundTrip(t *testing.T) {
	header := DefaultHeader()
	header.Version = V(1, 4)
	header.PointFormat = mustFormat(t, 6)
	header.Transforms = exactTransforms()
	header.EVLRs = []EVLR{
		{UserID: "lidarworks", RecordID: 10, Description: "trailing", Data: []byte("large payload")},
		{UserID: "lidarworks", RecordID: 11},
	}

	w, err := NewMemWriter(header)
	require.NoError(t, err)
	gps := 7.5
	require.NoError(t, w.Write(laspoint.Point{X: 1, Y: 2, Z: 3, ReturnNumber: 1, NumberOfReturns: 1, GPSTime: &gps}))
	sink, err := w.Inner()
	require.NoError(t, err)

	r, err := NewReader(sink.(io.ReadSeeker))
	require.NoError(t, err)
	_, err = r.ReadPoint()
	require.NoError(t, err)

	evlrs, err := r.ReadEVLRs()
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(header.EVLRs, evlrs, cmpopts.EquateEmpty()))
}

func TestExtendedFormatRoundTrip(t *testing.T) {
	header := DefaultHeader()
	header.Version = V(1, 4)
	header.PointFormat = mustFormat(t, 10)
	header.PointFormat.ExtraBytes = 4
	header.Transforms = exactTransforms()

	gps := 99.5
	nir := uint16(1234)
	want := laspoint.Point{
		X: 100.25, Y: 200.5, Z: -300.75,
		Intensity:       9,
		ReturnNumber:    3,
		NumberOfReturns: 5,
		Classification:  17,
		Overlap:         true,
		ScannerChannel:  2,
		ScanAngle:       30.006,
		GPSTime:         &gps,
		Color:           &laspoint.Color{Red: 10, Green: 20, Blue: 30},
		NIR:             &nir,
		Waveform: &laspoint.Waveform{
			DescriptorIndex:     1,
			ByteOffset:          2048,
			PacketSize:          256,
			ReturnPointLocation: 0.5,
			Xt:                  1, Yt: 2, Zt: 3,
		},
		ExtraBytes: []byte{0xde, 0xad, 0xbe, 0xef},
	}

	w, err := NewMemWriter(header)
	require.NoError(t, err)
	require.NoError(t, w.Write(want))
	sink, err := w.Inner()
	require.NoError(t, err)

	r, err := NewReader(sink.(io.ReadSeeker))
	require.NoError(t, err)
	got, err := r.ReadPoint()
	require.NoError(t, err)

	// The extended scan angle is stored in 0.006 degree steps.
	assert.InDelta(t, want.ScanAngle, got.ScanAngle, 0.003)
	got.ScanAngle = want.ScanAngle
	assert.Empty(t, cmp.Diff(want, got))
}

func TestWriterOnAferoFile(t *testing.T) {
	afs := &afero.Afero{Fs: afero.NewMemMapFs()}
	f, err := afs.Create("points.las")
	require.NoError(t, err)

	header := DefaultHeader()
	header.Transforms = exactTransforms()
	w, err := NewWriter(f, header)
	require.NoError(t, err)
	require.NoError(t, w.Write(laspoint.Point{X: 1, Y: 1, Z: 1}))
	require.NoError(t, w.Close())

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)
	r, err := NewReader(f)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), r.PointCount())
	require.NoError(t, f.Close())
}

func TestFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.las")

	header := DefaultHeader()
	header.GUID = uuid.MustParse("01234567-89ab-cdef-0123-456789abcdef")
	header.Transforms = exactTransforms()
	w, err := FromPath(path, header)
	require.NoError(t, err)
	require.NoError(t, w.Write(laspoint.Point{X: 4, Y: 5, Z: 6}))
	require.NoError(t, w.Write(laspoint.Point{X: 7, Y: 8, Z: 9}))
	require.NoError(t, w.Close())

	assert.Equal(t, FileTypeLAS, DetectFileType(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	r, err := NewReader(f)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), r.PointCount())
	assert.Equal(t, header.GUID, r.Header().GUID)
}
