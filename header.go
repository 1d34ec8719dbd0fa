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
	"io"
	"io/ioutil"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/lidarworks/go-las/laspoint"
)

const lasSignature = "LASF"

// generatingSoftware is written into headers produced by DefaultHeader.
const generatingSoftware = "go-las"

// Header holds a stream's configuration and its running aggregate
// statistics. Callers populate the exported configuration fields and
// hand the header to a Writer; the point count and bounds are
// accumulated by the writer as points are accepted and are persisted
// when the header is finalized.
type Header struct {
	FileSourceID          uint16
	GlobalEncoding        uint16
	GUID                  uuid.UUID
	Version               Version
	SystemID              string
	GeneratingSoftware    string
	FileCreationDayOfYear uint16
	FileCreationYear      uint16
	PointFormat           laspoint.Format
	Transforms            laspoint.Transforms

	// VLRs are written between the header and the point records,
	// EVLRs after the last point record, both in slice order.
	// VLRPadding is written verbatim between the VLR table and the
	// point records.
	VLRs       []VLR
	EVLRs      []EVLR
	VLRPadding []byte

	pointCount     uint64
	pointsByReturn [15]uint64
	bounds         laspoint.Bounds
	evlrStart      uint64
	evlrCount      uint32
}

// DefaultHeader returns a LAS 1.2, point format 0 header with
// millimetre transforms and the creation date set to today.
func DefaultHeader() Header {
	now := time.Now()
	return Header{
		GUID:                  uuid.New(),
		Version:               V(1, 2),
		SystemID:              generatingSoftware,
		GeneratingSoftware:    generatingSoftware,
		FileCreationDayOfYear: uint16(now.YearDay()),
		FileCreationYear:      uint16(now.Year()),
		Transforms:            laspoint.DefaultTransforms(),
		bounds:                laspoint.NewBounds(),
	}
}

// Clear discards the header's aggregate statistics. Configuration
// fields are untouched.
func (h *Header) Clear() {
	h.pointCount = 0
	h.pointsByReturn = [15]uint64{}
	h.bounds = laspoint.NewBounds()
	h.evlrStart = 0
	h.evlrCount = 0
}

// AddPoint accumulates one accepted point into the running count and
// bounds.
func (h *Header) AddPoint(p laspoint.Point) {
	h.pointCount++
	if n := p.ReturnNumber; n >= 1 && n <= 15 {
		h.pointsByReturn[n-1]++
	}
	h.bounds.Grow(laspoint.Vector{X: p.X, Y: p.Y, Z: p.Z})
}

// PointCount returns the number of points accumulated so far.
func (h Header) PointCount() uint64 {
	return h.pointCount
}

// Bounds returns the componentwise min/max of the accumulated points.
func (h Header) Bounds() laspoint.Bounds {
	return h.bounds
}

// OffsetToPointData returns the stream offset at which the point
// records begin.
func (h Header) OffsetToPointData() (uint32, error) {
	size, err := h.Version.HeaderSize()
	if err != nil {
		return 0, err
	}
	offset := uint64(size) + uint64(len(h.VLRPadding))
	for _, vlr := range h.VLRs {
		offset += uint64(vlr.byteLen())
	}
	if offset > math.MaxUint32 {
		return 0, errors.Errorf("offset to point data %d overflows the header field", offset)
	}
	return uint32(offset), nil
}

// rawHeader is the fixed header layout shared by all 1.x versions.
// Later minor versions append fields after it.
type rawHeader struct {
	Signature             [4]byte
	FileSourceID          uint16
	GlobalEncoding        uint16
	GUID                  [16]byte
	VersionMajor          uint8
	VersionMinor          uint8
	SystemID              [32]byte
	GeneratingSoftware    [32]byte
	FileCreationDayOfYear uint16
	FileCreationYear      uint16
	HeaderSize            uint16
	OffsetToPointData     uint32
	NumberOfVLRs          uint32
	PointFormat           uint8
	PointRecordLength     uint16
	LegacyPointCount      uint32
	LegacyPointsByReturn  [5]uint32
	XScale                float64
	YScale                float64
	ZScale                float64
	XOffset               float64
	YOffset               float64
	ZOffset               float64
	MaxX                  float64
	MinX                  float64
	MaxY                  float64
	MinY                  float64
	MaxZ                  float64
	MinZ                  float64
}

// rawHeader14 holds the fields LAS 1.4 appends to the fixed header.
type rawHeader14 struct {
	EVLRStart      uint64
	EVLRCount      uint32
	PointCount     uint64
	PointsByReturn [15]uint64
}

// writeTo encodes the header in its binary form. It is used both for
// the placeholder written at construction and the finalized header
// written at close; the encoded size depends only on the version, so
// the finalized form exactly overwrites the placeholder.
func (h *Header) writeTo(w io.Writer) error {
	formatNumber, err := h.PointFormat.Number()
	if err != nil {
		return err
	}
	size, err := h.Version.HeaderSize()
	if err != nil {
		return err
	}
	if !h.Version.Supports(h.PointFormat) {
		return errors.Errorf("version %s does not support point format %d", h.Version, formatNumber)
	}
	if len(h.EVLRs) > 0 && !h.Version.HasEVLRs() {
		return errors.Errorf("version %s does not support extended variable length records", h.Version)
	}
	offset, err := h.OffsetToPointData()
	if err != nil {
		return err
	}

	raw := rawHeader{
		FileSourceID:          h.FileSourceID,
		GlobalEncoding:        h.GlobalEncoding,
		GUID:                  guidBytes(h.GUID),
		VersionMajor:          h.Version.Major,
		VersionMinor:          h.Version.Minor,
		FileCreationDayOfYear: h.FileCreationDayOfYear,
		FileCreationYear:      h.FileCreationYear,
		HeaderSize:            size,
		OffsetToPointData:     offset,
		NumberOfVLRs:          uint32(len(h.VLRs)),
		PointFormat:           formatNumber,
		PointRecordLength:     h.PointFormat.RecordLength(),
		XScale:                h.Transforms.X.Scale,
		YScale:                h.Transforms.Y.Scale,
		ZScale:                h.Transforms.Z.Scale,
		XOffset:               h.Transforms.X.Offset,
		YOffset:               h.Transforms.Y.Offset,
		ZOffset:               h.Transforms.Z.Offset,
	}
	copy(raw.Signature[:], lasSignature)
	if err := fillFixedString(raw.SystemID[:], h.SystemID); err != nil {
		return errors.Wrap(err, "system id")
	}
	if err := fillFixedString(raw.GeneratingSoftware[:], h.GeneratingSoftware); err != nil {
		return errors.Wrap(err, "generating software")
	}
	if err := h.fillLegacyCounts(&raw); err != nil {
		return err
	}
	if !h.bounds.IsEmpty() {
		raw.MinX, raw.MaxX = h.bounds.Min.X, h.bounds.Max.X
		raw.MinY, raw.MaxY = h.bounds.Min.Y, h.bounds.Max.Y
		raw.MinZ, raw.MaxZ = h.bounds.Min.Z, h.bounds.Max.Z
	}

	if err := binary.Write(w, binary.LittleEndian, raw); err != nil {
		return errors.Wrap(err, "writing header")
	}
	if h.Version.Minor >= 3 {
		// Start of waveform data packet record; waveform payloads are
		// carried in (E)VLRs here, so the field stays zero.
		if err := binary.Write(w, binary.LittleEndian, uint64(0)); err != nil {
			return errors.Wrap(err, "writing header")
		}
	}
	if h.Version.Minor >= 4 {
		raw14 := rawHeader14{
			EVLRStart:      h.evlrStart,
			EVLRCount:      uint32(len(h.EVLRs)),
			PointCount:     h.pointCount,
			PointsByReturn: h.pointsByReturn,
		}
		if err := binary.Write(w, binary.LittleEndian, raw14); err != nil {
			return errors.Wrap(err, "writing header")
		}
	}
	return nil
}

// fillLegacyCounts populates the 32 bit count fields. Pre-1.4 headers
// have no wider fields, so overflow there is an error; 1.4 headers
// zero the legacy fields when they cannot represent the counts.
func (h *Header) fillLegacyCounts(raw *rawHeader) error {
	overflow := h.pointCount > math.MaxUint32
	if h.Version.Minor < 4 {
		if overflow {
			return errors.Errorf("point count %d overflows the version %s header", h.pointCount, h.Version)
		}
		raw.LegacyPointCount = uint32(h.pointCount)
		for i := 0; i < 5; i++ {
			raw.LegacyPointsByReturn[i] = uint32(h.pointsByReturn[i])
		}
		return nil
	}
	if h.PointFormat.IsExtended || overflow {
		// 1.4 readers use the wide fields instead.
		return nil
	}
	raw.LegacyPointCount = uint32(h.pointCount)
	for i := 0; i < 5; i++ {
		raw.LegacyPointsByReturn[i] = uint32(h.pointsByReturn[i])
	}
	return nil
}

// readHeader decodes a header, its VLR table and the VLR padding from
// r, leaving r positioned at the first point record.
func readHeader(r io.Reader) (Header, error) {
	var raw rawHeader
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return Header{}, errors.Wrap(err, "reading header")
	}
	if string(raw.Signature[:]) != lasSignature {
		return Header{}, errors.Errorf("bad file signature %q", raw.Signature)
	}
	h := Header{
		FileSourceID:          raw.FileSourceID,
		GlobalEncoding:        raw.GlobalEncoding,
		GUID:                  guidFromBytes(raw.GUID),
		Version:               V(raw.VersionMajor, raw.VersionMinor),
		SystemID:              trimFixedString(raw.SystemID[:]),
		GeneratingSoftware:    trimFixedString(raw.GeneratingSoftware[:]),
		FileCreationDayOfYear: raw.FileCreationDayOfYear,
		FileCreationYear:      raw.FileCreationYear,
		Transforms: laspoint.Transforms{
			X: laspoint.Transform{Scale: raw.XScale, Offset: raw.XOffset},
			Y: laspoint.Transform{Scale: raw.YScale, Offset: raw.YOffset},
			Z: laspoint.Transform{Scale: raw.ZScale, Offset: raw.ZOffset},
		},
		pointCount: uint64(raw.LegacyPointCount),
		bounds: laspoint.Bounds{
			Min: laspoint.Vector{X: raw.MinX, Y: raw.MinY, Z: raw.MinZ},
			Max: laspoint.Vector{X: raw.MaxX, Y: raw.MaxY, Z: raw.MaxZ},
		},
	}
	for i := 0; i < 5; i++ {
		h.pointsByReturn[i] = uint64(raw.LegacyPointsByReturn[i])
	}

	size, err := h.Version.HeaderSize()
	if err != nil {
		return Header{}, err
	}
	if raw.PointFormat&0x80 != 0 {
		return Header{}, errors.New("compressed (laz) point data is not supported")
	}
	h.PointFormat, err = laspoint.NewFormat(raw.PointFormat)
	if err != nil {
		return Header{}, err
	}
	base := h.PointFormat.BaseRecordLength()
	if raw.PointRecordLength < base {
		return Header{}, errors.Errorf("point record length %d is shorter than the %d byte base of format %d",
			raw.PointRecordLength, base, raw.PointFormat)
	}
	h.PointFormat.ExtraBytes = raw.PointRecordLength - base

	if h.Version.Minor >= 3 {
		var waveformStart uint64
		if err := binary.Read(r, binary.LittleEndian, &waveformStart); err != nil {
			return Header{}, errors.Wrap(err, "reading header")
		}
	}
	if h.Version.Minor >= 4 {
		var raw14 rawHeader14
		if err := binary.Read(r, binary.LittleEndian, &raw14); err != nil {
			return Header{}, errors.Wrap(err, "reading header")
		}
		h.evlrStart = raw14.EVLRStart
		h.evlrCount = raw14.EVLRCount
		if raw14.PointCount > 0 {
			h.pointCount = raw14.PointCount
			h.pointsByReturn = raw14.PointsByReturn
		}
	}
	// Tolerate headers longer than this version's known layout.
	if raw.HeaderSize > size {
		if _, err := io.CopyN(ioutil.Discard, r, int64(raw.HeaderSize-size)); err != nil {
			return Header{}, errors.Wrap(err, "skipping header tail")
		}
	}

	consumed := uint32(raw.HeaderSize)
	if raw.HeaderSize < size {
		consumed = uint32(size)
	}
	for i := uint32(0); i < raw.NumberOfVLRs; i++ {
		vlr, err := readVLR(r)
		if err != nil {
			return Header{}, errors.Wrapf(err, "reading vlr %d", i)
		}
		h.VLRs = append(h.VLRs, vlr)
		consumed += vlr.byteLen()
	}
	if raw.OffsetToPointData < consumed {
		return Header{}, errors.Errorf("offset to point data %d lies inside the vlr table", raw.OffsetToPointData)
	}
	if padding := raw.OffsetToPointData - consumed; padding > 0 {
		h.VLRPadding = make([]byte, padding)
		if _, err := io.ReadFull(r, h.VLRPadding); err != nil {
			return Header{}, errors.Wrap(err, "reading vlr padding")
		}
	}
	return h, nil
}

// guidBytes encodes the project GUID in its on-disk form: the first
// three groups little-endian, the rest verbatim.
func guidBytes(u uuid.UUID) [16]byte {
	var b [16]byte
	binary.LittleEndian.PutUint32(b[0:4], binary.BigEndian.Uint32(u[0:4]))
	binary.LittleEndian.PutUint16(b[4:6], binary.BigEndian.Uint16(u[4:6]))
	binary.LittleEndian.PutUint16(b[6:8], binary.BigEndian.Uint16(u[6:8]))
	copy(b[8:], u[8:])
	return b
}

func guidFromBytes(b [16]byte) uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint32(u[0:4], binary.LittleEndian.Uint32(b[0:4]))
	binary.BigEndian.PutUint16(u[4:6], binary.LittleEndian.Uint16(b[4:6]))
	binary.BigEndian.PutUint16(u[6:8], binary.LittleEndian.Uint16(b[6:8]))
	copy(u[8:], b[8:])
	return u
}
