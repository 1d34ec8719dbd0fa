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

	"github.com/pkg/errors"

	"github.com/lidarworks/go-las/laspoint"
)

// NewReader returns a Reader over r, which must be positioned at the
// start of a LAS stream. The header and VLR table are decoded
// immediately; the reader is left positioned at the first point
// record.
func NewReader(r io.ReadSeeker) (*Reader, error) {
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	return &Reader{
		r:      r,
		header: header,
	}, nil
}

// Reader reads LAS data: the header up front, then one point record
// per ReadPoint call, in stream order.
type Reader struct {
	r      io.ReadSeeker
	header Header
	read   uint64
}

// Header returns the decoded header.
func (r *Reader) Header() Header {
	return r.header
}

// Version returns the stream's format version.
func (r *Reader) Version() Version {
	return r.header.Version
}

// PointCount returns the point count reported by the header.
func (r *Reader) PointCount() uint64 {
	return r.header.PointCount()
}

// ReadPoint reads the next point record. It returns io.EOF once the
// header's point count has been consumed.
func (r *Reader) ReadPoint() (laspoint.Point, error) {
	if r.read >= r.header.pointCount {
		return laspoint.Point{}, io.EOF
	}
	p, err := laspoint.ReadBinary(r.r, r.header.PointFormat, r.header.Transforms)
	if err != nil {
		return p, errors.Wrapf(err, "reading point %d", r.read)
	}
	r.read++
	return p, nil
}

// ReadEVLRs seeks to the extended variable length records trailing the
// point data and decodes them. Versions before 1.4 do not record
// EVLRs, so nil is returned for those streams. The point read position
// is not preserved, so read all points first.
func (r *Reader) ReadEVLRs() ([]EVLR, error) {
	if !r.header.Version.HasEVLRs() || r.header.evlrCount == 0 {
		return nil, nil
	}
	if _, err := r.r.Seek(int64(r.header.evlrStart), io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seeking to evlr table")
	}
	evlrs := make([]EVLR, 0, r.header.evlrCount)
	for i := uint32(0); i < r.header.evlrCount; i++ {
		evlr, err := readEVLR(r.r)
		if err != nil {
			return nil, errors.Wrapf(err, "reading evlr %d", i)
		}
		evlrs = append(evlrs, evlr)
	}
	return evlrs, nil
}
