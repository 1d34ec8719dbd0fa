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
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	pkgerrors "github.com/pkg/errors"

	"github.com/lidarworks/go-las/laspoint"
)

// ErrClosed is returned by Write and Close once the writer has been
// closed.
var ErrClosed = errors.New("las: writer is closed")

// PointAttributesError is returned by Write when a point's optional
// attributes do not exactly match the active point format. It carries
// the rejected point so no data is lost unnoticed.
type PointAttributesError struct {
	Format laspoint.Format
	Point  laspoint.Point
}

func (e *PointAttributesError) Error() string {
	return fmt.Sprintf("las: point attributes %+v do not match point format %+v", e.Point, e.Format)
}

// pointDataStartSignature precedes the point records in LAS 1.0
// streams. It is carried as VLR padding so the offset bookkeeping
// stays uniform across versions.
var pointDataStartSignature = []byte{0xDD, 0xCC}

// Writer writes LAS data to a seekable sink.
//
// The header must physically lead the stream but reports the point
// count and bounds, which are only known once the last point has been
// written. NewWriter therefore writes a placeholder header and Close
// seeks back and overwrites it with the finalized values. A Writer
// that is garbage collected while still open is closed by a finalizer,
// which panics if that close fails; call Close explicitly to observe
// errors.
type Writer struct {
	closed bool
	header Header
	sink   io.WriteSeeker
	owned  io.Closer
}

// NewWriter creates a Writer over w, which is expected to be
// positioned at the start of its stream.
//
// The header supplies configuration only: its count and bounds are
// cleared, and the placeholder header, the VLR table and any VLR
// padding are written immediately. For LAS 1.0 a nil VLRPadding
// defaults to the two byte point data start signature.
func NewWriter(w io.WriteSeeker, header Header) (*Writer, error) {
	header.Clear()
	if header.Version == V(1, 0) && header.VLRPadding == nil {
		header.VLRPadding = pointDataStartSignature
	}
	if err := header.writeTo(w); err != nil {
		return nil, err
	}
	for i, vlr := range header.VLRs {
		if err := vlr.writeTo(w); err != nil {
			return nil, pkgerrors.Wrapf(err, "writing vlr %d", i)
		}
	}
	if len(header.VLRPadding) > 0 {
		if _, err := w.Write(header.VLRPadding); err != nil {
			return nil, pkgerrors.Wrap(err, "writing vlr padding")
		}
	}
	writer := &Writer{
		header: header,
		sink:   w,
	}
	runtime.SetFinalizer(writer, (*Writer).finalize)
	return writer, nil
}

// FromPath creates a Writer over a newly created, buffered file.
// Close flushes and closes the file.
func FromPath(path string, header Header) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	bf := newBufferedFile(f)
	w, err := NewWriter(bf, header)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.owned = bf
	return w, nil
}

// NewMemWriter creates a Writer over an in-memory growable buffer.
// Inner returns the buffer positioned at the start of the stream; it
// also implements io.Reader.
func NewMemWriter(header Header) (*Writer, error) {
	return NewWriter(new(memSeeker), header)
}

// DefaultWriter returns an in-memory Writer with a default header.
func DefaultWriter() *Writer {
	w, err := NewMemWriter(DefaultHeader())
	if err != nil {
		// The default header always encodes.
		panic(err)
	}
	return w
}

// Header returns a copy of the writer's header, including the running
// count and bounds.
func (w *Writer) Header() Header {
	return w.header
}

// Write validates the point against the active point format and
// appends its binary form to the stream.
//
// Validation is strict in both directions: an attribute the format
// does not carry is rejected rather than silently dropped, and a
// missing required attribute is rejected rather than defaulted. A
// rejected point leaves the writer's state untouched.
//
// On the accepted path the header's count and bounds are updated
// before the physical write, so a Write that fails with an I/O or
// encode error leaves the header counting a point that is not on the
// stream. Callers must treat the writer's committed state as ambiguous
// after a failed Write.
func (w *Writer) Write(p laspoint.Point) error {
	if w.closed {
		return ErrClosed
	}
	if !p.MatchesFormat(w.header.PointFormat) {
		return &PointAttributesError{Format: w.header.PointFormat, Point: p}
	}
	w.header.AddPoint(p)
	return p.WriteBinary(w.sink, w.header.PointFormat, w.header.Transforms)
}

// Close appends the EVLR table, seeks back to the start of the stream
// and overwrites the placeholder header with the finalized one, closes
// any owned file, then marks the writer closed.
//
// If any step fails the writer stays open so Close can be retried,
// but the stream may be left partially finalized.
func (w *Writer) Close() error {
	if w.closed {
		return ErrClosed
	}
	if len(w.header.EVLRs) > 0 {
		pos, err := w.sink.Seek(0, io.SeekCurrent)
		if err != nil {
			return pkgerrors.Wrap(err, "finding evlr start")
		}
		w.header.evlrStart = uint64(pos)
		for i, evlr := range w.header.EVLRs {
			if err := evlr.writeTo(w.sink); err != nil {
				return pkgerrors.Wrapf(err, "writing evlr %d", i)
			}
		}
	}
	if _, err := w.sink.Seek(0, io.SeekStart); err != nil {
		return pkgerrors.Wrap(err, "seeking to stream start")
	}
	if err := w.header.writeTo(w.sink); err != nil {
		return err
	}
	if w.owned != nil {
		// Closing the owned sink flushes the finalized header, so it
		// must succeed before the writer is marked closed.
		if err := w.owned.Close(); err != nil {
			return err
		}
	}
	w.closed = true
	runtime.SetFinalizer(w, nil)
	return nil
}

// Inner closes the writer if it is still open and returns the
// underlying sink positioned at the start of the stream, ready to read
// back what was written.
func (w *Writer) Inner() (io.WriteSeeker, error) {
	if !w.closed {
		if err := w.Close(); err != nil {
			return nil, err
		}
	}
	if _, err := w.sink.Seek(0, io.SeekStart); err != nil {
		return nil, pkgerrors.Wrap(err, "seeking to stream start")
	}
	return w.sink, nil
}

// finalize runs if an open writer is garbage collected. Without it
// the finalized header would never reach the stream and the file
// would be unreadable. There is no caller to report to here, so a
// failure is fatal.
func (w *Writer) finalize() {
	if !w.closed {
		if err := w.Close(); err != nil {
			panic(fmt.Sprintf("las: closing leaked writer: %v", err))
		}
	}
}
