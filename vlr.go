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
	"math"

	"github.com/pkg/errors"
)

// VLR is a variable length record, stored between the header and the
// point records. Each record describes its own payload length.
type VLR struct {
	UserID      string
	RecordID    uint16
	Description string
	Data        []byte
}

// EVLR is an extended variable length record, stored after the point
// records. Its payload length field is 64 bits wide so it can carry
// larger or late-bound payloads than a VLR.
type EVLR struct {
	UserID      string
	RecordID    uint16
	Description string
	Data        []byte
}

const (
	vlrHeaderSize  = 54
	evlrHeaderSize = 60
)

type rawVLRHeader struct {
	Reserved    uint16
	UserID      [16]byte
	RecordID    uint16
	RecordLen   uint16
	Description [32]byte
}

type rawEVLRHeader struct {
	Reserved    uint16
	UserID      [16]byte
	RecordID    uint16
	RecordLen   uint64
	Description [32]byte
}

// byteLen returns the record's total on-disk length.
func (v VLR) byteLen() uint32 {
	return vlrHeaderSize + uint32(len(v.Data))
}

func (v VLR) writeTo(w io.Writer) error {
	if len(v.Data) > math.MaxUint16 {
		return errors.Errorf("vlr payload is %d bytes, maximum is %d", len(v.Data), math.MaxUint16)
	}
	raw := rawVLRHeader{
		RecordID:  v.RecordID,
		RecordLen: uint16(len(v.Data)),
	}
	if err := fillFixedString(raw.UserID[:], v.UserID); err != nil {
		return errors.Wrap(err, "vlr user id")
	}
	if err := fillFixedString(raw.Description[:], v.Description); err != nil {
		return errors.Wrap(err, "vlr description")
	}
	if err := binary.Write(w, binary.LittleEndian, raw); err != nil {
		return err
	}
	_, err := w.Write(v.Data)
	return err
}

func readVLR(r io.Reader) (VLR, error) {
	var raw rawVLRHeader
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return VLR{}, err
	}
	vlr := VLR{
		UserID:      trimFixedString(raw.UserID[:]),
		RecordID:    raw.RecordID,
		Description: trimFixedString(raw.Description[:]),
		Data:        make([]byte, raw.RecordLen),
	}
	if _, err := io.ReadFull(r, vlr.Data); err != nil {
		return VLR{}, err
	}
	return vlr, nil
}

func (v EVLR) writeTo(w io.Writer) error {
	raw := rawEVLRHeader{
		RecordID:  v.RecordID,
		RecordLen: uint64(len(v.Data)),
	}
	if err := fillFixedString(raw.UserID[:], v.UserID); err != nil {
		return errors.Wrap(err, "evlr user id")
	}
	if err := fillFixedString(raw.Description[:], v.Description); err != nil {
		return errors.Wrap(err, "evlr description")
	}
	if err := binary.Write(w, binary.LittleEndian, raw); err != nil {
		return err
	}
	_, err := w.Write(v.Data)
	return err
}

func readEVLR(r io.Reader) (EVLR, error) {
	var raw rawEVLRHeader
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return EVLR{}, err
	}
	evlr := EVLR{
		UserID:      trimFixedString(raw.UserID[:]),
		RecordID:    raw.RecordID,
		Description: trimFixedString(raw.Description[:]),
		Data:        make([]byte, raw.RecordLen),
	}
	if _, err := io.ReadFull(r, evlr.Data); err != nil {
		return EVLR{}, err
	}
	return evlr, nil
}

// fillFixedString copies s into a fixed-size, zero-padded field.
func fillFixedString(dst []byte, s string) error {
	if len(s) > len(dst) {
		return errors.Errorf("%q is longer than %d bytes", s, len(dst))
	}
	copy(dst, s)
	return nil
}

// trimFixedString drops the zero padding from a fixed-size field.
func trimFixedString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
