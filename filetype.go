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
	"strings"
)

// FileType classifies a file by its signature and point data encoding.
type FileType string

const (
	// FileTypeLAS is an uncompressed LAS file.
	FileTypeLAS FileType = "LAS"
	// FileTypeLAZ is a LAZ file: the LAS signature with compressed
	// point data. Detected but not decoded.
	FileTypeLAZ FileType = "LAZ"
	// FileTypeUnknown is anything else.
	FileTypeUnknown FileType = "UNKNOWN"
)

// DetectFileType reports whether path looks like a LAS or LAZ file.
// Both carry the same four byte signature; they are told apart by the
// compression bit in the point format field, falling back to the file
// extension when the header is truncated.
func DetectFileType(path string) FileType {
	f, err := os.Open(path)
	if err != nil {
		return FileTypeUnknown
	}
	defer f.Close()

	signature := make([]byte, 4)
	if _, err := io.ReadFull(f, signature); err != nil {
		return FileTypeUnknown
	}
	if string(signature) != lasSignature {
		return FileTypeUnknown
	}

	// The point format field is at a fixed offset in every version.
	var format [1]byte
	if _, err := f.ReadAt(format[:], pointFormatFieldOffset); err == nil {
		if format[0]&0x80 != 0 {
			return FileTypeLAZ
		}
		return FileTypeLAS
	}
	if strings.ToLower(filepath.Ext(path)) == ".laz" {
		return FileTypeLAZ
	}
	return FileTypeLAS
}

// pointFormatFieldOffset is the offset of the point format byte within
// the fixed header.
const pointFormatFieldOffset = 104
