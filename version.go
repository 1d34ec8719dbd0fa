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
	"fmt"

	"github.com/pkg/errors"

	"github.com/lidarworks/go-las/laspoint"
)

// Version is a LAS format version.
type Version struct {
	Major uint8
	Minor uint8
}

// V returns the version major.minor.
func V(major, minor uint8) Version {
	return Version{Major: major, Minor: minor}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// HeaderSize returns the fixed header size in bytes for this version.
func (v Version) HeaderSize() (uint16, error) {
	if v.Major != 1 {
		return 0, errors.Errorf("unsupported version %s", v)
	}
	switch v.Minor {
	case 0, 1, 2:
		return headerSize10, nil
	case 3:
		return headerSize13, nil
	case 4:
		return headerSize14, nil
	default:
		return 0, errors.Errorf("unsupported version %s", v)
	}
}

// Supports reports whether this version can carry the given point
// format.
func (v Version) Supports(f laspoint.Format) bool {
	if _, err := v.HeaderSize(); err != nil {
		return false
	}
	switch {
	case f.IsExtended:
		return v.Minor >= 4
	case f.HasWaveform:
		return v.Minor >= 3
	case f.HasColor:
		return v.Minor >= 2
	default:
		return true
	}
}

// HasEVLRs reports whether this version records extended variable
// length records.
func (v Version) HasEVLRs() bool {
	return v.Major == 1 && v.Minor >= 4
}

const (
	headerSize10 = 227
	headerSize13 = 235
	headerSize14 = 375
)
