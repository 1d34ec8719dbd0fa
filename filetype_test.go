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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFileType(t *testing.T) {
	dir := t.TempDir()

	lasPath := filepath.Join(dir, "points.las")
	w, err := FromPath(lasPath, DefaultHeader())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// A LAZ file is the same header with the compression bit set on
	// the point format field.
	data, err := os.ReadFile(lasPath)
	require.NoError(t, err)
	data[pointFormatFieldOffset] |= 0x80
	lazPath := filepath.Join(dir, "points.laz")
	require.NoError(t, os.WriteFile(lazPath, data, 0o644))

	textPath := filepath.Join(dir, "points.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("not a point cloud"), 0o644))

	assert.Equal(t, FileTypeLAS, DetectFileType(lasPath))
	assert.Equal(t, FileTypeLAZ, DetectFileType(lazPath))
	assert.Equal(t, FileTypeUnknown, DetectFileType(textPath))
	assert.Equal(t, FileTypeUnknown, DetectFileType(filepath.Join(dir, "missing.las")))
}

func TestReaderRejectsLaz(t *testing.T) {
	dir := t.TempDir()
	lasPath := filepath.Join(dir, "points.las")
	w, err := FromPath(lasPath, DefaultHeader())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(lasPath)
	require.NoError(t, err)
	data[pointFormatFieldOffset] |= 0x80
	lazPath := filepath.Join(dir, "points.laz")
	require.NoError(t, os.WriteFile(lazPath, data, 0o644))

	f, err := os.Open(lazPath)
	require.NoError(t, err)
	defer f.Close()
	_, err = NewReader(f)
	assert.Error(t, err)
}
