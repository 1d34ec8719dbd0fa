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
	"bufio"
	"os"
)

func newBufferedFile(f *os.File) *bufferedFile {
	return &bufferedFile{
		f: f,
		w: bufio.NewWriter(f),
	}
}

// bufferedFile is a seek-capable buffered file sink. The buffer is
// flushed before every seek so the file position and the logical
// stream position agree.
type bufferedFile struct {
	f *os.File
	w *bufio.Writer
}

func (bf *bufferedFile) Write(p []byte) (int, error) {
	return bf.w.Write(p)
}

func (bf *bufferedFile) Seek(offset int64, whence int) (int64, error) {
	if err := bf.w.Flush(); err != nil {
		return 0, err
	}
	return bf.f.Seek(offset, whence)
}

func (bf *bufferedFile) Close() error {
	if err := bf.w.Flush(); err != nil {
		bf.f.Close()
		return err
	}
	return bf.f.Close()
}
