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

package main

import (
	"fmt"
	"io"
	"os"

	las "github.com/lidarworks/go-las"
)

func main() {
	err := runMain()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runMain() error {
	if len(os.Args) != 2 {
		return fmt.Errorf("usage: %s <filename>", os.Args[0])
	}
	path := os.Args[1]

	switch las.DetectFileType(path) {
	case las.FileTypeLAS:
	case las.FileTypeLAZ:
		return fmt.Errorf("%s is compressed (LAZ); only uncompressed LAS is supported", path)
	default:
		return fmt.Errorf("%s is not a LAS file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	r, err := las.NewReader(file)
	if err != nil {
		return err
	}
	header := r.Header()
	formatNumber, err := header.PointFormat.Number()
	if err != nil {
		return err
	}

	fmt.Println("Version:     ", header.Version)
	fmt.Println("GUID:        ", header.GUID)
	fmt.Println("System:      ", header.SystemID)
	fmt.Println("Software:    ", header.GeneratingSoftware)
	fmt.Println("Point format:", formatNumber)
	fmt.Println("Extra bytes: ", header.PointFormat.ExtraBytes)
	fmt.Println("Point count: ", header.PointCount())
	bounds := header.Bounds()
	fmt.Printf("Bounds:       (%g, %g, %g) - (%g, %g, %g)\n",
		bounds.Min.X, bounds.Min.Y, bounds.Min.Z,
		bounds.Max.X, bounds.Max.Y, bounds.Max.Z)
	fmt.Printf("Scales:       %g %g %g\n",
		header.Transforms.X.Scale, header.Transforms.Y.Scale, header.Transforms.Z.Scale)

	for i, vlr := range header.VLRs {
		fmt.Printf("VLR %d:        %s/%d %q (%d bytes)\n",
			i, vlr.UserID, vlr.RecordID, vlr.Description, len(vlr.Data))
	}

	points := 0
	for {
		_, err := r.ReadPoint()
		if err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		points++
	}
	fmt.Println("Points read: ", points)

	evlrs, err := r.ReadEVLRs()
	if err != nil {
		return err
	}
	for i, evlr := range evlrs {
		fmt.Printf("EVLR %d:       %s/%d %q (%d bytes)\n",
			i, evlr.UserID, evlr.RecordID, evlr.Description, len(evlr.Data))
	}
	return nil
}
