// Copyright 2019 Fabian Wenzelmann
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package deepmosaic

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DeepZoomNamespace is the xml namespace of Deep Zoom descriptors.
const DeepZoomNamespace = "http://schemas.microsoft.com/deepzoom/2008"

// Descriptor is the content of a .dzi file. It describes a pyramid generated
// by PyramidGenerator.
type Descriptor struct {
	XMLName  xml.Name       `xml:"http://schemas.microsoft.com/deepzoom/2008 Image"`
	TileSize int            `xml:"TileSize,attr"`
	Overlap  int            `xml:"Overlap,attr"`
	Format   string         `xml:"Format,attr"`
	Size     DescriptorSize `xml:"Size"`
}

// DescriptorSize contains the dimensions of the full resolution image.
type DescriptorSize struct {
	Width  int `xml:"Width,attr"`
	Height int `xml:"Height,attr"`
}

// NewDescriptor returns the descriptor of a jpg pyramid without overlap.
func NewDescriptor(width, height, tileSize int) Descriptor {
	return Descriptor{
		TileSize: tileSize,
		Overlap:  0,
		Format:   "jpg",
		Size:     DescriptorSize{Width: width, Height: height},
	}
}

// WriteTo writes the descriptor as xml document.
func (d Descriptor) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, `%s<Image TileSize="%d" Overlap="%d" Format="%s"
    xmlns="%s">
    <Size Width="%d" Height="%d"/>
</Image>
`, xml.Header, d.TileSize, d.Overlap, d.Format, DeepZoomNamespace, d.Size.Width, d.Size.Height)
	return int64(n), err
}

// DescriptorPath returns the path of the descriptor belonging to a pyramid
// directory. Deep Zoom viewers expect the tiles of foo.dzi in foo_files, so
// "out/foo_files" gives "out/foo.dzi". Directories without the _files suffix
// get ".dzi" appended.
func DescriptorPath(outputDir string) string {
	outputDir = filepath.Clean(outputDir)
	base := filepath.Base(outputDir)
	if name := strings.TrimSuffix(base, "_files"); name != base && name != "" {
		return filepath.Join(filepath.Dir(outputDir), name+".dzi")
	}
	return outputDir + ".dzi"
}

// WriteDescriptor writes the descriptor to the given file.
func WriteDescriptor(path string, d Descriptor) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	_, writeErr := d.WriteTo(f)
	closeErr := f.Close()
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}

// ReadDescriptor parses a .dzi file.
func ReadDescriptor(path string) (Descriptor, error) {
	var d Descriptor
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, &NotFoundError{Path: path, Err: err}
		}
		return d, err
	}
	if err := xml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("Invalid descriptor %s: %w", path, err)
	}
	return d, nil
}
