// Copyright 2018 Fabian Wenzelmann
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
	"fmt"
	"image"
	"image/color"
	"reflect"
	"strings"
)

// SupportedImageFunc is a function that takes a file extension and decides if
// this file extension is supported.
//
// The extension passed to this function could be for example ".txt" or ".jpg".
// JPGAndPNG is an implementation accepting jpg and png files.
type SupportedImageFunc func(ext string) bool

// JPGAndPNG is an implementation of SupportedImageFunc accepting jpg and png
// file extensions (case-insensitive).
func JPGAndPNG(ext string) bool {
	ext = strings.ToLower(ext)
	switch ext {
	case ".jpg", ".jpeg", ".png":
		return true
	default:
		return false
	}
}

// RGB is a color containing r, g and b components.
type RGB struct {
	R, G, B uint8
}

// NewRGB returns a new RGB color.
func NewRGB(r, g, b uint8) RGB {
	return RGB{R: r, G: g, B: b}
}

// ConvertRGB converts a generic color into the internal RGB representation.
func ConvertRGB(c color.Color) RGB {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return RGB{R: rgba.R, G: rgba.G, B: rgba.B}
}

// RGBA implements color.Color, the color is always opaque.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// Vector returns the components of c as a float vector that can be passed to
// a VectorMetric.
func (c RGB) Vector() []float64 {
	return []float64{float64(c.R), float64(c.G), float64(c.B)}
}

func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// SubImager is a type that can produce a sub image from an original image.
type SubImager interface {
	SubImage(r image.Rectangle) image.Image
}

// SubImage returns a subimage of img given the boundaries r.
// The rectangle should be a valid area in the image. If the image type does
// not have a sub image method an error is returned.
func SubImage(img image.Image, r image.Rectangle) (image.Image, error) {
	imager, ok := img.(SubImager)
	if !ok {
		return nil, fmt.Errorf("Can't create sub image from type %v", reflect.TypeOf(img))
	}
	return imager.SubImage(r), nil
}

// ImageID is used to unambiguously identify a tile. It is the position of
// the tile in the library it was loaded from.
type ImageID int

const (
	// NoImageID is used to signal that no tile was assigned (yet).
	NoImageID ImageID = -1
)

// Tile is a candidate image for the mosaic.
//
// Image is the full resolution image used for rendering, Representative is
// a small version used only for matching and Color its average color.
// Tiles are never changed once they're loaded.
type Tile struct {
	ID             ImageID
	Path           string
	Image          image.Image
	Representative image.Image
	Color          RGB
}

// NewTile returns a new tile, the match color is computed from the
// representative.
func NewTile(id ImageID, path string, img, representative image.Image) *Tile {
	return &Tile{
		ID:             id,
		Path:           path,
		Image:          img,
		Representative: representative,
		Color:          RGB(ComputeAverageColor(representative)),
	}
}
