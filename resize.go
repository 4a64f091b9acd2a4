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
	"image"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// ImageResizer resizes an image to the given width and height.
// The result must have exactly the requested dimensions.
type ImageResizer interface {
	Resize(width, height uint, img image.Image) image.Image
}

// NfntResizer uses the nfnt/resize package to resize an image.
type NfntResizer struct {
	// InterP is the interpolation function to use.
	InterP resize.InterpolationFunction
}

// NewNfntResizer returns a new resizer given the interpolation function.
func NewNfntResizer(interP resize.InterpolationFunction) NfntResizer {
	return NfntResizer{interP}
}

// GetInterP returns an interpolation function given a desired quality.
// The higher the quality the better the interpolation should be, but execution
// time is higher. Currently supported are values between 0 and 4, each
// selecting a different interpolation function. Values greater than 4 are
// treated as 5 (Lanczos3).
func GetInterP(quality uint) resize.InterpolationFunction {
	switch quality {
	case 0:
		return resize.NearestNeighbor
	case 1:
		return resize.Bilinear
	case 2:
		return resize.Bicubic
	case 3:
		return resize.MitchellNetravali
	case 4:
		return resize.Lanczos2
	default:
		return resize.Lanczos3
	}
}

// Resize calls nfnt/resize methods.
func (resizer NfntResizer) Resize(width, height uint, img image.Image) image.Image {
	return resize.Resize(width, height, img, resizer.InterP)
}

// boxKernel weights all source pixels covered by a destination pixel
// equally. x/image/draw widens the support by the scale factor when
// downscaling, so the result is the mean over the covered area.
var boxKernel = &draw.Kernel{
	Support: 0.5,
	At: func(t float64) float64 {
		if t < -0.5 || t > 0.5 {
			return 0
		}
		return 1
	},
}

// AreaResizer resizes images by area averaging. For large downscales this
// approximates block averaging much better than nearest neighbour or bilinear
// interpolation. It is used for match thumbnails and pyramid levels.
type AreaResizer struct{}

// Resize implements ImageResizer.
func (AreaResizer) Resize(width, height uint, img image.Image) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	if width == 0 || height == 0 || img.Bounds().Empty() {
		return dst
	}
	boxKernel.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

var (
	// DefaultResizer is the resizer used for rendering tiles if nothing else
	// is configured.
	DefaultResizer = NewNfntResizer(resize.MitchellNetravali)

	// DefaultAreaResizer is the resizer used for thumbnails and pyramid levels.
	DefaultAreaResizer ImageResizer = AreaResizer{}
)

// ResizeStrategy is a function that scales an image (img) to an image of
// exactly the size defined by tileWidth and tileHeight.
// This is used to compose the mosaic when the selected tiles must be
// resized to fit in the blocks.
//
// The difference between ResizeStrategy and ImageResizer is that we think of
// an ImageResizer as an "engine", for example a library, that performs the
// scaling to a specific width and height.
// A ResizeStrategy decides how to nicely scale an image s.t. it fits.
type ResizeStrategy func(resizer ImageResizer, tileWidth, tileHeight uint, img image.Image) image.Image

// ForceResize is a resize strategy that resizes to the given width and height,
// ignoring the ratio of the original image.
func ForceResize(resizer ImageResizer, tileWidth, tileHeight uint, img image.Image) image.Image {
	return resizer.Resize(tileWidth, tileHeight, img)
}

// copyImage returns an RGBA copy of img with bounds starting at (0, 0).
func copyImage(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	res := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(res, res.Bounds(), img, bounds.Min, draw.Src)
	return res
}
