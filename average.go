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
)

// AverageColor describes the average of several RGB colors.
type AverageColor RGB

// ComputeAverageColor computes the average color of an image.
// Empty images have the average color black.
func ComputeAverageColor(img image.Image) AverageColor {
	bounds := img.Bounds()
	if bounds.Empty() {
		return AverageColor{}
	}
	// sums are 64 bit, a full image of 8 bit values must not overflow
	var r, g, b uint64
	numPixels := uint64(bounds.Dx()) * uint64(bounds.Dy())

	// fast path for the types we create ourselves
	if rgba, ok := img.(*image.RGBA); ok {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			offset := rgba.PixOffset(bounds.Min.X, y)
			row := rgba.Pix[offset : offset+4*bounds.Dx()]
			for i := 0; i < len(row); i += 4 {
				r += uint64(row[i])
				g += uint64(row[i+1])
				b += uint64(row[i+2])
			}
		}
	} else {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				rgb := ConvertRGB(img.At(x, y))
				r += uint64(rgb.R)
				g += uint64(rgb.G)
				b += uint64(rgb.B)
			}
		}
	}
	r /= numPixels
	g /= numPixels
	b /= numPixels
	return AverageColor{R: uint8(r), G: uint8(g), B: uint8(b)}
}

// Dist returns the distance between the two average color vectors given the
// metric for the component vectors.
func (c AverageColor) Dist(other AverageColor, metric VectorMetric) float64 {
	return metric(RGB(c).Vector(), RGB(other).Vector())
}
