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
	"image"
	"image/color"
	"testing"
)

func TestAreaResizerDimensions(t *testing.T) {
	src := solidImage(97, 31, red)
	for _, dims := range [][2]uint{{80, 45}, {1, 1}, {97, 31}, {200, 10}} {
		res := AreaResizer{}.Resize(dims[0], dims[1], src)
		b := res.Bounds()
		if b.Dx() != int(dims[0]) || b.Dy() != int(dims[1]) {
			t.Errorf("resize to %v: got %dx%d", dims, b.Dx(), b.Dy())
		}
	}
}

func TestAreaResizerSolidColor(t *testing.T) {
	src := solidImage(64, 48, color.RGBA{R: 10, G: 128, B: 250, A: 255})
	res := AreaResizer{}.Resize(5, 3, src)
	avg := ComputeAverageColor(res)
	if !closeTo(avg.R, 10, 1) || !closeTo(avg.G, 128, 1) || !closeTo(avg.B, 250, 1) {
		t.Errorf("solid color changed by resizing: %v", RGB(avg))
	}
}

func TestAreaResizerAverages(t *testing.T) {
	// black and white columns average to gray
	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if x%2 == 0 {
				src.Set(x, y, white)
			} else {
				src.Set(x, y, black)
			}
		}
	}
	res := AreaResizer{}.Resize(1, 1, src)
	c := ConvertRGB(res.At(0, 0))
	if !closeTo(c.R, 128, 2) || !closeTo(c.G, 128, 2) || !closeTo(c.B, 128, 2) {
		t.Errorf("expected gray, got %v", c)
	}
}

func TestNfntResizerDimensions(t *testing.T) {
	res := NewNfntResizer(GetInterP(3)).Resize(13, 7, solidImage(40, 40, green))
	if b := res.Bounds(); b.Dx() != 13 || b.Dy() != 7 {
		t.Errorf("got %dx%d, want 13x7", b.Dx(), b.Dy())
	}
}

func TestComputeAverageColor(t *testing.T) {
	img := quadrantImage(10, 10, [4]color.Color{red, red, blue, blue})
	got := RGB(ComputeAverageColor(img))
	if !closeTo(got.R, 127, 1) || got.G != 0 || !closeTo(got.B, 127, 1) {
		t.Errorf("got %v", got)
	}
	if empty := RGB(ComputeAverageColor(image.NewRGBA(image.Rectangle{}))); empty != NewRGB(0, 0, 0) {
		t.Errorf("empty image should be black, got %v", empty)
	}
}
