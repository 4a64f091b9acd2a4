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
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestMaxLevel(t *testing.T) {
	tests := []struct {
		w, h int
		want int
	}{
		{1, 1, 0},
		{2, 1, 1},
		{3, 3, 2},
		{4, 4, 2},
		{512, 512, 9},
		{513, 10, 10},
		{1000, 600, 10},
		{1, 1024, 10},
	}
	for _, tt := range tests {
		if got := MaxLevel(tt.w, tt.h); got != tt.want {
			t.Errorf("MaxLevel(%d, %d) = %d, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestPyramidLevels(t *testing.T) {
	levels := PyramidLevels(512, 512, 256)
	if len(levels) != 10 {
		t.Fatalf("got %d levels, want 10", len(levels))
	}
	top := levels[0]
	if top.Level != 9 || top.Width != 512 || top.Height != 512 || top.NumTiles() != 4 {
		t.Errorf("unexpected top level %+v", top)
	}
	if l := levels[1]; l.Level != 8 || l.Width != 256 || l.NumTiles() != 1 {
		t.Errorf("unexpected level 8 %+v", l)
	}
	bottom := levels[len(levels)-1]
	if bottom.Level != 0 || bottom.Width != 1 || bottom.Height != 1 || bottom.NumTiles() != 1 {
		t.Errorf("unexpected level 0 %+v", bottom)
	}
}

func TestPyramidLevelsNonSquare(t *testing.T) {
	levels := PyramidLevels(300, 100, 256)
	if len(levels) != 10 {
		t.Fatalf("got %d levels, want 10", len(levels))
	}
	if top := levels[0]; top.Cols != 2 || top.Rows != 1 {
		t.Errorf("top level should have 2x1 tiles, got %+v", top)
	}
	// 300 >> 2 = 75, 100 >> 2 = 25
	if l := levels[2]; l.Width != 75 || l.Height != 25 {
		t.Errorf("unexpected level 7 %+v", l)
	}
	for _, l := range levels {
		if l.Width < 1 || l.Height < 1 {
			t.Errorf("level %d has size %dx%d", l.Level, l.Width, l.Height)
		}
	}
}

func imageSize(t *testing.T, path string) (int, int) {
	t.Helper()
	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("can't read tile: %v", err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestGeneratePyramid(t *testing.T) {
	out := filepath.Join(t.TempDir(), "mosaic_files")
	gen := &PyramidGenerator{TileSize: 256, JPGQuality: 80, NumRoutines: 3}
	res, err := gen.Generate(context.Background(), solidImage(512, 512, blue), out)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.MaxLevel != 9 || len(res.Levels) != 10 {
		t.Errorf("got max level %d with %d levels", res.MaxLevel, len(res.Levels))
	}
	// 4 tiles on level 9 and one tile on each of the other 9 levels
	if res.NumTiles != 13 {
		t.Errorf("got %d tiles, want 13", res.NumTiles)
	}
	for _, name := range []string{"0_0.jpg", "1_0.jpg", "0_1.jpg", "1_1.jpg"} {
		w, h := imageSize(t, filepath.Join(out, "9", name))
		if w != 256 || h != 256 {
			t.Errorf("tile %s has size %dx%d", name, w, h)
		}
	}
	for level := 0; level <= 8; level++ {
		entries, err := os.ReadDir(filepath.Join(out, strconv.Itoa(level)))
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 || entries[0].Name() != "0_0.jpg" {
			t.Errorf("level %d should contain only 0_0.jpg", level)
		}
	}
	if w, h := imageSize(t, filepath.Join(out, "0", "0_0.jpg")); w != 1 || h != 1 {
		t.Errorf("level 0 has size %dx%d", w, h)
	}
	if res.DescriptorPath != filepath.Join(filepath.Dir(out), "mosaic.dzi") {
		t.Errorf("unexpected descriptor path %s", res.DescriptorPath)
	}
	d, err := ReadDescriptor(res.DescriptorPath)
	if err != nil {
		t.Fatal(err)
	}
	if d.TileSize != 256 || d.Overlap != 0 || d.Format != "jpg" || d.Size.Width != 512 || d.Size.Height != 512 {
		t.Errorf("unexpected descriptor %+v", d)
	}
}

func TestGeneratePyramidEdgeTiles(t *testing.T) {
	out := filepath.Join(t.TempDir(), "edge")
	gen := &PyramidGenerator{TileSize: 256, JPGQuality: 80, NumRoutines: 2}
	if _, err := gen.Generate(context.Background(), solidImage(300, 100, red), out); err != nil {
		t.Fatal(err)
	}
	if w, h := imageSize(t, filepath.Join(out, "9", "0_0.jpg")); w != 256 || h != 100 {
		t.Errorf("first tile has size %dx%d", w, h)
	}
	if w, h := imageSize(t, filepath.Join(out, "9", "1_0.jpg")); w != 44 || h != 100 {
		t.Errorf("edge tile has size %dx%d", w, h)
	}
	if w, h := imageSize(t, filepath.Join(out, "7", "0_0.jpg")); w != 75 || h != 25 {
		t.Errorf("level 7 has size %dx%d", w, h)
	}
	if _, err := os.Stat(out + ".dzi"); err != nil {
		t.Errorf("descriptor missing: %v", err)
	}
}

func TestGeneratePyramidErrors(t *testing.T) {
	dir := t.TempDir()
	gen := &PyramidGenerator{TileSize: 256}
	if _, err := gen.Generate(context.Background(), image.NewRGBA(image.Rectangle{}), dir); !errors.Is(err, ErrEmptyCanvas) {
		t.Errorf("expected ErrEmptyCanvas, got %v", err)
	}
	gen.TileSize = 0
	if _, err := gen.Generate(context.Background(), solidImage(4, 4, red), dir); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
