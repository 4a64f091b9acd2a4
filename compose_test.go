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
	"errors"
	"image/color"
	"reflect"
	"testing"
)

func quadrantTarget() *Tile {
	img := quadrantImage(48, 30, [4]color.Color{red, green, blue, white})
	return NewTile(0, "target.png", img, img)
}

func colorTiles() []*Tile {
	return []*Tile{
		solidTile(0, white),
		solidTile(1, blue),
		solidTile(2, green),
		solidTile(3, red),
		solidTile(4, color.RGBA{R: 128, G: 128, B: 128, A: 255}),
	}
}

func TestComposeExactMatch(t *testing.T) {
	config := testConfig()
	config.MatchTileWidth, config.MatchTileHeight = 24, 15
	for _, sel := range []struct {
		name     string
		selector Selector
	}{
		{"argmin", ArgMinSelector{}},
		{"random", nil},
	} {
		t.Run(sel.name, func(t *testing.T) {
			composer := NewComposer(config)
			composer.Selector = sel.selector
			comp, err := composer.Compose(colorTiles(), quadrantTarget().Image)
			if err != nil {
				t.Fatalf("Compose: %v", err)
			}
			want := PlacementGrid{{3, 2}, {1, 0}}
			if !reflect.DeepEqual(comp.Placements, want) {
				t.Errorf("got placements %v, want %v", comp.Placements, want)
			}
		})
	}
}

func TestComposeCanvas(t *testing.T) {
	config := testConfig()
	config.MatchTileWidth, config.MatchTileHeight = 24, 15
	comp, err := NewComposer(config).Compose(colorTiles(), quadrantTarget().Image)
	if err != nil {
		t.Fatal(err)
	}
	b := comp.Canvas.Bounds()
	if b.Dx() != 2*config.RenderTileWidth || b.Dy() != 2*config.RenderTileHeight {
		t.Fatalf("canvas has size %dx%d", b.Dx(), b.Dy())
	}
	if comp.Cols != 2 || comp.Rows != 2 {
		t.Errorf("got %dx%d blocks", comp.Cols, comp.Rows)
	}
	// center pixel of the bottom right block is white
	c := ConvertRGB(comp.Canvas.At(config.RenderTileWidth+1, config.RenderTileHeight+1))
	if !closeTo(c.R, 255, 2) || !closeTo(c.G, 255, 2) || !closeTo(c.B, 255, 2) {
		t.Errorf("expected white tile, got %v", c)
	}
	c = ConvertRGB(comp.Canvas.At(1, 1))
	if !closeTo(c.R, 255, 2) || c.G > 2 || c.B > 2 {
		t.Errorf("expected red tile, got %v", c)
	}
}

func TestComposeAllBlocksFilled(t *testing.T) {
	config := testConfig()
	config.MatchTileWidth, config.MatchTileHeight = 4, 3
	target := quadrantImage(40, 30, [4]color.Color{red, green, blue, white})
	comp, err := NewComposer(config).Compose(colorTiles(), target)
	if err != nil {
		t.Fatal(err)
	}
	if comp.Cols != 10 || comp.Rows != 10 {
		t.Fatalf("got %dx%d blocks", comp.Cols, comp.Rows)
	}
	if row, col, ok := comp.Placements.Unfilled(); ok {
		t.Errorf("block (%d, %d) has no tile", row, col)
	}
	total := 0
	for _, n := range comp.Placements.Count() {
		total += n
	}
	if total != 100 {
		t.Errorf("%d placements for 100 blocks", total)
	}
}

func TestComposeSameSeed(t *testing.T) {
	config := testConfig()
	config.MatchTileWidth, config.MatchTileHeight = 4, 3
	config.Seed = 1234
	target := quadrantImage(40, 30, [4]color.Color{red, green, blue, white})
	tiles := colorTiles()
	composer := NewComposer(config)
	first, err := composer.Compose(tiles, target)
	if err != nil {
		t.Fatal(err)
	}
	second, err := composer.Compose(tiles, target)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first.Placements, second.Placements) {
		t.Error("same seed should produce the same mosaic")
	}
}

func TestComposeNeighborsAlternate(t *testing.T) {
	config := testConfig()
	config.MatchTileWidth, config.MatchTileHeight = 2, 2
	config.PenaltyWeight = 0
	config.DecayInterval = 0
	tiles := []*Tile{solidTile(0, red), solidTile(1, red)}
	composer := NewComposer(config)
	composer.Selector = ArgMinSelector{}
	comp, err := composer.Compose(tiles, solidImage(8, 2, red))
	if err != nil {
		t.Fatal(err)
	}
	want := PlacementGrid{{0, 1, 0, 1}}
	if !reflect.DeepEqual(comp.Placements, want) {
		t.Errorf("got %v, want %v", comp.Placements, want)
	}
}

func TestComposeUsagePenalty(t *testing.T) {
	config := testConfig()
	config.MatchTileWidth, config.MatchTileHeight = 2, 2
	config.NeighborPenalty, config.DiagonalPenalty = 0, 0
	config.PenaltyWeight = 5
	config.DecayInterval = 0
	// tile 1 is slightly worse than tile 0, the usage penalty lets it win
	// after tile 0 was used once
	tiles := []*Tile{solidTile(0, red), solidTile(1, color.RGBA{R: 252, A: 255})}
	composer := NewComposer(config)
	composer.Selector = ArgMinSelector{}
	comp, err := composer.Compose(tiles, solidImage(4, 2, red))
	if err != nil {
		t.Fatal(err)
	}
	want := PlacementGrid{{0, 1}}
	if !reflect.DeepEqual(comp.Placements, want) {
		t.Errorf("got %v, want %v", comp.Placements, want)
	}
}

func TestComposeDecay(t *testing.T) {
	// tile 1 is 3 worse than tile 0, one use of a tile costs 5
	tiles := []*Tile{solidTile(0, red), solidTile(1, color.RGBA{R: 252, A: 255})}
	tests := []struct {
		interval int
		want     PlacementGrid
	}{
		{0, PlacementGrid{{0, 1, 0, 1, 0, 1, 0, 1}}},
		// the penalty of tile 0 is removed directly after each block
		{1, PlacementGrid{{0, 0, 0, 0, 0, 0, 0, 0}}},
		// penalties are cleared after blocks 2, 4 and 6
		{2, PlacementGrid{{0, 1, 0, 1, 0, 1, 0, 1}}},
	}
	for _, tt := range tests {
		config := testConfig()
		config.MatchTileWidth, config.MatchTileHeight = 2, 2
		config.NeighborPenalty, config.DiagonalPenalty = 0, 0
		config.PenaltyWeight = 5
		config.DecayInterval = tt.interval
		composer := NewComposer(config)
		composer.Selector = ArgMinSelector{}
		comp, err := composer.Compose(tiles, solidImage(16, 2, red))
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(comp.Placements, tt.want) {
			t.Errorf("decay interval %d: got %v, want %v", tt.interval, comp.Placements, tt.want)
		}
	}
}

func TestComposeDecayCounting(t *testing.T) {
	// tile 1 is 6 worse than tile 0, tile 0 is used twice before tile 1
	tiles := []*Tile{solidTile(0, red), solidTile(1, color.RGBA{R: 249, A: 255})}
	config := testConfig()
	config.MatchTileWidth, config.MatchTileHeight = 2, 2
	config.NeighborPenalty, config.DiagonalPenalty = 0, 0
	config.PenaltyWeight = 5
	config.DecayInterval = 2
	composer := NewComposer(config)
	composer.Selector = ArgMinSelector{}
	comp, err := composer.Compose(tiles, solidImage(16, 2, red))
	if err != nil {
		t.Fatal(err)
	}
	want := PlacementGrid{{0, 0, 0, 1, 0, 1, 0, 1}}
	if !reflect.DeepEqual(comp.Placements, want) {
		t.Errorf("got %v, want %v", comp.Placements, want)
	}
}

func TestComposeErrors(t *testing.T) {
	config := testConfig()
	composer := NewComposer(config)
	target := solidImage(100, 100, red)
	if _, err := composer.Compose(nil, target); !errors.Is(err, ErrEmptyLibrary) {
		t.Errorf("expected ErrEmptyLibrary, got %v", err)
	}
	wrongIDs := []*Tile{solidTile(1, red)}
	if _, err := composer.Compose(wrongIDs, target); !errors.Is(err, ErrInvariant) {
		t.Errorf("expected ErrInvariant for inconsistent ids, got %v", err)
	}
	if _, err := composer.Compose(colorTiles(), solidImage(10, 10, red)); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("expected ErrInvalidGrid for a tiny target, got %v", err)
	}
	bad := testConfig()
	bad.CandidatePool = 0
	if _, err := NewComposer(bad).Compose(colorTiles(), target); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestComposeTargetScale(t *testing.T) {
	config := testConfig()
	config.MatchTileWidth, config.MatchTileHeight = 24, 15
	config.TargetScale = 2
	comp, err := NewComposer(config).Compose(colorTiles(), quadrantTarget().Image)
	if err != nil {
		t.Fatal(err)
	}
	if comp.Cols != 4 || comp.Rows != 4 {
		t.Errorf("scaled target should give 4x4 blocks, got %dx%d", comp.Cols, comp.Rows)
	}
}

func TestImageCache(t *testing.T) {
	cache := NewImageCache(2)
	a, b, c := solidImage(1, 1, red), solidImage(1, 1, green), solidImage(1, 1, blue)
	cache.Put(0, 1, 1, a)
	cache.Put(1, 1, 1, b)
	if cache.Get(0, 1, 1) != a || cache.Get(0, 2, 2) != nil {
		t.Error("lookup failed")
	}
	cache.Put(2, 1, 1, c)
	if cache.Len() != 2 {
		t.Errorf("cache has %d entries", cache.Len())
	}
	if cache.Get(0, 1, 1) != nil {
		t.Error("oldest entry should have been removed")
	}
	if cache.Get(1, 1, 1) != b || cache.Get(2, 1, 1) != c {
		t.Error("newer entries should be cached")
	}
}
