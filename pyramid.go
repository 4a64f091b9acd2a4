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
	"fmt"
	"image"
	"math/bits"
	"os"
	"path/filepath"
	"strconv"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// MaxLevel returns the level of the full resolution image in a pyramid,
// that is ⌈log2(max(width, height))⌉. Level 0 has size 1×1.
func MaxLevel(width, height int) int {
	m := IntMax(width, height)
	if m <= 1 {
		return 0
	}
	return bits.Len(uint(m - 1))
}

// LevelSize returns the size of the given level: Each level halves the size
// of the level above (rounding down), but never gets smaller than 1×1.
func LevelSize(width, height, maxLevel, level int) (int, int) {
	shift := uint(maxLevel - level)
	return IntMax(1, width>>shift), IntMax(1, height>>shift)
}

// PyramidLevel describes the geometry of one level.
type PyramidLevel struct {
	Level         int
	Width, Height int
	Cols, Rows    int
}

// NumTiles returns the number of tiles in the level.
func (l PyramidLevel) NumTiles() int {
	return l.Cols * l.Rows
}

// PyramidLevels returns all levels, starting with the full resolution level.
func PyramidLevels(width, height, tileSize int) []PyramidLevel {
	maxLevel := MaxLevel(width, height)
	res := make([]PyramidLevel, 0, maxLevel+1)
	for level := maxLevel; level >= 0; level-- {
		w, h := LevelSize(width, height, maxLevel, level)
		res = append(res, PyramidLevel{
			Level:  level,
			Width:  w,
			Height: h,
			Cols:   ceilDiv(w, tileSize),
			Rows:   ceilDiv(h, tileSize),
		})
	}
	return res
}

// PyramidResult describes a generated pyramid.
type PyramidResult struct {
	OutputDir      string
	DescriptorPath string
	Width, Height  int
	MaxLevel       int
	NumTiles       int
	Levels         []PyramidLevel
}

// PyramidGenerator writes a Deep Zoom pyramid of an image.
//
// The tiles of level l are stored in outputDir/l/col_row.jpg. Tiles at the
// right and bottom edge are smaller than TileSize if the level size is not a
// multiple of it.
type PyramidGenerator struct {
	TileSize    int
	JPGQuality  int
	NumRoutines int

	// Resizer computes the levels below the full resolution, defaults to
	// DefaultAreaResizer.
	Resizer ImageResizer

	// Progress is called after each level with the number of levels done,
	// it may be nil.
	Progress ProgressFunc
}

// NewPyramidGenerator returns a generator given the configuration.
func NewPyramidGenerator(config *Config) *PyramidGenerator {
	return &PyramidGenerator{
		TileSize:    config.PyramidTileSize,
		JPGQuality:  config.JPGQuality,
		NumRoutines: config.NumRoutines,
		Resizer:     DefaultAreaResizer,
	}
}

// Generate writes all levels of img to outputDir and the descriptor to
// DescriptorPath(outputDir).
//
// Levels are computed one after another, the tiles of a level are encoded
// concurrently by NumRoutines go routines. The first encoding error stops the
// generation.
func (gen *PyramidGenerator) Generate(ctx context.Context, img image.Image, outputDir string) (*PyramidResult, error) {
	if gen.TileSize <= 0 {
		return nil, fmt.Errorf("%w: pyramid tile size must be positive, got %d", ErrInvalidConfig, gen.TileSize)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyCanvas
	}
	resizer := gen.Resizer
	if resizer == nil {
		resizer = DefaultAreaResizer
	}
	quality := gen.JPGQuality
	if quality <= 0 {
		quality = 90
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}
	src := copyImage(img)
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	levels := PyramidLevels(width, height, gen.TileSize)
	res := &PyramidResult{
		OutputDir:      outputDir,
		DescriptorPath: DescriptorPath(outputDir),
		Width:          width,
		Height:         height,
		MaxLevel:       MaxLevel(width, height),
		Levels:         levels,
	}
	log.WithFields(log.Fields{
		"width":  width,
		"height": height,
		"levels": len(levels),
		"dir":    outputDir,
	}).Info("Generating pyramid")

	for i, level := range levels {
		var levelImg image.Image = src
		if i > 0 {
			levelImg = resizer.Resize(uint(level.Width), uint(level.Height), src)
		}
		numTiles, levelErr := gen.writeLevel(ctx, levelImg, level, filepath.Join(outputDir, strconv.Itoa(level.Level)), quality)
		if levelErr != nil {
			return nil, levelErr
		}
		res.NumTiles += numTiles
		log.WithFields(log.Fields{
			"level": level.Level,
			"tiles": numTiles,
		}).Debug("Pyramid level written")
		if gen.Progress != nil {
			gen.Progress(i + 1)
		}
	}

	if err := WriteDescriptor(res.DescriptorPath, NewDescriptor(width, height, gen.TileSize)); err != nil {
		return nil, err
	}
	return res, nil
}

func (gen *PyramidGenerator) writeLevel(ctx context.Context, levelImg image.Image, level PyramidLevel,
	levelDir string, quality int) (int, error) {
	if err := os.MkdirAll(levelDir, 0755); err != nil {
		return 0, err
	}
	division := NewFixedSizeDivider(gen.TileSize, gen.TileSize, DivideAdjust).Divide(levelImg.Bounds())
	g, ctx := errgroup.WithContext(ctx)
	if gen.NumRoutines > 0 {
		g.SetLimit(gen.NumRoutines)
	}
	numTiles := 0
	for row, rects := range division {
		for col, r := range rects {
			if r.Dx() <= 0 || r.Dy() <= 0 {
				continue
			}
			numTiles++
			file := filepath.Join(levelDir, fmt.Sprintf("%d_%d.jpg", col, row))
			r := r
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				tile, subErr := SubImage(levelImg, r)
				if subErr != nil {
					return subErr
				}
				return SaveImage(file, tile, quality)
			})
		}
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return numTiles, nil
}
