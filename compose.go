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
	"math"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

var (
	// ImageCacheSize is the default size of image caches. The composition of
	// mosaics is much faster if resized tiles are cached. It must be a
	// number ≥ 1.
	ImageCacheSize = 15
)

// ImageCache is used to cache resized versions of tiles during mosaic
// generation. The same tile with the same size might appear often in a mosaic
// (or the same area). This and the fact that resizing an image is not very fast
// makes it useful to cache the images.
//
// Entries are removed in the order they were inserted.
// Caches are safe for concurrent use.
type ImageCache struct {
	m           *sync.Mutex
	size        int
	content     map[string]image.Image
	insertOrder []string
}

// NewImageCache returns an empty image cache. size is the number of images that
// will be cached, values < 1 are treated as 1.
func NewImageCache(size int) *ImageCache {
	if size <= 0 {
		size = 1
	}
	var m sync.Mutex
	return &ImageCache{
		m:           &m,
		size:        size,
		content:     make(map[string]image.Image, size),
		insertOrder: make([]string, 0, size),
	}
}

func (cache *ImageCache) keyFormat(id ImageID, width, height int) string {
	return fmt.Sprintf("%d-%d-%d", id, width, height)
}

func (cache *ImageCache) lookup(key string) image.Image {
	if img, has := cache.content[key]; has {
		return img
	}
	return nil
}

// Put adds an image to the cache. Usually Put is called after Get: If the
// image was not found in the cache it is scaled and then added to the cache via
// Put.
func (cache *ImageCache) Put(id ImageID, width, height int, img image.Image) {
	cache.m.Lock()
	defer cache.m.Unlock()
	keyFmt := cache.keyFormat(id, width, height)
	if lookup := cache.lookup(keyFmt); lookup != nil {
		return
	}
	if len(cache.insertOrder) < cache.size {
		cache.insertOrder = append(cache.insertOrder, keyFmt)
		cache.content[keyFmt] = img
		return
	}
	// cache full, remove oldest entry
	fst := cache.insertOrder[0]
	cache.insertOrder = append(cache.insertOrder[1:], keyFmt)
	delete(cache.content, fst)
	cache.content[keyFmt] = img
}

// Get returns the image from the cache. If the return value is nil the image
// was not found in the cache and should be added to the cache by Put.
func (cache *ImageCache) Get(id ImageID, width, height int) image.Image {
	cache.m.Lock()
	defer cache.m.Unlock()
	return cache.lookup(cache.keyFormat(id, width, height))
}

// Len returns the number of cached images.
func (cache *ImageCache) Len() int {
	cache.m.Lock()
	defer cache.m.Unlock()
	return len(cache.insertOrder)
}

// Composition is the result of composing a mosaic.
type Composition struct {
	// Canvas has size Cols * RenderTileWidth × Rows * RenderTileHeight.
	Canvas *image.RGBA

	// Placements contains the tile chosen for each block.
	Placements PlacementGrid

	Cols, Rows int
}

// Composer builds a mosaic from a tile library and a target image.
//
// Blocks are processed in row-major order: For each block the CandidatePool
// best tiles are computed (see Scorer), Selector chooses one of them and the
// penalty of the chosen tile is increased. After every DecayInterval blocks
// all penalties are decreased by one.
//
// A Composer is not safe for concurrent use if Selector is set, the selector
// keeps random state between calls.
type Composer struct {
	Config *Config

	// Resizer is used to scale tiles to the render size and to scale the
	// target if Config.TargetScale is not 1. If nil a NfntResizer with
	// Config.Interpolation is used.
	Resizer ImageResizer

	// Strategy defaults to ForceResize.
	Strategy ResizeStrategy

	// Selector chooses from the candidate pool. If nil each call of Compose
	// uses a new WeightedRandomSelector seeded with Config.Seed, so two calls
	// with the same non-zero seed produce the same mosaic.
	Selector Selector

	// Progress is called after each block with the number of processed
	// blocks, it may be nil.
	Progress ProgressFunc
}

// NewComposer returns a composer with the default resizer and strategy.
func NewComposer(config *Config) *Composer {
	return &Composer{
		Config:   config,
		Resizer:  NewNfntResizer(GetInterP(config.Interpolation)),
		Strategy: ForceResize,
	}
}

func (c *Composer) resizer() ImageResizer {
	if c.Resizer == nil {
		return NewNfntResizer(GetInterP(c.Config.Interpolation))
	}
	return c.Resizer
}

// ScaledSize returns the size of bounds multiplied by scale, rounded to the
// nearest integer but at least 1.
func ScaledSize(bounds image.Rectangle, scale float64) (int, int) {
	if scale == 1 {
		return bounds.Dx(), bounds.Dy()
	}
	width := IntMax(1, int(math.Round(float64(bounds.Dx())*scale)))
	height := IntMax(1, int(math.Round(float64(bounds.Dy())*scale)))
	return width, height
}

// ScaleTarget returns target scaled by scale. A scale of 1 returns target
// unchanged.
func ScaleTarget(resizer ImageResizer, target image.Image, scale float64) image.Image {
	if scale == 1 {
		return target
	}
	width, height := ScaledSize(target.Bounds(), scale)
	return resizer.Resize(uint(width), uint(height), target)
}

// Compose builds the mosaic of target using tiles. tiles[i] must have the
// id i, as returned by Library.Load.
//
// It returns ErrEmptyLibrary if there are no tiles, an error wrapping
// ErrInvalidGrid if the (scaled) target is smaller than a match tile and an
// error wrapping ErrInvalidConfig for an invalid configuration.
func (c *Composer) Compose(tiles []*Tile, target image.Image) (*Composition, error) {
	if len(tiles) == 0 {
		return nil, ErrEmptyLibrary
	}
	if target == nil || target.Bounds().Empty() {
		return nil, ErrEmptyCanvas
	}
	if err := c.Config.Validate(); err != nil {
		return nil, err
	}
	for i, tile := range tiles {
		if tile.ID != ImageID(i) {
			return nil, fmt.Errorf("%w: tile at position %d has id %d", ErrInvariant, i, tile.ID)
		}
	}
	config := c.Config
	resizer := c.resizer()
	strategy := c.Strategy
	if strategy == nil {
		strategy = ForceResize
	}
	selector := c.Selector
	if selector == nil {
		selector = NewSeededSelector(config.Seed)
	}

	target = ScaleTarget(resizer, target, config.TargetScale)
	cols, rows, gridErr := GridSize(target.Bounds(), config.MatchTileWidth, config.MatchTileHeight)
	if gridErr != nil {
		return nil, gridErr
	}
	partition, partErr := PartitionImage(target, cols, rows)
	if partErr != nil {
		return nil, partErr
	}

	renderW, renderH := config.RenderTileWidth, config.RenderTileHeight
	log.WithFields(log.Fields{
		"cols":   cols,
		"rows":   rows,
		"tiles":  len(tiles),
		"width":  cols * renderW,
		"height": rows * renderH,
	}).Info("Composing mosaic")

	canvas := image.NewRGBA(image.Rect(0, 0, cols*renderW, rows*renderH))
	grid := NewPlacementGrid(cols, rows)
	penalties := NewPenaltyTable(len(tiles))
	scorer := NewScorer(config)
	cache := NewImageCache(config.ImageCacheSize)

	processed := 0
	for _, row := range partition {
		for _, block := range row {
			candidates := scorer.Candidates(tiles, block, penalties, grid, config.CandidatePool)
			chosen := candidates[selector.Select(candidates)].Tile
			penalties.Increment(chosen)
			processed++
			if config.DecayInterval > 0 && processed%config.DecayInterval == 0 {
				penalties.Decay()
			}
			area := image.Rect(block.Col*renderW, block.Row*renderH,
				(block.Col+1)*renderW, (block.Row+1)*renderH)
			insertTile(canvas, area, tiles[chosen], resizer, strategy, cache)
			grid.Set(block.Row, block.Col, chosen)
			if c.Progress != nil {
				c.Progress(processed)
			}
		}
	}

	if row, col, unfilled := grid.Unfilled(); unfilled {
		return nil, fmt.Errorf("%w: block (%d, %d) has no tile", ErrInvariant, row, col)
	}
	log.WithField("distinct", len(grid.Count())).Debug("Mosaic composed")
	return &Composition{
		Canvas:     canvas,
		Placements: grid,
		Cols:       cols,
		Rows:       rows,
	}, nil
}

func insertTile(into *image.RGBA, area image.Rectangle, tile *Tile,
	resizer ImageResizer, s ResizeStrategy, cache *ImageCache) {
	tileWidth := area.Dx()
	tileHeight := area.Dy()
	img := cache.Get(tile.ID, tileWidth, tileHeight)
	if img == nil {
		img = s(resizer, uint(tileWidth), uint(tileHeight), tile.Image)
		cache.Put(tile.ID, tileWidth, tileHeight, img)
	}
	draw.Draw(into, area, img, img.Bounds().Min, draw.Src)
}
