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
	"time"

	"github.com/FabianWe/deepmosaic/cache"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// OpenCache creates the thumbnail cache described by config.Cache.
func OpenCache(ctx context.Context, config *Config) (cache.Cache, error) {
	return cache.New(ctx, cache.Options{
		Backend:       config.Cache.Backend,
		Dir:           config.Cache.Dir,
		RedisAddr:     config.Cache.RedisAddr,
		RedisPassword: config.Cache.RedisPassword,
		RedisDB:       config.Cache.RedisDB,
	})
}

// Job describes a single mosaic run.
type Job struct {
	// InputRoots are the directories containing the tile images.
	InputRoots []string

	// Target is the target image or a directory containing it.
	Target string

	// Output is the file the mosaic is written to (.jpg or .png). If empty
	// the mosaic is not saved.
	Output string

	// PyramidDir is the directory the pyramid is written to. If empty no
	// pyramid is generated.
	PyramidDir string
}

// Report summarizes a finished run.
type Report struct {
	RunID      string
	NumTiles   int
	Cols, Rows int
	Distinct   int
	Output     string
	Pyramid    *PyramidResult
	Duration   time.Duration
}

func (r *Report) String() string {
	s := fmt.Sprintf("run %s: %d tiles, %dx%d blocks, %d distinct tiles placed in %v",
		r.RunID, r.NumTiles, r.Cols, r.Rows, r.Distinct, r.Duration)
	if r.Output != "" {
		s += ", mosaic: " + r.Output
	}
	if r.Pyramid != nil {
		s += fmt.Sprintf(", pyramid: %s (%d levels, %d tiles)",
			r.Pyramid.DescriptorPath, len(r.Pyramid.Levels), r.Pyramid.NumTiles)
	}
	return s
}

// Pipeline runs all stages: load the tile library and the target, compose
// the mosaic, save it and generate the pyramid.
type Pipeline struct {
	Config *Config

	// Cache stores match thumbnails, it may be nil.
	Cache cache.Cache

	// Selector is passed to the Composer, nil means a seeded random selector.
	Selector Selector
}

// NewPipeline returns a new pipeline.
func NewPipeline(config *Config, c cache.Cache) *Pipeline {
	return &Pipeline{Config: config, Cache: c}
}

// Run executes job. Each run gets a new id that is attached to the log
// entries of the run.
func (p *Pipeline) Run(ctx context.Context, job Job) (*Report, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	runID := uuid.New().String()
	logger := log.WithField("run", runID)
	logger.WithFields(log.Fields{
		"inputs": job.InputRoots,
		"target": job.Target,
	}).Info("Starting mosaic run")

	lib := NewLibrary(p.Config, p.Cache)
	tiles, loadErr := lib.Load(ctx, job.InputRoots, RoleInput)
	if loadErr != nil {
		return nil, loadErr
	}
	if len(tiles) == 0 {
		return nil, ErrEmptyLibrary
	}
	target, targetErr := lib.LoadTarget(ctx, job.Target)
	if targetErr != nil {
		return nil, targetErr
	}
	logger.WithFields(log.Fields{
		"tiles":  len(tiles),
		"target": target.Path,
	}).Info("Images loaded")

	composer := NewComposer(p.Config)
	composer.Selector = p.Selector
	scaledW, scaledH := ScaledSize(target.Image.Bounds(), p.Config.TargetScale)
	if cols, rows, gridErr := GridSize(image.Rect(0, 0, scaledW, scaledH),
		p.Config.MatchTileWidth, p.Config.MatchTileHeight); gridErr == nil {
		numBlocks := cols * rows
		composer.Progress = LoggerProgressFunc("Composing", numBlocks, IntMax(1, numBlocks/10))
	}
	composition, composeErr := composer.Compose(tiles, target.Image)
	if composeErr != nil {
		return nil, composeErr
	}
	report := &Report{
		RunID:    runID,
		NumTiles: len(tiles),
		Cols:     composition.Cols,
		Rows:     composition.Rows,
		Distinct: len(composition.Placements.Count()),
	}

	if job.Output != "" {
		if err := SaveImage(job.Output, composition.Canvas, p.Config.JPGQuality); err != nil {
			return nil, err
		}
		report.Output = job.Output
		logger.WithField("file", job.Output).Info("Mosaic saved")
	}

	if job.PyramidDir != "" {
		gen := NewPyramidGenerator(p.Config)
		canvasBounds := composition.Canvas.Bounds()
		numLevels := MaxLevel(canvasBounds.Dx(), canvasBounds.Dy()) + 1
		gen.Progress = LoggerProgressFunc("Pyramid levels", numLevels, 1)
		pyramid, pyramidErr := gen.Generate(ctx, composition.Canvas, job.PyramidDir)
		if pyramidErr != nil {
			return nil, pyramidErr
		}
		report.Pyramid = pyramid
		logger.WithFields(log.Fields{
			"descriptor": pyramid.DescriptorPath,
			"tiles":      pyramid.NumTiles,
		}).Info("Pyramid generated")
	}
	report.Duration = time.Since(start)
	logger.WithField("duration", report.Duration).Info("Mosaic run finished")
	return report, nil
}
