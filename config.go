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
	"fmt"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"
	homedir "github.com/mitchellh/go-homedir"
)

// CacheConfig describes where match thumbnails are cached between runs.
type CacheConfig struct {
	// Backend is one of "none", "file" or "redis".
	Backend string `toml:"backend"`

	// Dir is the cache directory for the file backend.
	Dir string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// TTL is the lifetime of an entry, 0 means entries don't expire.
	TTL Duration `toml:"ttl"`
}

// Duration is a time.Duration that can be read from TOML strings like "24h".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config contains all parameters of a mosaic run. The values are fixed once
// a composition or pyramid generation starts.
type Config struct {
	// MatchTileWidth and MatchTileHeight define the size of a block in the
	// (scaled) target. They control how fine the target is divided.
	MatchTileWidth  int `toml:"match_tile_width"`
	MatchTileHeight int `toml:"match_tile_height"`

	// RenderTileWidth and RenderTileHeight are the size of a tile in the
	// mosaic. The mosaic has size cols * RenderTileWidth × rows * RenderTileHeight.
	RenderTileWidth  int `toml:"render_tile_width"`
	RenderTileHeight int `toml:"render_tile_height"`

	// ThumbWidth and ThumbHeight are the size of the match thumbnail that
	// is computed for each tile when loading the library.
	ThumbWidth  int `toml:"thumb_width"`
	ThumbHeight int `toml:"thumb_height"`

	// CandidatePool is the number of best tiles the selection chooses from.
	CandidatePool int `toml:"candidate_pool"`

	// PenaltyWeight scales the usage penalty of a tile.
	PenaltyWeight float64 `toml:"penalty_weight"`

	// NeighborPenalty is added if the same tile is placed above or left of
	// the current block, DiagonalPenalty if it is placed above-left or
	// above-right.
	NeighborPenalty float64 `toml:"neighbor_penalty"`
	DiagonalPenalty float64 `toml:"diagonal_penalty"`

	// DecayInterval: every DecayInterval blocks all penalties are decreased
	// by one. A value ≤ 0 disables the decay.
	DecayInterval int `toml:"decay_interval"`

	// MaxTiles is the maximal number of tiles loaded into the library.
	// A value ≤ 0 means no limit.
	MaxTiles int `toml:"max_tiles"`

	// TargetScale is multiplied with the target dimensions before the
	// target is divided into blocks.
	TargetScale float64 `toml:"target_scale"`

	// Metric is the name of the color metric, see GetVectorMetricNames.
	Metric string `toml:"metric"`

	// PyramidTileSize is the size of the (square) pyramid tiles.
	PyramidTileSize int `toml:"pyramid_tile_size"`

	// JPGQuality is the quality between 1 and 100 used when storing jpg images.
	JPGQuality int `toml:"jpeg_quality"`

	// Interpolation selects the interpolation function used for rendering
	// tiles, see GetInterP.
	Interpolation uint `toml:"interpolation"`

	// NumRoutines is the number of go routines used to encode pyramid tiles.
	NumRoutines int `toml:"num_routines"`

	// Seed initializes the random selection, 0 means a time based seed.
	Seed int64 `toml:"seed"`

	// ImageCacheSize is the number of resized tiles cached during
	// composition.
	ImageCacheSize int `toml:"image_cache_size"`

	Cache CacheConfig `toml:"cache"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	numRoutines := runtime.NumCPU()
	if numRoutines <= 0 {
		numRoutines = 4
	}
	return &Config{
		MatchTileWidth:   24,
		MatchTileHeight:  15,
		RenderTileWidth:  96,
		RenderTileHeight: 60,
		ThumbWidth:       80,
		ThumbHeight:      45,
		CandidatePool:    5,
		PenaltyWeight:    5,
		NeighborPenalty:  1000,
		DiagonalPenalty:  500,
		DecayInterval:    10,
		MaxTiles:         750,
		TargetScale:      1,
		Metric:           "euclid",
		PyramidTileSize:  256,
		JPGQuality:       90,
		Interpolation:    3,
		NumRoutines:      numRoutines,
		Seed:             0,
		ImageCacheSize:   ImageCacheSize,
		Cache: CacheConfig{
			Backend: "none",
		},
	}
}

// LoadConfig reads a TOML file. Values not present in the file keep their
// defaults. The cache directory may start with "~".
func LoadConfig(path string) (*Config, error) {
	path, pathErr := homedir.Expand(path)
	if pathErr != nil {
		return nil, pathErr
	}
	config := DefaultConfig()
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("Can't read config %s: %w", path, err)
	}
	if config.Cache.Dir != "" {
		dir, dirErr := homedir.Expand(config.Cache.Dir)
		if dirErr != nil {
			return nil, dirErr
		}
		config.Cache.Dir = dir
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks that all values are in their valid range. The returned
// error wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.MatchTileWidth <= 0 || c.MatchTileHeight <= 0:
		return invalid("match tile size must be positive, got %dx%d", c.MatchTileWidth, c.MatchTileHeight)
	case c.RenderTileWidth <= 0 || c.RenderTileHeight <= 0:
		return invalid("render tile size must be positive, got %dx%d", c.RenderTileWidth, c.RenderTileHeight)
	case c.ThumbWidth <= 0 || c.ThumbHeight <= 0:
		return invalid("thumbnail size must be positive, got %dx%d", c.ThumbWidth, c.ThumbHeight)
	case c.CandidatePool <= 0:
		return invalid("candidate pool must be positive, got %d", c.CandidatePool)
	case c.PenaltyWeight < 0:
		return invalid("penalty weight must not be negative, got %f", c.PenaltyWeight)
	case c.NeighborPenalty < 0 || c.DiagonalPenalty < 0:
		return invalid("neighbor penalties must not be negative, got %f and %f", c.NeighborPenalty, c.DiagonalPenalty)
	case c.TargetScale <= 0:
		return invalid("target scale must be positive, got %f", c.TargetScale)
	case c.PyramidTileSize <= 0:
		return invalid("pyramid tile size must be positive, got %d", c.PyramidTileSize)
	case c.JPGQuality < 1 || c.JPGQuality > 100:
		return invalid("jpeg quality must be between 1 and 100, got %d", c.JPGQuality)
	}
	if _, ok := GetVectorMetric(c.Metric); !ok {
		return invalid("unknown metric %q, valid metrics are %v", c.Metric, GetVectorMetricNames())
	}
	switch c.Cache.Backend {
	case "", "none", "file", "redis":
	default:
		return invalid("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "file" && c.Cache.Dir == "" {
		return invalid("file cache requires a directory")
	}
	return nil
}
