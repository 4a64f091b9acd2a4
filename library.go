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
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/FabianWe/deepmosaic/cache"
	log "github.com/sirupsen/logrus"
)

// Role describes what the images of a library are used for.
type Role int

const (
	// RoleInput is used for tile images. A match thumbnail is computed for
	// each image and the number of images is capped by Config.MaxTiles.
	RoleInput Role = iota

	// RoleTarget is used for target images, the decoded image is also used
	// for matching.
	RoleTarget
)

func (r Role) String() string {
	switch r {
	case RoleInput:
		return "input"
	case RoleTarget:
		return "target"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Library loads images from directories on the filesystem.
type Library struct {
	Config *Config

	// Resizer computes match thumbnails, if nil DefaultAreaResizer is used.
	Resizer ImageResizer

	// Cache stores thumbnails between runs, if nil nothing is cached.
	Cache cache.Cache

	// Filter decides which files are considered images, defaults to JPGAndPNG.
	Filter SupportedImageFunc
}

// NewLibrary returns a library given the configuration and a thumbnail
// cache (that may be nil).
func NewLibrary(config *Config, c cache.Cache) *Library {
	return &Library{
		Config:  config,
		Resizer: DefaultAreaResizer,
		Cache:   c,
		Filter:  JPGAndPNG,
	}
}

// Load walks all roots recursively (in lexical order, roots in the given
// order) and returns the tiles of all images found. The id of each tile is its
// position in the result.
//
// A root that doesn't exist or is not a directory results in a
// *NotFoundError. Files that can't be opened or decoded are logged and
// skipped.
//
// For RoleInput at most Config.MaxTiles images are loaded (if MaxTiles > 0).
// Once the limit is reached the walk stops, remaining files and roots are not
// visited.
func (lib *Library) Load(ctx context.Context, roots []string, role Role) ([]*Tile, error) {
	filter := lib.Filter
	if filter == nil {
		filter = JPGAndPNG
	}
	maxTiles := 0
	if role == RoleInput {
		maxTiles = lib.Config.MaxTiles
	}
	var res []*Tile
	capped := false
	for _, root := range roots {
		info, statErr := os.Stat(root)
		if statErr != nil {
			return nil, &NotFoundError{Path: root, Err: statErr}
		}
		if !info.IsDir() {
			return nil, &NotFoundError{Path: root, Err: fmt.Errorf("%s is not a directory", root)}
		}
		walkFunc := func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				log.WithError(err).WithField("path", path).Warn("Skipping unreadable entry")
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if d.IsDir() || !filter(filepath.Ext(path)) {
				return nil
			}
			tile, tileErr := lib.loadTile(ctx, ImageID(len(res)), path, role)
			if tileErr != nil {
				var decodeErr *DecodeError
				if errors.As(tileErr, &decodeErr) {
					log.WithFields(log.Fields{
						"path":  path,
						"error": decodeErr.Err,
					}).Warn("Skipping image that can't be decoded")
				} else {
					log.WithError(tileErr).WithField("path", path).Warn("Skipping image that can't be opened")
				}
				return nil
			}
			res = append(res, tile)
			if maxTiles > 0 && len(res) >= maxTiles {
				capped = true
				return fs.SkipAll
			}
			return nil
		}
		if walkErr := filepath.WalkDir(root, walkFunc); walkErr != nil {
			return nil, walkErr
		}
		if capped {
			log.WithField("max_tiles", maxTiles).Warn("Reached maximum number of tiles, ignoring remaining images")
			break
		}
	}
	log.WithFields(log.Fields{
		"role":  role,
		"tiles": len(res),
	}).Info("Loaded images")
	return res, nil
}

func (lib *Library) loadTile(ctx context.Context, id ImageID, path string, role Role) (*Tile, error) {
	img, imgErr := LoadImage(path)
	if imgErr != nil {
		return nil, imgErr
	}
	if role == RoleTarget {
		return NewTile(id, path, img, img), nil
	}
	thumb := lib.representative(ctx, path, img)
	return NewTile(id, path, img, thumb), nil
}

func (lib *Library) thumbKey(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	abs, absErr := filepath.Abs(path)
	if absErr != nil {
		abs = path
	}
	return cache.Key("thumb", abs, info.Size(), info.ModTime().UnixNano(),
		lib.Config.ThumbWidth, lib.Config.ThumbHeight), true
}

// representative returns the match thumbnail of img. Cache failures are
// logged and the thumbnail is computed.
func (lib *Library) representative(ctx context.Context, path string, img image.Image) image.Image {
	if lib.Cache == nil {
		return lib.thumbnail(img)
	}
	key, ok := lib.thumbKey(path)
	if !ok {
		return lib.thumbnail(img)
	}
	data, hit, getErr := lib.Cache.Get(ctx, key)
	if getErr != nil {
		log.WithError(getErr).WithField("path", path).Warn("Thumbnail cache lookup failed")
	}
	if hit {
		thumb, decodeErr := png.Decode(bytes.NewReader(data))
		if decodeErr == nil {
			return thumb
		}
		log.WithError(decodeErr).WithField("path", path).Warn("Ignoring invalid cached thumbnail")
		if delErr := lib.Cache.Delete(ctx, key); delErr != nil {
			log.WithError(delErr).WithField("path", path).Warn("Can't remove invalid cached thumbnail")
		}
	}
	thumb := lib.thumbnail(img)
	var buf bytes.Buffer
	if encErr := png.Encode(&buf, thumb); encErr != nil {
		log.WithError(encErr).Warn("Can't encode thumbnail")
		return thumb
	}
	ttl := time.Duration(lib.Config.Cache.TTL)
	if setErr := lib.Cache.Set(ctx, key, buf.Bytes(), ttl); setErr != nil {
		log.WithError(setErr).WithField("path", path).Warn("Can't store thumbnail in cache")
	}
	return thumb
}

func (lib *Library) thumbnail(img image.Image) image.Image {
	resizer := lib.Resizer
	if resizer == nil {
		resizer = DefaultAreaResizer
	}
	return resizer.Resize(uint(lib.Config.ThumbWidth), uint(lib.Config.ThumbHeight), img)
}

// LoadTarget loads the target image. path is either an image file or a
// directory, in the latter case the first image found is used.
func (lib *Library) LoadTarget(ctx context.Context, path string) (*Tile, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		return nil, &NotFoundError{Path: path, Err: statErr}
	}
	if !info.IsDir() {
		img, imgErr := LoadImage(path)
		if imgErr != nil {
			return nil, imgErr
		}
		return NewTile(0, path, img, img), nil
	}
	targets, loadErr := lib.Load(ctx, []string{path}, RoleTarget)
	if loadErr != nil {
		return nil, loadErr
	}
	if len(targets) == 0 {
		return nil, &NotFoundError{Path: path, Err: errors.New("no target image in directory")}
	}
	if len(targets) > 1 {
		log.WithFields(log.Fields{
			"dir":    path,
			"images": len(targets),
			"used":   targets[0].Path,
		}).Warn("Found more than one target image, using the first one")
	}
	return targets[0], nil
}
