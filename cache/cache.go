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

// Package cache stores match thumbnails between runs. Computing the thumbnail
// of a large photo is the most expensive part of loading a tile library, so
// repeated runs over the same directories can skip it.
//
// Values are opaque byte slices, keys are arbitrary strings.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a key value store with optional expiration.
//
// Get returns ok = false on a miss, a miss is not an error.
// A ttl ≤ 0 in Set means the entry doesn't expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options configures New.
type Options struct {
	// Backend is one of "", "none", "file" or "redis".
	Backend string

	Dir string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New creates the cache described by opts. The empty backend and "none"
// return a NullCache.
func New(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", "none":
		return NewNullCache(), nil
	case "file":
		return NewFileCache(opts.Dir)
	case "redis":
		return NewRedisCache(ctx, RedisConfig{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
	default:
		return nil, fmt.Errorf("Unknown cache backend %q", opts.Backend)
	}
}
