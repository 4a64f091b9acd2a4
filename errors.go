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
	"fmt"
)

var (
	// ErrEmptyLibrary is returned if a mosaic should be composed but there are
	// no tiles to choose from.
	ErrEmptyLibrary = errors.New("No usable tile images in library")

	// ErrEmptyCanvas is returned if an image without any pixels should be
	// encoded or split into a pyramid.
	ErrEmptyCanvas = errors.New("Image is empty")

	// ErrInvalidGrid is returned if a target can't be divided into at least one
	// block in each direction.
	ErrInvalidGrid = errors.New("Invalid grid dimensions")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("Invalid configuration")

	// ErrInvariant signals a programming error, for example a block in the
	// mosaic that didn't get a tile assigned.
	ErrInvariant = errors.New("Internal invariant violated")
)

// NotFoundError is returned if a required file or directory does not exist.
// It aborts the whole run.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("Not found: %s", e.Path)
	}
	return fmt.Sprintf("Not found: %s: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// DecodeError is returned if a single image file can't be decoded.
// During library loading it is logged and the file is skipped.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("Can't decode image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
