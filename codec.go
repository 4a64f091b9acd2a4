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
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LoadImage decodes the image stored in the given file.
// If the file doesn't exist a *NotFoundError is returned, if it can't be
// decoded a *DecodeError.
func LoadImage(path string) (image.Image, error) {
	r, openErr := os.Open(path)
	if openErr != nil {
		if errors.Is(openErr, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: openErr}
		}
		return nil, openErr
	}
	defer r.Close()
	img, _, decodeErr := image.Decode(r)
	if decodeErr != nil {
		return nil, &DecodeError{Path: path, Err: decodeErr}
	}
	return img, nil
}

// EncodeImage writes img to w, format is either "jpg" or "png".
// jpgQuality is only used for jpg and must be between 1 and 100.
func EncodeImage(w io.Writer, img image.Image, format string, jpgQuality int) error {
	if img.Bounds().Empty() {
		return ErrEmptyCanvas
	}
	switch format {
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpgQuality})
	case "png":
		return png.Encode(w, img)
	default:
		return fmt.Errorf("Unsupported image format: %s, expected jpg or png", format)
	}
}

// SaveImage stores the image in the given file, the format is derived from
// the file extension. Parent directories are created if needed.
func SaveImage(file string, img image.Image, jpgQuality int) error {
	if img == nil || img.Bounds().Empty() {
		return ErrEmptyCanvas
	}
	ext := strings.ToLower(filepath.Ext(file))
	if !JPGAndPNG(ext) {
		return fmt.Errorf("Unsupported file type: %s, expected .jpg or .png", ext)
	}
	if dir := filepath.Dir(file); dir != "" {
		if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
			return mkErr
		}
	}
	outFile, outErr := os.Create(file)
	if outErr != nil {
		return outErr
	}
	encErr := EncodeImage(outFile, img, strings.TrimPrefix(ext, "."), jpgQuality)
	closeErr := outFile.Close()
	if encErr != nil {
		return encErr
	}
	return closeErr
}
