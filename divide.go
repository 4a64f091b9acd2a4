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

	log "github.com/sirupsen/logrus"
)

// DivideMode is used to describe in which way to handle remaining pixels
// in image division.
// As an example consider an image with 99 pixels width that we want to divide
// into tiles with 10 pixels. This leads to 9 tiles with 10 pixels, but 9
// pixels are left. DivideMode now describes what to do with the remaining 9
// pixels:
// Crop would mean to crop the image and discard the remaining pixels.
// Adjust would mean to adjust the last tile to have a width of 9 and pad
// would mean to add an additional tile with width 10 (and thus describing a
// tile that does not intersect with the image everywhere).
type DivideMode int

const (
	// DivideCrop is the mode in which remaining pixels are discarded.
	DivideCrop DivideMode = iota
	// DivideAdjust is the mode in which a tile is adjusted to the remaining
	// pixels.
	DivideAdjust
	// DividePad is the mode in which a tile of a certain size is created even
	// if not enough pixels are remaining.
	DividePad
)

func (mode DivideMode) String() string {
	switch mode {
	case DivideCrop:
		return "DivideCrop"
	case DivideAdjust:
		return "DivideAdjust"
	case DividePad:
		return "DividePad"
	default:
		return fmt.Sprintf("DivideMode(%d)", mode)
	}
}

// TileDivision represents the division of an image into rectangles.
//
// Rectangles are stored as [row][column], so div[y][x] is the rectangle in
// row y and column x. The Get method does this correctly.
type TileDivision [][]image.Rectangle

// Get returns the rectangle in row y and column x.
func (div TileDivision) Get(x, y int) image.Rectangle {
	return div[y][x]
}

// Size returns the number of rectangles in the division.
func (div TileDivision) Size() int {
	res := 0
	for _, row := range div {
		res += len(row)
	}
	return res
}

// ImageDivider is a type to divide an image into rectangles.
//
// The returned division has to meet the following requirements:
//
// (1) It returns a matrix of rectangles, each row has the same length.
// The element at (0, 0) describes the top left rectangle.
//
// (2) Rectangles might be of different size.
//
// (3) The result may be empty (or nil).
type ImageDivider interface {
	Divide(image.Rectangle) TileDivision
}

// FixedSizeDivider divides an image into tiles where each tile has the
// given width and height. It implements ImageDivider.
// The DivideMode describes how to deal with "remaining" pixels.
//
// The pyramid generator uses it with DivideAdjust: all tiles have the given
// size, except for the last row and column which are clipped to the image.
type FixedSizeDivider struct {
	Width, Height int
	Mode          DivideMode
}

// NewFixedSizeDivider returns a new FixedSizeDivider.
func NewFixedSizeDivider(width, height int, mode DivideMode) FixedSizeDivider {
	return FixedSizeDivider{Width: width, Height: height, Mode: mode}
}

func (divider FixedSizeDivider) getSize(originalDimension, tileDimension int) int {
	switch {
	case tileDimension > originalDimension, tileDimension <= 0:
		return 1
	case originalDimension%tileDimension == 0:
		return originalDimension / tileDimension
	case divider.Mode == DivideCrop:
		return originalDimension / tileDimension
	default:
		return ceilDiv(originalDimension, tileDimension)
	}
}

func (divider FixedSizeDivider) outerBound(imgBoundPosition, position int) int {
	switch {
	case position <= imgBoundPosition:
		return position
	case divider.Mode == DivideAdjust:
		return imgBoundPosition
	default:
		// now mode must be DividePad, for crop we never end up here
		if divider.Mode != DividePad {
			log.WithField("mode", divider.Mode).Warn("Unexpected divide mode")
		}
		return position
	}
}

// Divide implements the Divide method of ImageDivider.
func (divider FixedSizeDivider) Divide(bounds image.Rectangle) TileDivision {
	if bounds.Empty() {
		return nil
	}
	tileWidth, tileHeight := divider.Width, divider.Height
	if tileWidth <= 0 || tileWidth > bounds.Dx() {
		tileWidth = bounds.Dx()
	}
	if tileHeight <= 0 || tileHeight > bounds.Dy() {
		tileHeight = bounds.Dy()
	}
	numRows := divider.getSize(bounds.Dy(), tileHeight)
	numCols := divider.getSize(bounds.Dx(), tileWidth)
	res := make(TileDivision, numRows)
	for i := 0; i < numRows; i++ {
		res[i] = make([]image.Rectangle, numCols)
		for j := 0; j < numCols; j++ {
			x0 := bounds.Min.X + j*tileWidth
			y0 := bounds.Min.Y + i*tileHeight
			x1 := divider.outerBound(bounds.Max.X, x0+tileWidth)
			y1 := divider.outerBound(bounds.Max.Y, y0+tileHeight)
			res[i][j] = image.Rect(x0, y0, x1, y1)
		}
	}
	return res
}

// FixedNumDivider is an ImageDivider that divides an image into a given number
// of tiles.
// Cut describes whether the image should be "cut".
// Example: Suppose you want to divide an image with width 99 into ten tiles
// horizontally. Each tile gets a width of 9, which yields a width of 90 and
// 9 pixels are "left over".
//
// If Cut is true those 9 pixels are skipped. If Cut is false the last tile is
// enlarged to width 18, so the division covers the whole image without gaps
// or overlaps.
type FixedNumDivider struct {
	NumX, NumY int
	Cut        bool
}

// NewFixedNumDivider returns a new FixedNumDivider given the number of tiles in
// x and y direction.
func NewFixedNumDivider(numX, numY int, cut bool) *FixedNumDivider {
	return &FixedNumDivider{NumX: numX, NumY: numY, Cut: cut}
}

// divisionNum either row or column
func (divider *FixedNumDivider) outerBound(divisionNum, index, imgBound, value int) int {
	if index+1 == divisionNum && !divider.Cut {
		// last row / column absorbs the remaining pixels
		return imgBound
	}
	return value
}

// Divide implements the Divide method of ImageDivider.
//
// If there are more tiles than pixels in a direction the tiles in that
// direction get a size of zero (except the last one). Callers should avoid
// such divisions, Partition rejects them.
func (divider *FixedNumDivider) Divide(bounds image.Rectangle) TileDivision {
	if bounds.Empty() || divider.NumX <= 0 || divider.NumY <= 0 {
		return nil
	}
	tileWidth := bounds.Dx() / divider.NumX
	tileHeight := bounds.Dy() / divider.NumY
	numRows := divider.NumY
	numCols := divider.NumX
	res := make(TileDivision, numRows)
	for i := 0; i < numRows; i++ {
		res[i] = make([]image.Rectangle, numCols)
		for j := 0; j < numCols; j++ {
			x0 := bounds.Min.X + j*tileWidth
			y0 := bounds.Min.Y + i*tileHeight
			x1 := divider.outerBound(numCols, j, bounds.Max.X, x0+tileWidth)
			y1 := divider.outerBound(numRows, i, bounds.Max.Y, y0+tileHeight)
			res[i][j] = image.Rect(x0, y0, x1, y1)
		}
	}
	return res
}

// Block is one cell of the target grid together with its average color.
type Block struct {
	Row, Col int
	Area     image.Rectangle
	Color    RGB
}

// Partition is the division of a target image into blocks, stored as
// [row][column].
type Partition [][]Block

// Rows returns the number of rows in the partition.
func (p Partition) Rows() int {
	return len(p)
}

// Cols returns the number of columns in the partition.
func (p Partition) Cols() int {
	if len(p) == 0 {
		return 0
	}
	return len(p[0])
}

// PartitionImage divides target into cols × rows blocks and computes the
// average color of each block.
//
// Each block has a width of ⌊width / cols⌋ and a height of ⌊height / rows⌋,
// the last column and row absorb the remaining pixels. Thus the blocks cover
// the image exactly.
//
// An error wrapping ErrInvalidGrid is returned if cols or rows is not
// positive or if the image is too small to give each block at least one
// pixel.
func PartitionImage(target image.Image, cols, rows int) (Partition, error) {
	bounds := target.Bounds()
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: %dx%d blocks", ErrInvalidGrid, cols, rows)
	}
	if bounds.Dx() < cols || bounds.Dy() < rows {
		return nil, fmt.Errorf("%w: can't divide image of size %dx%d into %dx%d blocks",
			ErrInvalidGrid, bounds.Dx(), bounds.Dy(), cols, rows)
	}
	divider := NewFixedNumDivider(cols, rows, false)
	dist := divider.Divide(bounds)
	res := make(Partition, len(dist))
	for i, row := range dist {
		res[i] = make([]Block, len(row))
		for j, r := range row {
			block := Block{Row: i, Col: j, Area: r}
			sub, subErr := SubImage(target, r)
			if subErr != nil {
				return nil, subErr
			}
			block.Color = RGB(ComputeAverageColor(sub))
			res[i][j] = block
		}
	}
	return res, nil
}

// GridSize returns the number of columns and rows the target gets divided
// into given the size of a match tile. It returns an error wrapping
// ErrInvalidGrid if the target is smaller than a single match tile.
func GridSize(bounds image.Rectangle, matchWidth, matchHeight int) (int, int, error) {
	if matchWidth <= 0 || matchHeight <= 0 {
		return 0, 0, fmt.Errorf("%w: match tile size %dx%d", ErrInvalidGrid, matchWidth, matchHeight)
	}
	cols, rows := bounds.Dx()/matchWidth, bounds.Dy()/matchHeight
	if cols == 0 || rows == 0 {
		return 0, 0, fmt.Errorf("%w: target of size %dx%d is smaller than match tile %dx%d",
			ErrInvalidGrid, bounds.Dx(), bounds.Dy(), matchWidth, matchHeight)
	}
	return cols, rows, nil
}
