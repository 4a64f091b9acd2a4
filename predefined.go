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

// This file contains some predefined scripts that can be executed. This way
// we have some easy way to create mosaics without requiring the user to know
// any details.

var (
	// RunSimple loads all tiles from a directory, composes the mosaic of a
	// target and saves it.
	// It is parameterized by three parameters: First the directory containing
	// the tile images, second the target image (or a directory containing it)
	// and third the output file.
	//
	// Example usage: RunSimple ~/Pictures/ target.jpg mosaic.jpg
	RunSimple = `tiles load $1
target $2
mosaic $3`

	// RunDeepZoom is RunSimple followed by the generation of a pyramid. The
	// fourth parameter is the pyramid directory.
	//
	// Example usage: RunDeepZoom ~/Pictures/ target.jpg mosaic.jpg out/mosaic_files
	//
	// This writes the tiles to out/mosaic_files and the descriptor to
	// out/mosaic.dzi.
	RunDeepZoom = `tiles load $1
target $2
mosaic $3
pyramid $4`

	// CompareMetrics is similar to RunSimple but generates one mosaic for each
	// metric. Thus the third argument is not a file but a directory.
	//
	// Example usage: CompareMetrics ~/Pictures/ target.jpg ./output/
	CompareMetrics = `tiles load $1
target $2
set metric euclid
mosaic $3/mosaic-euclid.jpg
set metric manhattan
mosaic $3/mosaic-manhattan.jpg
set metric chessboard
mosaic $3/mosaic-chessboard.jpg`
)

// PredefinedScripts maps the names of the predefined scripts to their source.
var PredefinedScripts = map[string]string{
	"simple":   RunSimple,
	"deepzoom": RunDeepZoom,
	"metrics":  CompareMetrics,
}
