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

// Package deepmosaic generates mosaic images given a library (= set) of tile
// images. It takes a target image, divides it into blocks and replaces each
// block by the tile whose average color matches the block best, while
// suppressing visible repetitions of the same tile.
//
// The finished mosaic can be split into a Deep Zoom image pyramid: a set of
// power-of-two resolution levels, each cut into fixed size tiles, together
// with a small XML descriptor that viewers (e.g. OpenSeadragon) use to request
// the tiles for a given viewport.
//
// The typical workflow is: Load the tiles with a Library, load the target
// with LoadImage, create the mosaic with a Composer and hand the result to
// a PyramidGenerator. Pipeline runs all these steps given a Config.
//
// It ships with an executable program (cmd/mosaic) that runs the pipeline,
// either in one shot or in an interactive command mode.
package deepmosaic
