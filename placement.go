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

import "fmt"

// PlacementGrid records which tile was placed in each block, stored as
// [row][column]. Cells without a tile contain NoImageID.
//
// It only lives as long as one composition and is used to look up
// neighbours without scanning the canvas.
type PlacementGrid [][]ImageID

// NewPlacementGrid returns a grid of the given size with all cells set to
// NoImageID.
func NewPlacementGrid(cols, rows int) PlacementGrid {
	res := make(PlacementGrid, rows)
	for i := range res {
		row := make([]ImageID, cols)
		for j := range row {
			row[j] = NoImageID
		}
		res[i] = row
	}
	return res
}

// Get returns the tile in the given cell, positions outside of the grid
// return NoImageID.
func (g PlacementGrid) Get(row, col int) ImageID {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return NoImageID
	}
	return g[row][col]
}

// Set assigns the tile to the given cell.
func (g PlacementGrid) Set(row, col int, id ImageID) {
	g[row][col] = id
}

// Unfilled returns the first cell that has no tile assigned, ok is false if
// all cells are filled.
func (g PlacementGrid) Unfilled() (row, col int, ok bool) {
	for i, r := range g {
		for j, id := range r {
			if id == NoImageID {
				return i, j, true
			}
		}
	}
	return -1, -1, false
}

// Count returns how often each tile was placed.
func (g PlacementGrid) Count() map[ImageID]int {
	res := make(map[ImageID]int)
	for _, r := range g {
		for _, id := range r {
			if id != NoImageID {
				res[id]++
			}
		}
	}
	return res
}

// NeighborPenalties describes the penalty added if a tile was already placed
// in a neighbouring block.
//
// Only blocks that were processed before the current block (in row-major
// order) are considered: Direct is added for the block above and for the
// block to the left, Diagonal for the blocks above-left and above-right.
// A tile placed in several of these blocks gets each penalty added.
type NeighborPenalties struct {
	Direct, Diagonal float64
}

// Penalty returns the neighbour penalty for placing tile at (row, col).
func (n NeighborPenalties) Penalty(grid PlacementGrid, row, col int, tile ImageID) float64 {
	var res float64
	if grid.Get(row-1, col) == tile {
		res += n.Direct
	}
	if grid.Get(row, col-1) == tile {
		res += n.Direct
	}
	if grid.Get(row-1, col-1) == tile {
		res += n.Diagonal
	}
	if grid.Get(row-1, col+1) == tile {
		res += n.Diagonal
	}
	return res
}

// PenaltyTable counts how often each tile was used recently. It is owned by
// a single composition and indexed by ImageID.
//
// Values never become negative.
type PenaltyTable []int

// NewPenaltyTable returns a table for numTiles tiles, all penalties are 0.
func NewPenaltyTable(numTiles int) PenaltyTable {
	return make(PenaltyTable, numTiles)
}

// Get returns the penalty of the tile.
func (t PenaltyTable) Get(id ImageID) int {
	return t[id]
}

// Increment increases the penalty of a tile by one.
func (t PenaltyTable) Increment(id ImageID) {
	t[id]++
}

// Decay decreases all non-zero penalties by one.
func (t PenaltyTable) Decay() {
	for i, p := range t {
		if p > 0 {
			t[i] = p - 1
		}
	}
}

func (t PenaltyTable) String() string {
	return fmt.Sprint([]int(t))
}
