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
	"image/color"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func TestCandidateHeapBound(t *testing.T) {
	h := NewCandidateHeap(3)
	for i, score := range []float64{5, 1, 4, 1, 3, 9, 0.5} {
		h.Add(Candidate{Tile: ImageID(i), Score: score})
	}
	want := []Candidate{{6, 0.5}, {1, 1}, {3, 1}}
	if got := h.View(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if h.Len() != 3 {
		t.Errorf("heap has %d elements", h.Len())
	}
}

func TestCandidateHeapUnbounded(t *testing.T) {
	h := NewCandidateHeap(0)
	for i := 0; i < 10; i++ {
		h.Add(Candidate{Tile: ImageID(i), Score: float64(10 - i)})
	}
	view := h.View()
	if len(view) != 10 {
		t.Fatalf("got %d candidates, want 10", len(view))
	}
	for i := 1; i < len(view); i++ {
		if view[i-1].Score > view[i].Score {
			t.Fatalf("view not sorted: %v", view)
		}
	}
}

func TestScore(t *testing.T) {
	scorer := &Scorer{
		Metric:        EuclideanDistance,
		PenaltyWeight: 5,
		Neighbors:     NeighborPenalties{Direct: 1000, Diagonal: 500},
	}
	tile := NewTile(1, "", solidImage(2, 2, red), solidImage(2, 2, red))
	block := Block{Row: 1, Col: 1, Color: NewRGB(255, 0, 0)}
	grid := NewPlacementGrid(3, 2)
	penalties := NewPenaltyTable(2)

	if got := scorer.Score(tile, block, penalties, grid); got != 0 {
		t.Errorf("exact match without penalties should score 0, got %f", got)
	}
	penalties.Increment(1)
	penalties.Increment(1)
	if got := scorer.Score(tile, block, penalties, grid); got != 10 {
		t.Errorf("expected usage penalty 10, got %f", got)
	}
	// all four neighbours hold the tile: 2 * 1000 + 2 * 500
	grid.Set(0, 0, 1)
	grid.Set(0, 1, 1)
	grid.Set(0, 2, 1)
	grid.Set(1, 0, 1)
	if got := scorer.Score(tile, block, penalties, grid); got != 3010 {
		t.Errorf("expected additive neighbour penalties 3010, got %f", got)
	}
}

func TestNeighborPenaltiesEdges(t *testing.T) {
	n := NeighborPenalties{Direct: 1000, Diagonal: 500}
	grid := NewPlacementGrid(2, 2)
	grid.Set(0, 0, 3)
	tests := []struct {
		row, col int
		want     float64
	}{
		{0, 0, 0},
		{0, 1, 1000},
		{1, 0, 1000},
		{1, 1, 500},
	}
	for _, tt := range tests {
		if got := n.Penalty(grid, tt.row, tt.col, 3); got != tt.want {
			t.Errorf("(%d, %d): got %f, want %f", tt.row, tt.col, got, tt.want)
		}
	}
	if got := n.Penalty(grid, 0, 1, 2); got != 0 {
		t.Errorf("different tile should not be penalized, got %f", got)
	}
}

func TestCandidates(t *testing.T) {
	tiles := []*Tile{
		solidTile(0, white),
		solidTile(1, red),
		solidTile(2, blue),
		solidTile(3, red),
	}
	scorer := &Scorer{Metric: EuclideanDistance}
	block := Block{Color: NewRGB(250, 0, 0)}
	cands := scorer.Candidates(tiles, block, NewPenaltyTable(4), NewPlacementGrid(1, 1), 2)
	if len(cands) != 2 {
		t.Fatalf("got %d candidates", len(cands))
	}
	// equal scores, lower id first
	if cands[0].Tile != 1 || cands[1].Tile != 3 {
		t.Errorf("unexpected candidates %v", cands)
	}
	if all := scorer.Candidates(tiles, block, NewPenaltyTable(4), NewPlacementGrid(1, 1), 10); len(all) != 4 {
		t.Errorf("pool larger than library should return all tiles, got %d", len(all))
	}
}

func TestArgMinSelector(t *testing.T) {
	cands := []Candidate{{4, 3}, {2, 1}, {7, 1}, {1, 8}}
	if got := (ArgMinSelector{}).Select(cands); got != 1 {
		t.Errorf("got index %d, want 1", got)
	}
}

func TestSelectionProbabilities(t *testing.T) {
	cands := []Candidate{{0, 0}, {1, 10}, {2, 1010}}
	probs := SelectionProbabilities(cands)
	var sum float64
	for _, p := range probs {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("probabilities sum to %f", sum)
	}
	if !(probs[0] > probs[1] && probs[1] > probs[2]) {
		t.Errorf("better candidates must be more likely: %v", probs)
	}
}

func TestNeighborPenaltyLowersProbability(t *testing.T) {
	scorer := &Scorer{
		Metric:    EuclideanDistance,
		Neighbors: NeighborPenalties{Direct: 1000, Diagonal: 500},
	}
	tiles := []*Tile{solidTile(0, red), solidTile(1, color.RGBA{R: 240, A: 255})}
	block := Block{Row: 0, Col: 1, Color: NewRGB(250, 0, 0)}
	penalties := NewPenaltyTable(2)

	free := NewPlacementGrid(2, 1)
	before := SelectionProbabilities(scorer.Candidates(tiles, block, penalties, free, 2))

	grid := NewPlacementGrid(2, 1)
	grid.Set(0, 0, 0)
	after := scorer.Candidates(tiles, block, penalties, grid, 2)
	afterProbs := SelectionProbabilities(after)
	var pBefore, pAfter float64
	for i, c := range scorer.Candidates(tiles, block, penalties, free, 2) {
		if c.Tile == 0 {
			pBefore = before[i]
		}
	}
	for i, c := range after {
		if c.Tile == 0 {
			pAfter = afterProbs[i]
		}
	}
	if pAfter >= pBefore {
		t.Errorf("neighbour penalty should lower the probability: before %f, after %f", pBefore, pAfter)
	}
}

func TestWeightedRandomSelectorDeterministic(t *testing.T) {
	cands := []Candidate{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}}
	run := func() []int {
		sel := NewSeededSelector(7)
		res := make([]int, 50)
		for i := range res {
			res[i] = sel.Select(cands)
		}
		return res
	}
	if a, b := run(), run(); !reflect.DeepEqual(a, b) {
		t.Error("same seed should produce the same selection sequence")
	}
}

func TestWeightedRandomSelectorDistribution(t *testing.T) {
	cands := []Candidate{{0, 1}, {1, 3}}
	sel := NewWeightedRandomSelector(rand.New(rand.NewSource(1)))
	counts := make([]int, 2)
	const n = 20000
	for i := 0; i < n; i++ {
		counts[sel.Select(cands)]++
	}
	// weights 1 and 1/3: expected share of the first candidate is 0.75
	share := float64(counts[0]) / n
	if share < 0.72 || share > 0.78 {
		t.Errorf("first candidate chosen with frequency %f, expected about 0.75", share)
	}
}
