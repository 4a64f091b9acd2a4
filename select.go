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

// Selector is the policy used to choose one tile from the candidate pool of
// a block.
//
// The candidates are sorted by score, best candidates first, and there is at
// least one candidate. Select returns the index of the chosen candidate.
//
// ArgMinSelector always takes the best candidate, WeightedRandomSelector
// chooses randomly but prefers better candidates.
type Selector interface {
	Select(candidates []Candidate) int
}

// ArgMinSelector implements Selector by always selecting the candidate with
// the smallest score.
type ArgMinSelector struct{}

// Select implements Selector.
func (ArgMinSelector) Select(candidates []Candidate) int {
	best := 0
	for i, c := range candidates[1:] {
		if candidates[best].worse(c) {
			best = i + 1
		}
	}
	return best
}

// Scorer computes how well each tile fits a block. The score is
//
//	metric(tile color, block color) + PenaltyWeight * penalty + neighbour penalty
//
// where penalty is the usage counter of the tile in the current composition.
// With PenaltyWeight and both neighbour penalties set to 0 this is plain
// nearest color matching.
type Scorer struct {
	Metric        VectorMetric
	PenaltyWeight float64
	Neighbors     NeighborPenalties
}

// NewScorer returns a scorer given the configuration. Unknown metric names
// fall back to EuclideanDistance.
func NewScorer(config *Config) *Scorer {
	metric, ok := GetVectorMetric(config.Metric)
	if !ok {
		metric = EuclideanDistance
	}
	return &Scorer{
		Metric:        metric,
		PenaltyWeight: config.PenaltyWeight,
		Neighbors: NeighborPenalties{
			Direct:   config.NeighborPenalty,
			Diagonal: config.DiagonalPenalty,
		},
	}
}

// Score returns the score of tile for block.
func (s *Scorer) Score(tile *Tile, block Block, penalties PenaltyTable, grid PlacementGrid) float64 {
	var dist float64
	if s.Metric == nil {
		dist = ColorDistance(tile.Color, block.Color)
	} else {
		dist = s.Metric(tile.Color.Vector(), block.Color.Vector())
	}
	return dist +
		s.PenaltyWeight*float64(penalties.Get(tile.ID)) +
		s.Neighbors.Penalty(grid, block.Row, block.Col, tile.ID)
}

// Candidates scores all tiles and returns the poolSize best, sorted by
// ascending score. Equal scores are ordered by tile id.
// If poolSize < 1 or there are fewer tiles than poolSize all tiles are
// returned.
func (s *Scorer) Candidates(tiles []*Tile, block Block, penalties PenaltyTable,
	grid PlacementGrid, poolSize int) []Candidate {
	h := NewCandidateHeap(poolSize)
	for _, tile := range tiles {
		h.Add(Candidate{Tile: tile.ID, Score: s.Score(tile, block, penalties, grid)})
	}
	return h.View()
}
