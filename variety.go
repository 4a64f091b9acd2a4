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
	"math/rand"
	"time"
)

// Epsilon is added to scores before computing selection weights, a score of
// 0 would otherwise lead to a division by zero.
const Epsilon = 1e-6

// SelectionWeights returns the weight 1 / (score + Epsilon) for each
// candidate.
func SelectionWeights(candidates []Candidate) []float64 {
	res := make([]float64, len(candidates))
	for i, c := range candidates {
		res[i] = 1.0 / (c.Score + Epsilon)
	}
	return res
}

// SelectionProbabilities returns the probability with which each candidate
// is chosen by a WeightedRandomSelector. The probabilities sum up to 1.
func SelectionProbabilities(candidates []Candidate) []float64 {
	weights := SelectionWeights(candidates)
	var total float64
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return weights
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights
}

// WeightedRandomSelector implements Selector by choosing a random candidate,
// the probability of each candidate is proportional to 1 / (score + Epsilon).
//
// Thus good candidates are preferred, but the best candidate is not always
// taken. This way tiles with (nearly) equal scores don't lead to a uniform
// tiling.
//
// Note that instances of this selector are not safe for concurrent use.
type WeightedRandomSelector struct {
	randGen *rand.Rand
}

// NewWeightedRandomSelector returns a new random selector.
// The provided random generator is used to generate random numbers. You can
// use nil and a random generator will be created.
//
// Note that rand.Rand instances are not safe for concurrent use.
// Thus using the same generator on two instances that run concurrently is
// not allowed.
func NewWeightedRandomSelector(randGen *rand.Rand) *WeightedRandomSelector {
	if randGen == nil {
		randGen = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &WeightedRandomSelector{randGen}
}

// NewSeededSelector returns a WeightedRandomSelector using the given seed.
// A seed of 0 uses the current time.
func NewSeededSelector(seed int64) *WeightedRandomSelector {
	if seed == 0 {
		return NewWeightedRandomSelector(nil)
	}
	return NewWeightedRandomSelector(rand.New(rand.NewSource(seed)))
}

// Select implements Selector.
func (sel *WeightedRandomSelector) Select(candidates []Candidate) int {
	weights := SelectionWeights(candidates)
	var total float64
	for _, w := range weights {
		total += w
	}
	r := sel.randGen.Float64() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return i
		}
	}
	// only reached due to rounding
	return len(candidates) - 1
}
