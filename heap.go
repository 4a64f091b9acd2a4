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
	"container/heap"
)

// Candidate is a tile together with its score for a block. The smaller the
// score the better the tile fits.
type Candidate struct {
	Tile  ImageID
	Score float64
}

// worse reports whether a ranks behind b: higher score, ties broken by the
// larger id.
func (a Candidate) worse(b Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Tile > b.Tile
}

// candidateHeapInterface implements heap.Interface, the worst candidate is
// on top s.t. it can be removed when the heap grows beyond its bound.
type candidateHeapInterface []Candidate

func (h candidateHeapInterface) Len() int {
	return len(h)
}

func (h candidateHeapInterface) Less(i, j int) bool {
	return h[i].worse(h[j])
}

func (h candidateHeapInterface) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *candidateHeapInterface) Push(x interface{}) {
	*h = append(*h, x.(Candidate))
}

func (h *candidateHeapInterface) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// CandidateHeap stores the best candidates seen so far. If bound ≥ 1 only the
// bound best candidates are kept.
type CandidateHeap struct {
	interf candidateHeapInterface
	bound  int
}

// NewCandidateHeap returns a new heap with the given bound. A bound < 1 means
// that all candidates are kept.
func NewCandidateHeap(bound int) *CandidateHeap {
	capacity := bound + 1
	if bound < 1 {
		capacity = 100
	}
	return &CandidateHeap{
		interf: make(candidateHeapInterface, 0, capacity),
		bound:  bound,
	}
}

// Add adds a candidate, truncating the heap if it has a bound.
func (h *CandidateHeap) Add(c Candidate) {
	if h.bound >= 1 && len(h.interf) == h.bound {
		// no need to push if the new candidate is not better than the worst one
		if !h.interf[0].worse(c) {
			return
		}
		h.interf[0] = c
		heap.Fix(&h.interf, 0)
		return
	}
	heap.Push(&h.interf, c)
}

// Len returns the number of candidates in the heap.
func (h *CandidateHeap) Len() int {
	return len(h.interf)
}

// View returns the candidates in the heap, best candidates first.
// The heap itself is not changed.
// The complexity is O(n * log(n)) where n is the size of the heap.
func (h *CandidateHeap) View() []Candidate {
	n := len(h.interf)
	tmp := make(candidateHeapInterface, n)
	copy(tmp, h.interf)
	res := make([]Candidate, n)
	for i := 0; i < n; i++ {
		res[n-i-1] = heap.Pop(&tmp).(Candidate)
	}
	return res
}
