// Copyright 2026 gorse Project Authors
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

package base

import "sort"

// SparseVector is the data structure for the sparse vector. Zero entries are never stored,
// so an empty vector is the zero vector.
type SparseVector struct {
	Indices []int32
	Values  []float64
	Sorted  bool
}

// NewSparseVector creates a SparseVector.
func NewSparseVector() *SparseVector {
	return &SparseVector{
		Indices: make([]int32, 0),
		Values:  make([]float64, 0),
	}
}

// Add a new entry. Zero values are skipped.
func (vec *SparseVector) Add(index int32, value float64) {
	if value == 0 {
		return
	}
	vec.Indices = append(vec.Indices, index)
	vec.Values = append(vec.Values, value)
	vec.Sorted = false
}

// Len returns the number of non-zero entries.
func (vec *SparseVector) Len() int {
	return len(vec.Values)
}

// Less returns true if the index of i-th entry is less than the index of j-th entry.
func (vec *SparseVector) Less(i, j int) bool {
	return vec.Indices[i] < vec.Indices[j]
}

// Swap two entries.
func (vec *SparseVector) Swap(i, j int) {
	vec.Indices[i], vec.Indices[j] = vec.Indices[j], vec.Indices[i]
	vec.Values[i], vec.Values[j] = vec.Values[j], vec.Values[i]
}

// SortIndex sorts entries by indices.
func (vec *SparseVector) SortIndex() {
	if !vec.Sorted {
		sort.Sort(vec)
		vec.Sorted = true
	}
}

// ForEach iterates entries in the sparse vector.
func (vec *SparseVector) ForEach(f func(index int32, value float64)) {
	for i := range vec.Indices {
		f(vec.Indices[i], vec.Values[i])
	}
}

// ForIntersection iterates entries in the intersection of two vectors. Both vectors must
// be sorted by SortIndex before, so that concurrent readers never reorder shared vectors.
func (vec *SparseVector) ForIntersection(other *SparseVector, f func(index int32, a, b float64)) {
	i, j := 0, 0
	for i < vec.Len() && j < other.Len() {
		if vec.Indices[i] == other.Indices[j] {
			f(vec.Indices[i], vec.Values[i], other.Values[j])
			i++
			j++
		} else if vec.Indices[i] < other.Indices[j] {
			i++
		} else {
			j++
		}
	}
}

// Dot returns the inner product of two sorted vectors.
func (vec *SparseVector) Dot(other *SparseVector) float64 {
	var sum float64
	vec.ForIntersection(other, func(_ int32, a, b float64) {
		sum += a * b
	})
	return sum
}

// SquaredNorm returns the squared L2 norm.
func (vec *SparseVector) SquaredNorm() float64 {
	var sum float64
	for _, value := range vec.Values {
		sum += value * value
	}
	return sum
}
