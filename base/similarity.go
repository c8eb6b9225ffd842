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

import "math"

// CosineSimilarity computes the cosine similarity between a pair of sorted vectors.
// It returns 0 if either vector is the zero vector.
func CosineSimilarity(a, b *SparseVector) float64 {
	m, n := a.SquaredNorm(), b.SquaredNorm()
	if m == 0 || n == 0 {
		return 0
	}
	return a.Dot(b) / math.Sqrt(m*n)
}

// CosineDistance computes 1 - cosine similarity. A zero vector is maximally distant from
// everything, including another zero vector.
func CosineDistance(a, b *SparseVector) float64 {
	if a.Len() == 0 || b.Len() == 0 {
		return 1
	}
	return math.Max(0, 1-CosineSimilarity(a, b))
}
