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

package knn

import (
	"github.com/gorse-io/gorse-knn/base"
	"github.com/gorse-io/gorse-knn/common/heap"
	"github.com/gorse-io/gorse-knn/dataset"
	"github.com/juju/errors"
)

// DistanceFunc measures the distance between two sorted sparse rows. Smaller is closer.
type DistanceFunc func(a, b *base.SparseVector) float64

// Neighbor is an item found by a query.
type Neighbor struct {
	ItemId   string
	Distance float64
}

// Option configures an Index.
type Option func(*Index)

// WithDistance replaces the cosine distance.
func WithDistance(distance DistanceFunc) Option {
	return func(idx *Index) {
		idx.distance = distance
	}
}

// Index answers k-nearest-neighbor queries over the rows of a feature matrix by comparing
// the query row with every other row. It is read-only after Build, so queries may run
// concurrently. New data requires a new Index.
type Index struct {
	matrix   *dataset.FeatureMatrix
	distance DistanceFunc
}

// Build creates an index on a feature matrix.
func Build(matrix *dataset.FeatureMatrix, opts ...Option) (*Index, error) {
	if matrix == nil || matrix.NumRows() == 0 {
		return nil, errors.NotValidf("empty feature matrix")
	}
	idx := &Index{
		matrix:   matrix,
		distance: base.CosineDistance,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx, nil
}

// Len returns the number of indexed items.
func (idx *Index) Len() int {
	return idx.matrix.NumRows()
}

// ItemIds returns indexed items in canonical order.
func (idx *Index) ItemIds() []string {
	return idx.matrix.ItemIds()
}

// Contains checks whether an item is indexed.
func (idx *Index) Contains(itemId string) bool {
	return idx.matrix.RowOf(itemId) != base.NotId
}

// Query returns the k items closest to an item, excluding the item itself, ordered by
// distance then by item ID.
func (idx *Index) Query(itemId string, k int) ([]Neighbor, error) {
	q := idx.matrix.RowOf(itemId)
	if q == base.NotId {
		return nil, errors.NotFoundf("item %v", itemId)
	}
	if k < 1 || k > idx.Len()-1 {
		return nil, errors.BadRequestf("k = %d out of range [1, %d]", k, idx.Len()-1)
	}
	// Rows follow the canonical item order, so breaking ties by row breaks ties by item ID.
	filter := heap.NewBottomKFilter[int32, float64](k)
	query := idx.matrix.Row(int(q))
	for i := 0; i < idx.Len(); i++ {
		if int32(i) != q {
			filter.Push(int32(i), idx.distance(query, idx.matrix.Row(i)))
		}
	}
	elems := filter.PopAll()
	neighbors := make([]Neighbor, len(elems))
	for i, elem := range elems {
		neighbors[i] = Neighbor{ItemId: idx.matrix.ItemId(elem.Value), Distance: elem.Weight}
	}
	return neighbors, nil
}
