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

package dataset

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/gorse-knn/base"
	"github.com/gorse-io/gorse-knn/base/log"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// FeatureMatrix is a sparse item-user rating matrix. Rows are items and columns are users,
// both in canonical ID order. Missing ratings are absent entries, not zeros. A FeatureMatrix
// is immutable once built.
type FeatureMatrix struct {
	items      *base.Index
	users      *base.Index
	rows       []*base.SparseVector
	duplicates int
}

// BuildFeatureMatrix pivots ratings into a sparse matrix. Only ratings of items in keep are
// used; a nil keep uses every rating. When a (item, user) pair is rated more than once, the
// last rating in input order wins.
func BuildFeatureMatrix(ratings []RatingObservation, keep mapset.Set[string]) *FeatureMatrix {
	kept := lo.Filter(ratings, func(rating RatingObservation, _ int) bool {
		return keep == nil || keep.Contains(rating.ItemId)
	})
	m := &FeatureMatrix{
		items: base.NewSortedIndex(lo.Map(kept, func(rating RatingObservation, _ int) string { return rating.ItemId })),
		users: base.NewSortedIndex(lo.Map(kept, func(rating RatingObservation, _ int) string { return rating.UserId })),
	}
	// (item, user) -> position of the rating in kept
	cells := make([]map[int32]int, m.items.Len())
	for i := range cells {
		cells[i] = make(map[int32]int)
	}
	for pos, rating := range kept {
		row := m.items.ToNumber(rating.ItemId)
		col := m.users.ToNumber(rating.UserId)
		if _, exist := cells[row][col]; exist {
			m.duplicates++
		}
		cells[row][col] = pos
	}
	m.rows = make([]*base.SparseVector, len(cells))
	for row, cols := range cells {
		vec := base.NewSparseVector()
		for col, pos := range cols {
			vec.Add(col, kept[pos].Rating)
		}
		vec.SortIndex()
		m.rows[row] = vec
	}
	if m.duplicates > 0 {
		log.Logger().Warn("duplicated ratings overwritten", zap.Int("n_duplicates", m.duplicates))
	}
	return m
}

// NumRows returns the number of items.
func (m *FeatureMatrix) NumRows() int {
	return len(m.rows)
}

// NumColumns returns the number of users.
func (m *FeatureMatrix) NumColumns() int {
	return int(m.users.Len())
}

// NNZ returns the number of stored ratings.
func (m *FeatureMatrix) NNZ() int {
	nnz := 0
	for _, row := range m.rows {
		nnz += row.Len()
	}
	return nnz
}

// Density returns the ratio of stored ratings to cells.
func (m *FeatureMatrix) Density() float64 {
	if m.NumRows() == 0 || m.NumColumns() == 0 {
		return 0
	}
	return float64(m.NNZ()) / float64(m.NumRows()) / float64(m.NumColumns())
}

// Duplicates returns the number of ratings overwritten by a later rating of the same cell.
func (m *FeatureMatrix) Duplicates() int {
	return m.duplicates
}

// ItemIds returns item IDs by row.
func (m *FeatureMatrix) ItemIds() []string {
	return m.items.GetNames()
}

// UserIds returns user IDs by column.
func (m *FeatureMatrix) UserIds() []string {
	return m.users.GetNames()
}

// Row returns the sorted sparse row of an item. The row must not be modified.
func (m *FeatureMatrix) Row(row int) *base.SparseVector {
	return m.rows[row]
}

// ItemId returns the item of a row.
func (m *FeatureMatrix) ItemId(row int32) string {
	return m.items.ToName(row)
}

// RowOf returns the row of an item, or base.NotId.
func (m *FeatureMatrix) RowOf(itemId string) int32 {
	return m.items.ToNumber(itemId)
}
