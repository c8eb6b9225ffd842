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

import (
	"sort"
	"strconv"
	"strings"
)

// Index manages the map between sparse Names and dense indices. A sparse ID is
// a user ID or item ID. The dense index is the row or column of the feature matrix.
type Index struct {
	Numbers map[string]int32 // sparse ID -> dense index
	Names   []string         // dense index -> sparse ID
}

// NotId represents an ID doesn't exist.
const NotId = int32(-1)

// NewMapIndex creates a Index.
func NewMapIndex() *Index {
	set := new(Index)
	set.Numbers = make(map[string]int32)
	set.Names = make([]string, 0)
	return set
}

// NewSortedIndex creates a Index whose dense indices follow the canonical order of names.
// Duplicated names are added once.
func NewSortedIndex(names []string) *Index {
	sorted := make([]string, len(names))
	copy(sorted, names)
	SortIds(sorted)
	idx := NewMapIndex()
	for _, name := range sorted {
		idx.Add(name)
	}
	return idx
}

// Len returns the number of indexed Names.
func (idx *Index) Len() int32 {
	if idx == nil {
		return 0
	}
	return int32(len(idx.Names))
}

// Add adds a new ID to the indexer.
func (idx *Index) Add(name string) {
	if _, exist := idx.Numbers[name]; !exist {
		idx.Numbers[name] = int32(len(idx.Names))
		idx.Names = append(idx.Names, name)
	}
}

// ToNumber converts a sparse ID to a dense index.
func (idx *Index) ToNumber(name string) int32 {
	if denseId, exist := idx.Numbers[name]; exist {
		return denseId
	}
	return NotId
}

// ToName converts a dense index to a sparse ID.
func (idx *Index) ToName(index int32) string {
	return idx.Names[index]
}

// GetNames returns all names in current index.
func (idx *Index) GetNames() []string {
	return idx.Names
}

// CompareId compares two IDs in canonical order: numerically if both are integers,
// lexicographically otherwise. Integers sort before other IDs.
func CompareId(a, b string) int {
	x, errA := strconv.ParseInt(a, 10, 64)
	y, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		if x < y {
			return -1
		} else if x > y {
			return 1
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// SortIds sorts IDs in canonical order.
func SortIds(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return CompareId(ids[i], ids[j]) < 0
	})
}
