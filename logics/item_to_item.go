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

package logics

import (
	"github.com/gorse-io/gorse-knn/base"
	"github.com/gorse-io/gorse-knn/dataset"
	"github.com/gorse-io/gorse-knn/knn"
	"github.com/juju/errors"
)

// Recommendation is a ranked similar item.
type Recommendation struct {
	Rank     int
	ItemId   string
	Title    string
	Distance float64
}

// ItemToItem recommends items similar to a query item. It holds no state besides the
// titles of the catalog and the index, so it is safe for concurrent use.
type ItemToItem struct {
	titles map[string]string
	index  *knn.Index
}

func NewItemToItem(items []dataset.ItemRecord, index *knn.Index) *ItemToItem {
	titles := make(map[string]string, len(items))
	for _, item := range items {
		titles[item.ItemId] = item.Title
	}
	return &ItemToItem{
		titles: titles,
		index:  index,
	}
}

// Index returns the neighbor index.
func (i *ItemToItem) Index() *knn.Index {
	return i.index
}

// Title returns the title of an item, or the item ID if the catalog has no such item.
func (i *ItemToItem) Title(itemId string) string {
	if title, exist := i.titles[itemId]; exist {
		return title
	}
	return itemId
}

// Recommend returns the k items most similar to an item.
func (i *ItemToItem) Recommend(itemId string, k int) ([]Recommendation, error) {
	neighbors, err := i.index.Query(itemId, k)
	if err != nil {
		return nil, errors.Trace(err)
	}
	recommendations := make([]Recommendation, len(neighbors))
	for rank, neighbor := range neighbors {
		recommendations[rank] = Recommendation{
			Rank:     rank + 1,
			ItemId:   neighbor.ItemId,
			Title:    i.Title(neighbor.ItemId),
			Distance: neighbor.Distance,
		}
	}
	return recommendations, nil
}

// RandomItem picks an indexed item uniformly at random.
func (i *ItemToItem) RandomItem(rng base.RandomGenerator) string {
	return i.index.ItemIds()[rng.Choice(i.index.Len())]
}

// RecommendRandom picks a random item and returns it with its recommendations.
func (i *ItemToItem) RecommendRandom(rng base.RandomGenerator, k int) (string, []Recommendation, error) {
	itemId := i.RandomItem(rng)
	recommendations, err := i.Recommend(itemId, k)
	return itemId, recommendations, err
}
