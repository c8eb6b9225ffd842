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
	"math"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/gorse-knn/base/log"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// DefaultPopularityThreshold is the minimal number of ratings of a reliable item.
const DefaultPopularityThreshold = 50

// ItemRecord is an item of the catalog.
type ItemRecord struct {
	ItemId string
	Title  string
	Labels []string
}

// RatingObservation is a rating given by a user to an item. There should be at most one
// observation per (user, item) pair.
type RatingObservation struct {
	UserId    string
	ItemId    string
	Rating    float64
	Timestamp time.Time
}

// Statistics of the ratings of an item.
type Statistics struct {
	Count      int
	MeanRating float64
}

// ItemStatistics maps item IDs to the statistics of their ratings. Items without ratings
// are absent.
type ItemStatistics map[string]Statistics

// Aggregation is the result of joining ratings to the catalog.
type Aggregation struct {
	// Ratings that match an item of the catalog, in input order.
	Ratings []RatingObservation
	// Statistics of matched ratings.
	Statistics ItemStatistics
	// Number of ratings dropped for integrity: unknown or untitled item, empty user,
	// or a rating that is not finite or negative.
	Dropped int
}

// ValidRating checks whether a rating value is finite and non-negative.
func ValidRating(rating float64) bool {
	return !math.IsNaN(rating) && !math.IsInf(rating, 0) && rating >= 0
}

// Aggregate joins ratings to items and computes the number and mean of ratings per item.
// Items without a title are left out of the catalog. Ratings without a matching item,
// without a user or with an invalid value are dropped and counted, never fatal.
func Aggregate(items []ItemRecord, ratings []RatingObservation) *Aggregation {
	catalog := mapset.NewThreadUnsafeSetWithSize[string](len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Title) == "" {
			log.Logger().Debug("drop item without title", zap.String("item_id", item.ItemId))
			continue
		}
		catalog.Add(item.ItemId)
	}
	result := &Aggregation{
		Ratings:    make([]RatingObservation, 0, len(ratings)),
		Statistics: make(ItemStatistics),
	}
	dict := NewFreqDict()
	for _, rating := range ratings {
		if !catalog.Contains(rating.ItemId) {
			result.Dropped++
			log.Logger().Debug("drop rating", zap.String("user_id", rating.UserId),
				zap.Error(errors.NotFoundf("item %v", rating.ItemId)))
			continue
		}
		if rating.UserId == "" {
			result.Dropped++
			log.Logger().Debug("drop rating", zap.String("item_id", rating.ItemId),
				zap.Error(errors.NotFoundf("user of rating")))
			continue
		}
		if !ValidRating(rating.Rating) {
			result.Dropped++
			log.Logger().Debug("drop rating", zap.String("user_id", rating.UserId),
				zap.String("item_id", rating.ItemId),
				zap.Error(errors.Errorf("rating %v out of range", rating.Rating)))
			continue
		}
		dict.Add(rating.ItemId, rating.Rating)
		result.Ratings = append(result.Ratings, rating)
	}
	for i := 0; i < dict.Count(); i++ {
		itemId, _ := dict.String(i)
		result.Statistics[itemId] = Statistics{
			Count:      dict.Freq(i),
			MeanRating: dict.Mean(i),
		}
	}
	return result
}

// FilterPopular returns IDs of items rated at least threshold times. A zero threshold
// keeps every rated item.
func FilterPopular(stats ItemStatistics, threshold int) (mapset.Set[string], error) {
	if threshold < 0 {
		return nil, errors.NotValidf("popularity threshold %d", threshold)
	}
	popular := mapset.NewSet[string]()
	for itemId, stat := range stats {
		if stat.Count >= threshold {
			popular.Add(itemId)
		}
	}
	return popular, nil
}
