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
	"time"

	"github.com/gorse-io/gorse-knn/base/log"
	"github.com/gorse-io/gorse-knn/dataset"
	"github.com/gorse-io/gorse-knn/knn"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// FitReport summarizes the construction of an ItemToItem.
type FitReport struct {
	NumItems   int
	NumRatings int
	Dropped    int
	NumPopular int
	Rows       int
	Columns    int
	NNZ        int
	Duplicates int
}

// Fit aggregates ratings, filters unpopular items, builds the feature matrix and indexes it.
// Every call creates a new index, so recommenders returned by earlier calls stay valid.
func Fit(items []dataset.ItemRecord, ratings []dataset.RatingObservation, threshold int, opts ...knn.Option) (*ItemToItem, *FitReport, error) {
	start := time.Now()
	report := &FitReport{NumItems: len(items), NumRatings: len(ratings)}

	aggregation := dataset.Aggregate(items, ratings)
	report.Dropped = aggregation.Dropped
	log.Logger().Info("aggregate ratings",
		zap.Int("n_items", len(items)),
		zap.Int("n_ratings", len(ratings)),
		zap.Int("n_rated_items", len(aggregation.Statistics)),
		zap.Int("n_dropped", aggregation.Dropped))

	popular, err := dataset.FilterPopular(aggregation.Statistics, threshold)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	report.NumPopular = popular.Cardinality()
	log.Logger().Info("filter popular items",
		zap.Int("threshold", threshold),
		zap.Int("n_popular", popular.Cardinality()))

	matrix := dataset.BuildFeatureMatrix(aggregation.Ratings, popular)
	report.Rows = matrix.NumRows()
	report.Columns = matrix.NumColumns()
	report.NNZ = matrix.NNZ()
	report.Duplicates = matrix.Duplicates()
	log.Logger().Info("build feature matrix",
		zap.Int("n_rows", matrix.NumRows()),
		zap.Int("n_columns", matrix.NumColumns()),
		zap.Int("nnz", matrix.NNZ()),
		zap.Float64("density", matrix.Density()))

	index, err := knn.Build(matrix, opts...)
	if err != nil {
		return nil, nil, errors.Annotatef(err, "no item rated at least %d times", threshold)
	}
	log.Logger().Info("complete fitting item-to-item recommender", zap.Duration("elapsed", time.Since(start)))
	return NewItemToItem(items, index), report, nil
}
