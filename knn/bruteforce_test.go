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
	"math"
	"strconv"
	"sync"
	"testing"

	"github.com/gorse-io/gorse-knn/base"
	"github.com/gorse-io/gorse-knn/dataset"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// newMatrix creates a feature matrix from dense rows. Users are named by column.
func newMatrix(rows map[string][]float64) *dataset.FeatureMatrix {
	var ratings []dataset.RatingObservation
	for itemId, row := range rows {
		for user, rating := range row {
			if rating != 0 {
				ratings = append(ratings, dataset.RatingObservation{
					UserId: strconv.Itoa(user), ItemId: itemId, Rating: rating})
			}
		}
	}
	m := dataset.BuildFeatureMatrix(ratings, nil)
	return m
}

type BruteforceTestSuite struct {
	suite.Suite
	index *Index
}

func (suite *BruteforceTestSuite) SetupTest() {
	var err error
	suite.index, err = Build(newMatrix(map[string][]float64{
		"A": {5, 0, 5, 0},
		"B": {5, 0, 4, 0},
		"C": {0, 5, 0, 5},
		"D": {1, 0, 1, 0},
	}))
	suite.NoError(err)
}

func (suite *BruteforceTestSuite) TestQuery() {
	neighbors, err := suite.index.Query("A", 2)
	suite.NoError(err)
	suite.Equal([]string{"D", "B"}, lo.Map(neighbors, func(n Neighbor, _ int) string { return n.ItemId }))
	// A·D/(‖A‖‖D‖) = 10/sqrt(50*2) = 1
	suite.Equal(0.0, neighbors[0].Distance)
	// A·B/(‖A‖‖B‖) = 45/sqrt(50*41)
	suite.InDelta(1-45/math.Sqrt(2050), neighbors[1].Distance, 1e-12)

	neighbors, err = suite.index.Query("A", 3)
	suite.NoError(err)
	suite.Equal(Neighbor{ItemId: "C", Distance: 1}, neighbors[2])
}

func (suite *BruteforceTestSuite) TestQueryTies() {
	// B and D are both at distance 1 from C, A is too.
	neighbors, err := suite.index.Query("C", 3)
	suite.NoError(err)
	suite.Equal([]Neighbor{{"A", 1}, {"B", 1}, {"D", 1}}, neighbors)
	neighbors, err = suite.index.Query("C", 1)
	suite.NoError(err)
	suite.Equal([]Neighbor{{"A", 1}}, neighbors)
}

func (suite *BruteforceTestSuite) TestQueryExcludesSelf() {
	for _, itemId := range suite.index.ItemIds() {
		for k := 1; k < suite.index.Len(); k++ {
			neighbors, err := suite.index.Query(itemId, k)
			suite.NoError(err)
			suite.Len(neighbors, k)
			for i, neighbor := range neighbors {
				suite.NotEqual(itemId, neighbor.ItemId)
				if i > 0 {
					suite.LessOrEqual(neighbors[i-1].Distance, neighbor.Distance)
				}
			}
		}
	}
}

func (suite *BruteforceTestSuite) TestQueryInvalid() {
	_, err := suite.index.Query("E", 1)
	suite.True(errors.Is(err, errors.NotFound))
	_, err = suite.index.Query("A", 0)
	suite.True(errors.Is(err, errors.BadRequest))
	_, err = suite.index.Query("A", -1)
	suite.True(errors.Is(err, errors.BadRequest))
	_, err = suite.index.Query("A", suite.index.Len())
	suite.True(errors.Is(err, errors.BadRequest))
}

func (suite *BruteforceTestSuite) TestDeterminism() {
	other, err := Build(newMatrix(map[string][]float64{
		"A": {5, 0, 5, 0},
		"B": {5, 0, 4, 0},
		"C": {0, 5, 0, 5},
		"D": {1, 0, 1, 0},
	}))
	suite.NoError(err)
	for _, itemId := range suite.index.ItemIds() {
		expected, err := suite.index.Query(itemId, 3)
		suite.NoError(err)
		actual, err := other.Query(itemId, 3)
		suite.NoError(err)
		suite.Equal(expected, actual)
	}
}

func (suite *BruteforceTestSuite) TestConcurrentQuery() {
	expected, err := suite.index.Query("B", 3)
	suite.NoError(err)
	var wg sync.WaitGroup
	results := make([][]Neighbor, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = suite.index.Query("B", 3)
		}(i)
	}
	wg.Wait()
	for _, result := range results {
		suite.Equal(expected, result)
	}
}

func (suite *BruteforceTestSuite) TestContains() {
	suite.True(suite.index.Contains("A"))
	suite.False(suite.index.Contains("E"))
	suite.Equal([]string{"A", "B", "C", "D"}, suite.index.ItemIds())
}

func TestBruteforce(t *testing.T) {
	suite.Run(t, new(BruteforceTestSuite))
}

func TestBuildEmpty(t *testing.T) {
	_, err := Build(nil)
	assert.True(t, errors.Is(err, errors.NotValid))
	_, err = Build(dataset.BuildFeatureMatrix(nil, nil))
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestSingleRow(t *testing.T) {
	index, err := Build(newMatrix(map[string][]float64{"A": {1}}))
	assert.NoError(t, err)
	_, err = index.Query("A", 1)
	assert.True(t, errors.Is(err, errors.BadRequest))
}

func TestZeroRow(t *testing.T) {
	ratings := []dataset.RatingObservation{
		{UserId: "1", ItemId: "Z", Rating: 0},
		{UserId: "1", ItemId: "A", Rating: 3},
		{UserId: "2", ItemId: "B", Rating: 3},
	}
	index, err := Build(dataset.BuildFeatureMatrix(ratings, nil))
	assert.NoError(t, err)
	neighbors, err := index.Query("Z", 2)
	assert.NoError(t, err)
	assert.Equal(t, []Neighbor{{"A", 1}, {"B", 1}}, neighbors)
	for _, neighbor := range neighbors {
		assert.False(t, math.IsNaN(neighbor.Distance))
	}
}

func TestWithDistance(t *testing.T) {
	euclidean := func(a, b *base.SparseVector) float64 {
		var sum float64
		dense := make(map[int32]float64)
		a.ForEach(func(i int32, v float64) { dense[i] = v })
		b.ForEach(func(i int32, v float64) { dense[i] -= v })
		for _, v := range dense {
			sum += v * v
		}
		return math.Sqrt(sum)
	}
	index, err := Build(newMatrix(map[string][]float64{
		"A": {5, 0, 5, 0},
		"B": {5, 0, 4, 0},
		"D": {1, 0, 1, 0},
	}), WithDistance(euclidean))
	assert.NoError(t, err)
	neighbors, err := index.Query("A", 2)
	assert.NoError(t, err)
	assert.Equal(t, []Neighbor{{"B", 1}, {"D", math.Sqrt(32)}}, neighbors)
}
