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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestUnmarshal(t *testing.T) {
	data, err := os.ReadFile("config.toml.template")
	assert.NoError(t, err)
	text := string(data)
	text = strings.Replace(text, "popularity_threshold = 50", "popularity_threshold = 20", -1)
	text = strings.Replace(text, "separator = \",\"", "separator = \"\\t\"", -1)
	path := filepath.Join(t.TempDir(), "config.toml")
	assert.NoError(t, os.WriteFile(path, []byte(text), 0644))

	config, err := LoadConfig(path)
	assert.NoError(t, err)
	// [data]
	assert.Equal(t, "movie.csv", config.Data.ItemsFile)
	assert.Equal(t, "rating.csv", config.Data.RatingsFile)
	assert.Equal(t, "\t", config.Data.Separator)
	assert.True(t, config.Data.HasHeader)
	assert.Equal(t, "|", config.Data.LabelSeparator)
	assert.True(t, config.Data.Progress)
	// [neighbors]
	assert.Equal(t, 20, config.Neighbors.PopularityThreshold)
	assert.Equal(t, 5, config.Neighbors.NumNeighbors)
	assert.Equal(t, int64(5), config.Neighbors.Seed)

	opts := config.CSVOptions()
	assert.Equal(t, "\t", opts.Separator)
	assert.Equal(t, "|", opts.LabelSep)
}

func TestSetDefault(t *testing.T) {
	config, err := LoadConfig("")
	assert.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), config)
}

func TestBindEnv(t *testing.T) {
	t.Setenv("GORSE_KNN_ITEMS_FILE", "<items_file>")
	t.Setenv("GORSE_KNN_RATINGS_FILE", "<ratings_file>")
	t.Setenv("GORSE_KNN_POPULARITY_THRESHOLD", "123")
	t.Setenv("GORSE_KNN_NUM_NEIGHBORS", "456")
	t.Setenv("GORSE_KNN_SEED", "789")

	config, err := LoadConfig("config.toml.template")
	assert.NoError(t, err)
	assert.Equal(t, "<items_file>", config.Data.ItemsFile)
	assert.Equal(t, "<ratings_file>", config.Data.RatingsFile)
	assert.Equal(t, 123, config.Neighbors.PopularityThreshold)
	assert.Equal(t, 456, config.Neighbors.NumNeighbors)
	assert.Equal(t, int64(789), config.Neighbors.Seed)

	// check default values
	assert.Equal(t, ",", config.Data.Separator)
}

func TestValidate(t *testing.T) {
	config := GetDefaultConfig()
	assert.NoError(t, config.Validate())

	config.Neighbors.PopularityThreshold = 0
	assert.NoError(t, config.Validate())
	config.Neighbors.PopularityThreshold = -1
	assert.True(t, errors.Is(config.Validate(), errors.NotValid))

	config = GetDefaultConfig()
	config.Neighbors.NumNeighbors = 0
	assert.True(t, errors.Is(config.Validate(), errors.NotValid))

	config = GetDefaultConfig()
	config.Data.Separator = ""
	assert.True(t, errors.Is(config.Validate(), errors.NotValid))

	t.Setenv("GORSE_KNN_NUM_NEIGHBORS", "-3")
	_, err := LoadConfig("")
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
