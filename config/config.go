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
	"github.com/go-playground/validator/v10"
	"github.com/gorse-io/gorse-knn/dataset"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration for gorse-knn.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Neighbors NeighborsConfig `mapstructure:"neighbors"`
}

// DataConfig locates and describes the csv files of items and ratings.
type DataConfig struct {
	ItemsFile      string `mapstructure:"items_file"`
	RatingsFile    string `mapstructure:"ratings_file"`
	Separator      string `mapstructure:"separator" validate:"required"`
	HasHeader      bool   `mapstructure:"has_header"`
	LabelSeparator string `mapstructure:"label_separator"`
	Progress       bool   `mapstructure:"progress"`
}

type NeighborsConfig struct {
	PopularityThreshold int   `mapstructure:"popularity_threshold" validate:"gte=0"`
	NumNeighbors        int   `mapstructure:"num_neighbors" validate:"gte=1"`
	Seed                int64 `mapstructure:"seed"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Separator:      ",",
			HasHeader:      true,
			LabelSeparator: "|",
			Progress:       true,
		},
		Neighbors: NeighborsConfig{
			PopularityThreshold: dataset.DefaultPopularityThreshold,
			NumNeighbors:        5,
			Seed:                5,
		},
	}
}

func setDefault(v *viper.Viper) {
	defaultConfig := GetDefaultConfig()
	// [data]
	v.SetDefault("data.separator", defaultConfig.Data.Separator)
	v.SetDefault("data.has_header", defaultConfig.Data.HasHeader)
	v.SetDefault("data.label_separator", defaultConfig.Data.LabelSeparator)
	v.SetDefault("data.progress", defaultConfig.Data.Progress)
	// [neighbors]
	v.SetDefault("neighbors.popularity_threshold", defaultConfig.Neighbors.PopularityThreshold)
	v.SetDefault("neighbors.num_neighbors", defaultConfig.Neighbors.NumNeighbors)
	v.SetDefault("neighbors.seed", defaultConfig.Neighbors.Seed)
}

type configBinding struct {
	key string
	env string
}

func bindEnv(v *viper.Viper) error {
	bindings := []configBinding{
		{"data.items_file", "GORSE_KNN_ITEMS_FILE"},
		{"data.ratings_file", "GORSE_KNN_RATINGS_FILE"},
		{"data.separator", "GORSE_KNN_SEPARATOR"},
		{"neighbors.popularity_threshold", "GORSE_KNN_POPULARITY_THRESHOLD"},
		{"neighbors.num_neighbors", "GORSE_KNN_NUM_NEIGHBORS"},
		{"neighbors.seed", "GORSE_KNN_SEED"},
	}
	for _, binding := range bindings {
		if err := v.BindEnv(binding.key, binding.env); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// LoadConfig loads configuration from a toml file, environment variables and defaults,
// in decreasing priority. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefault(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate checks value ranges of the configuration.
func (config *Config) Validate() error {
	if err := validator.New().Struct(config); err != nil {
		return errors.NewNotValid(err, "invalid config")
	}
	return nil
}

// CSVOptions returns the csv layout of data files.
func (config *Config) CSVOptions() dataset.CSVOptions {
	return dataset.CSVOptions{
		Separator: config.Data.Separator,
		HasHeader: config.Data.HasHeader,
		LabelSep:  config.Data.LabelSeparator,
		Progress:  config.Data.Progress,
	}
}
