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

package main

import (
	"fmt"
	"io"

	"github.com/gorse-io/gorse-knn/base"
	"github.com/gorse-io/gorse-knn/base/log"
	"github.com/gorse-io/gorse-knn/cmd/version"
	"github.com/gorse-io/gorse-knn/config"
	"github.com/gorse-io/gorse-knn/dataset"
	"github.com/gorse-io/gorse-knn/logics"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCommand = &cobra.Command{
	Use:   "gorse-knn",
	Short: "Item-to-item recommendation by k nearest neighbors",
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Check the version of gorse-knn",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(version.BuildInfo())
	},
}

var recommendCommand = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend items similar to an item",
	Long: "Recommend items similar to an item. A random item chosen by the seed is used " +
		"if no item is given.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		log.SetLogger(cmd.Flags(), debug)
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		itemId, _ := cmd.Flags().GetString("item")
		return recommend(cmd.OutOrStdout(), cfg, itemId)
	},
}

func init() {
	rootCommand.AddCommand(versionCommand)
	rootCommand.AddCommand(recommendCommand)

	flags := recommendCommand.Flags()
	log.AddFlags(flags)
	flags.StringP("config", "c", "", "configuration file path")
	flags.String("items", "", "item csv file (item_id,title[,labels])")
	flags.String("ratings", "", "rating csv file (user_id,item_id,rating[,timestamp])")
	flags.StringP("item", "i", "", "query item id")
	flags.IntP("num-neighbors", "n", 0, "number of similar items")
	flags.Int("popularity-threshold", 0, "minimal number of ratings of indexed items")
	flags.Int64("seed", 0, "seed of the random query item")
	flags.Bool("no-progress", false, "hide progress bars")
}

// loadConfig loads the configuration file and overrides it by flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, errors.Annotate(err, "load config")
	}
	if flags.Changed("items") {
		cfg.Data.ItemsFile, _ = flags.GetString("items")
	}
	if flags.Changed("ratings") {
		cfg.Data.RatingsFile, _ = flags.GetString("ratings")
	}
	if flags.Changed("num-neighbors") {
		cfg.Neighbors.NumNeighbors, _ = flags.GetInt("num-neighbors")
	}
	if flags.Changed("popularity-threshold") {
		cfg.Neighbors.PopularityThreshold, _ = flags.GetInt("popularity-threshold")
	}
	if flags.Changed("seed") {
		cfg.Neighbors.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("no-progress") {
		noProgress, _ := flags.GetBool("no-progress")
		cfg.Data.Progress = !noProgress
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Data.ItemsFile == "" || cfg.Data.RatingsFile == "" {
		return nil, errors.NotValidf("missing items or ratings file")
	}
	return cfg, nil
}

func recommend(w io.Writer, cfg *config.Config, itemId string) error {
	items, err := dataset.LoadItemsFromCSV(cfg.Data.ItemsFile, cfg.CSVOptions())
	if err != nil {
		return errors.Trace(err)
	}
	ratings, err := dataset.LoadRatingsFromCSV(cfg.Data.RatingsFile, cfg.CSVOptions())
	if err != nil {
		return errors.Trace(err)
	}
	log.Logger().Info("load dataset",
		zap.Int("n_items", len(items)),
		zap.Int("n_ratings", len(ratings)))

	recommender, _, err := logics.Fit(items, ratings, cfg.Neighbors.PopularityThreshold)
	if err != nil {
		return errors.Trace(err)
	}
	var recommendations []logics.Recommendation
	if itemId == "" {
		rng := base.NewRandomGenerator(cfg.Neighbors.Seed)
		itemId, recommendations, err = recommender.RecommendRandom(rng, cfg.Neighbors.NumNeighbors)
	} else {
		recommendations, err = recommender.Recommend(itemId, cfg.Neighbors.NumNeighbors)
	}
	if err != nil {
		return errors.Trace(err)
	}

	if _, err = fmt.Fprintf(w, "Recommendations for %s (%s):\n", recommender.Title(itemId), itemId); err != nil {
		return errors.Trace(err)
	}
	table := tablewriter.NewWriter(w)
	table.Header("#", "Item", "Title", "Distance")
	for _, recommendation := range recommendations {
		if err = table.Append([]string{
			fmt.Sprintf("%d", recommendation.Rank),
			recommendation.ItemId,
			recommendation.Title,
			fmt.Sprintf("%.6f", recommendation.Distance),
		}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to run gorse-knn", zap.Error(err))
	}
}
