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
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/gorse-io/gorse-knn/base"
	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
)

// CSVOptions describes the layout of item and rating files.
//
//	items:   item_id, title[, labels]
//	ratings: user_id, item_id, rating[, timestamp]
type CSVOptions struct {
	Separator string
	HasHeader bool
	LabelSep  string
	// Progress shows a progress bar on stderr while reading files.
	Progress bool
}

// DefaultCSVOptions follows the MovieLens csv layout.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Separator: ",", HasHeader: true, LabelSep: "|"}
}

func (opts CSVOptions) separator() (rune, error) {
	sep, size := utf8.DecodeRuneInString(opts.Separator)
	if size == 0 || size != len(opts.Separator) || sep == '"' {
		return 0, errors.NotValidf("csv separator %q", opts.Separator)
	}
	return sep, nil
}

// LoadItemsFromCSV loads the item catalog from a csv file.
func LoadItemsFromCSV(path string, opts CSVOptions) ([]ItemRecord, error) {
	var items []ItemRecord
	err := readFile(path, "Loading items", opts.Progress, func(r io.Reader) (err error) {
		items, err = ReadItems(r, opts)
		return
	})
	return items, err
}

// LoadRatingsFromCSV loads ratings from a csv file.
func LoadRatingsFromCSV(path string, opts CSVOptions) ([]RatingObservation, error) {
	var ratings []RatingObservation
	err := readFile(path, "Loading ratings", opts.Progress, func(r io.Reader) (err error) {
		ratings, err = ReadRatings(r, opts)
		return
	})
	return ratings, err
}

func readFile(path, description string, progress bool, read func(io.Reader) error) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	if !progress {
		return errors.Annotatef(read(file), "read %s", path)
	}
	stat, err := file.Stat()
	if err != nil {
		return errors.Trace(err)
	}
	bar := progressbar.NewOptions64(stat.Size(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish())
	pbReader := progressbar.NewReader(file, bar)
	defer pbReader.Close()
	return errors.Annotatef(read(&pbReader), "read %s", path)
}

// ReadItems parses items from a csv stream. Empty lines are skipped.
func ReadItems(r io.Reader, opts CSVOptions) ([]ItemRecord, error) {
	sep, err := opts.separator()
	if err != nil {
		return nil, err
	}
	var items []ItemRecord
	err = base.ReadLines(newScanner(r), sep, func(line int, fields []string) error {
		if (line == 0 && opts.HasHeader) || isEmpty(fields) {
			return nil
		}
		if len(fields) < 2 {
			return errors.Errorf("line %d: expect at least 2 fields but got %d", line+1, len(fields))
		}
		item := ItemRecord{
			ItemId: strings.TrimSpace(fields[0]),
			Title:  fields[1],
		}
		if item.ItemId == "" {
			return errors.Errorf("line %d: empty item id", line+1)
		}
		if len(fields) > 2 && fields[2] != "" && opts.LabelSep != "" {
			item.Labels = strings.Split(fields[2], opts.LabelSep)
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

// ReadRatings parses ratings from a csv stream. Empty lines are skipped. The timestamp
// column is optional and accepts any format known to dateparse, including unix seconds.
func ReadRatings(r io.Reader, opts CSVOptions) ([]RatingObservation, error) {
	sep, err := opts.separator()
	if err != nil {
		return nil, err
	}
	var ratings []RatingObservation
	err = base.ReadLines(newScanner(r), sep, func(line int, fields []string) error {
		if (line == 0 && opts.HasHeader) || isEmpty(fields) {
			return nil
		}
		if len(fields) < 3 {
			return errors.Errorf("line %d: expect at least 3 fields but got %d", line+1, len(fields))
		}
		rating := RatingObservation{
			UserId: strings.TrimSpace(fields[0]),
			ItemId: strings.TrimSpace(fields[1]),
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			return errors.Annotatef(err, "line %d: parse rating", line+1)
		}
		rating.Rating = value
		if len(fields) > 3 && strings.TrimSpace(fields[3]) != "" {
			rating.Timestamp, err = dateparse.ParseAny(strings.TrimSpace(fields[3]))
			if err != nil {
				return errors.Annotatef(err, "line %d: parse timestamp", line+1)
			}
		}
		ratings = append(ratings, rating)
		return nil
	})
	return ratings, err
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return sc
}

func isEmpty(fields []string) bool {
	return len(fields) == 1 && strings.TrimSpace(fields[0]) == ""
}
