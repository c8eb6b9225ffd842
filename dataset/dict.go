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

// FreqDict maps item IDs to dense ids in order of first appearance, and accumulates the
// number and sum of ratings per item.
type FreqDict struct {
	si  map[string]int
	is  []string
	cnt []int
	sum []float64
}

func NewFreqDict() (d *FreqDict) {
	d = &FreqDict{map[string]int{}, []string{}, []int{}, []float64{}}
	return
}

func (d *FreqDict) Count() int {
	return len(d.is)
}

// Add counts a rating of s and returns the dense id of s.
func (d *FreqDict) Add(s string, rating float64) (y int) {
	if y, ok := d.si[s]; ok {
		d.cnt[y]++
		d.sum[y] += rating
		return y
	}

	y = len(d.is)
	d.si[s] = y
	d.is = append(d.is, s)
	d.cnt = append(d.cnt, 1)
	d.sum = append(d.sum, rating)
	return
}

func (d *FreqDict) String(id int) (s string, ok bool) {
	if id >= len(d.is) {
		return "", false
	}
	return d.is[id], true
}

func (d *FreqDict) Freq(id int) int {
	if id >= len(d.cnt) {
		return 0
	}
	return d.cnt[id]
}

// Mean returns the mean rating of a dense id, or 0 if it has no rating.
func (d *FreqDict) Mean(id int) float64 {
	if id >= len(d.cnt) || d.cnt[id] == 0 {
		return 0
	}
	return d.sum[id] / float64(d.cnt[id])
}
