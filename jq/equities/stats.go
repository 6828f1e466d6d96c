// Copyright 2023 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package equities

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// LogProfits computes the sequence of log-profits, log(c2/c1), over the
// consecutive bar closes. Bars with a non-positive close (typically paused
// days) are skipped.
func LogProfits(bars []Bar) []float64 {
	var res []float64
	prev := 0.0
	for _, b := range bars {
		c := float64(b.Close)
		if c <= 0 {
			continue
		}
		if prev > 0 {
			res = append(res, math.Log(c/prev))
		}
		prev = c
	}
	return res
}

// Summary holds basic sample statistics of a sequence.
type Summary struct {
	N     int
	Mean  float64
	MAD   float64 // mean absolute deviation around the mean
	Sigma float64 // population standard deviation
}

// SummaryOf computes the summary statistics of xs. An empty sequence yields
// a zero Summary.
func SummaryOf(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	mean := stat.Mean(xs, nil)
	var dev float64
	for _, x := range xs {
		dev += math.Abs(x - mean)
	}
	return Summary{
		N:     len(xs),
		Mean:  mean,
		MAD:   dev / float64(len(xs)),
		Sigma: stat.PopStdDev(xs, nil),
	}
}
