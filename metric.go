// Copyright 2018 Fabian Wenzelmann
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

package deepmosaic

import (
	"math"
	"sort"
	"strings"
)

// VectorMetric is a function that takes two vectors of the same length and
// returns a metric value ("distance") of the two.
//
// Colors are compared by applying a vector metric on their r, g, b
// components.
type VectorMetric func(p, q []float64) float64

// Manhattan returns the manhattan distance of two vectors, that is
// |p1 - q1| + ... + |pn - qn|.
func Manhattan(p, q []float64) float64 {
	var result float64
	for i, e1 := range p {
		result += math.Abs(e1 - q[i])
	}
	return result
}

// EuclideanDistance returns the euclidean distance of two
// vectors, that is sqrt( (p1 - q1)² + ... + (pn - qn)² ).
func EuclideanDistance(p, q []float64) float64 {
	var sum float64
	for i, e1 := range p {
		diff := e1 - q[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// ChessboardDistance is the max over all absolute distances,
// see https://reference.wolfram.com/language/ref/ChessboardDistance.html
func ChessboardDistance(p, q []float64) float64 {
	res := 0.0
	for i, e1 := range p {
		res = math.Max(res, math.Abs(e1-q[i]))
	}
	return res
}

// ColorDistance returns the euclidean distance of two colors in RGB space.
func ColorDistance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

var (
	vectorMetrics map[string]VectorMetric
)

// RegisterVectorMetric is used to register a named metric. It will only add
// the metric if the name does not exist yet. The result is true if the metric
// was successfully registered and false otherwise.
// All names are transformed to lowercase.
//
// All metrics should be registered by an init method.
func RegisterVectorMetric(name string, metric VectorMetric) bool {
	name = strings.ToLower(name)
	if _, has := vectorMetrics[name]; has {
		return false
	}
	vectorMetrics[name] = metric
	return true
}

// GetVectorMetricNames returns the sorted names of all registered metrics.
func GetVectorMetricNames() []string {
	res := make([]string, 0, len(vectorMetrics))
	for key := range vectorMetrics {
		res = append(res, key)
	}
	sort.Strings(res)
	return res
}

// GetVectorMetric returns a registered metric.
// Returns the metric and true on success and nil and false otherwise.
func GetVectorMetric(name string) (VectorMetric, bool) {
	metric, has := vectorMetrics[strings.ToLower(name)]
	return metric, has
}

func init() {
	vectorMetrics = make(map[string]VectorMetric)
	RegisterVectorMetric("euclid", EuclideanDistance)
	RegisterVectorMetric("manhattan", Manhattan)
	RegisterVectorMetric("chessboard", ChessboardDistance)
}
