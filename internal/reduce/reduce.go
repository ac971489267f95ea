// Package reduce provides ready-made reductions over a trajectory subset.
//
// Each reduction has the shape func(trajectory.Subset) (R, error) so it can be
// passed straight to trajectory.Reduce or consumer.Apply.
package reduce

import (
	"fmt"
	"math"
	"sort"

	"github.com/roach88/trajectory/internal/trajectory"
)

// EarthRadiusKM is the mean Earth radius used for great-circle distances.
const EarthRadiusKM = 6371.0

// Bounds is the latitude/longitude bounding box of a subset.
type Bounds struct {
	MinLatitude  float64 `json:"min_latitude"`
	MaxLatitude  float64 `json:"max_latitude"`
	MinLongitude float64 `json:"min_longitude"`
	MaxLongitude float64 `json:"max_longitude"`
}

// Span is the first and last time index of a subset.
type Span struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

// Summary collects every built-in reduction for one subset.
type Summary struct {
	ObjectID   trajectory.ObjectID `json:"object_id"`
	Count      int                 `json:"count"`
	DistanceKM float64             `json:"distance_km"`
	Bounds     *Bounds             `json:"bounds,omitempty"`
	Span       *Span               `json:"span,omitempty"`
}

// Count returns the number of records.
func Count(sub trajectory.Subset) (int, error) {
	return sub.Len(), nil
}

// PathLength returns the great-circle length of the trajectory in kilometres,
// summing consecutive legs in time order. Fewer than two records give 0.
func PathLength(sub trajectory.Subset) (float64, error) {
	total := 0.0
	for i := 1; i < sub.Len(); i++ {
		a, b := sub.At(i-1), sub.At(i)
		total += HaversineKM(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
	}
	return total, nil
}

// BoundingBox returns the extent of the trajectory. It needs at least one record.
func BoundingBox(sub trajectory.Subset) (Bounds, error) {
	if sub.Empty() {
		return Bounds{}, trajectory.NewEmptySubsetError("bounds", sub.ObjectID())
	}
	first := sub.At(0)
	b := Bounds{
		MinLatitude: first.Latitude, MaxLatitude: first.Latitude,
		MinLongitude: first.Longitude, MaxLongitude: first.Longitude,
	}
	for i := 1; i < sub.Len(); i++ {
		r := sub.At(i)
		b.MinLatitude = math.Min(b.MinLatitude, r.Latitude)
		b.MaxLatitude = math.Max(b.MaxLatitude, r.Latitude)
		b.MinLongitude = math.Min(b.MinLongitude, r.Longitude)
		b.MaxLongitude = math.Max(b.MaxLongitude, r.Longitude)
	}
	return b, nil
}

// TimeSpan returns the first and last time index. It needs at least one record.
func TimeSpan(sub trajectory.Subset) (Span, error) {
	if sub.Empty() {
		return Span{}, trajectory.NewEmptySubsetError("span", sub.ObjectID())
	}
	start, end := sub.At(0).TimeIndex, sub.At(sub.Len()-1).TimeIndex
	return Span{Start: start, End: end, Duration: end - start}, nil
}

// Summarize runs every reduction. Bounds and Span are nil for an empty subset.
func Summarize(sub trajectory.Subset) (Summary, error) {
	s := Summary{ObjectID: sub.ObjectID(), Count: sub.Len()}

	dist, err := PathLength(sub)
	if err != nil {
		return Summary{}, err
	}
	s.DistanceKM = dist

	if !sub.Empty() {
		b, err := BoundingBox(sub)
		if err != nil {
			return Summary{}, err
		}
		sp, err := TimeSpan(sub)
		if err != nil {
			return Summary{}, err
		}
		s.Bounds, s.Span = &b, &sp
	}
	return s, nil
}

// HaversineKM returns the great-circle distance between two points in degrees.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKM * c
}

// Func is a reduction with its result boxed, for lookup by name.
type Func func(trajectory.Subset) (any, error)

func boxed[R any](fn func(trajectory.Subset) (R, error)) Func {
	return func(sub trajectory.Subset) (any, error) {
		return fn(sub)
	}
}

var registry = map[string]Func{
	"count":    boxed(Count),
	"length":   boxed(Count),
	"distance": boxed(PathLength),
	"bounds":   boxed(BoundingBox),
	"span":     boxed(TimeSpan),
	"summary":  boxed(Summarize),
}

// Lookup returns the reduction registered under name.
func Lookup(name string) (Func, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric %q: must be one of %v", name, Names())
	}
	return fn, nil
}

// Names lists the registered reduction names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
