package trajectory

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/roach88/trajectory/internal/source"
)

// OccurrenceThreshold is the minimum number of records an object id needs to
// survive normalization.
const OccurrenceThreshold = 2

// Normalized is the outcome of Normalize.
type Normalized struct {
	// Table is sorted by TimeIndex and holds only surviving ids.
	Table Table

	// ObjectIDs lists the surviving ids in ascending order.
	ObjectIDs []ObjectID

	// Dropped lists the ids removed by the threshold in ascending order.
	Dropped []ObjectID
}

// FromMatrix converts a raw matrix into records.
//
// Every value must be finite and object ids must be integral; anything else
// means the source is not the numeric matrix it claims to be.
func FromMatrix(m source.Matrix) (Table, error) {
	t := make(Table, len(m))
	for i, row := range m {
		for c, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: row %d: %s is not finite", source.ErrMalformed, i+1, source.ColumnNames[c])
			}
		}
		id := row[source.ColObjectID]
		if id != math.Trunc(id) || id < math.MinInt64 || id >= math.MaxInt64 {
			return nil, fmt.Errorf("%w: row %d: object_id %v is not an integer", source.ErrMalformed, i+1, id)
		}
		t[i] = Record{
			TimeIndex: row[source.ColTimeIndex],
			ObjectID:  ObjectID(id),
			Latitude:  row[source.ColLatitude],
			Longitude: row[source.ColLongitude],
		}
	}
	return t, nil
}

// ToMatrix converts records back into raw rows.
func (t Table) ToMatrix() source.Matrix {
	m := make(source.Matrix, len(t))
	for i, r := range t {
		m[i] = source.Row{r.TimeIndex, float64(r.ObjectID), r.Latitude, r.Longitude}
	}
	return m
}

// Normalize stable-sorts t by TimeIndex and removes every object id that
// occurs fewer than threshold times. t is not modified.
//
// Normalize is idempotent: normalizing its own output yields the same table.
func Normalize(t Table, threshold int) Normalized {
	sorted := t.Clone()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimeIndex < sorted[j].TimeIndex
	})

	counts := make(map[ObjectID]int)
	for _, r := range sorted {
		counts[r.ObjectID]++
	}

	out := Normalized{
		Table:     make(Table, 0, len(sorted)),
		ObjectIDs: []ObjectID{},
		Dropped:   []ObjectID{},
	}
	for id, n := range counts {
		if n >= threshold {
			out.ObjectIDs = append(out.ObjectIDs, id)
		} else {
			out.Dropped = append(out.Dropped, id)
		}
	}
	slices.Sort(out.ObjectIDs)
	slices.Sort(out.Dropped)

	for _, r := range sorted {
		if counts[r.ObjectID] >= threshold {
			out.Table = append(out.Table, r)
		}
	}
	return out
}
