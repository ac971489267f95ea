package trajectory

// ObjectID identifies a tracked object.
type ObjectID int64

// Record is one observation of an object's position.
type Record struct {
	TimeIndex float64  `json:"time_index"`
	ObjectID  ObjectID `json:"object_id"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
}

// Table is an ordered sequence of records.
type Table []Record

// Clone returns a copy that shares no memory with t.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// Subset is the ordered set of records that belong to one object id.
//
// Subsets are produced by Store.Extract. The zero Subset is not "active": it
// was never produced by an extraction and Reduce rejects it.
type Subset struct {
	id      ObjectID
	records Table
	active  bool
}

func newSubset(id ObjectID, records Table) Subset {
	return Subset{id: id, records: records, active: true}
}

// ObjectID returns the id the subset was extracted for.
func (s Subset) ObjectID() ObjectID {
	return s.id
}

// Active reports whether the subset came from a successful extraction.
func (s Subset) Active() bool {
	return s.active
}

// Len returns the number of records.
func (s Subset) Len() int {
	return len(s.records)
}

// Empty reports whether the subset has no records.
func (s Subset) Empty() bool {
	return len(s.records) == 0
}

// At returns the i-th record.
func (s Subset) At(i int) Record {
	return s.records[i]
}

// Records returns a copy of the records in table order.
func (s Subset) Records() Table {
	return s.records.Clone()
}
