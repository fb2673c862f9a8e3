package validation

import (
	"ebdmanager/internal/models"
)

// Rejection is an entity dropped during ingestion.
type Rejection struct {
	Entity string
	ID     string
	Reason string
}

// Ingest validates a snapshot loaded from a store or a backup file. Invalid
// entities are dropped and reported; one bad row never fails the whole
// snapshot. Duplicate ids in a present list are collapsed before the record
// is checked. Record dates are reduced to YYYY-MM-DD, and a second record
// for the same class and date is rejected.
func (v *Validator) Ingest(raw models.Snapshot) (models.Snapshot, []Rejection) {
	var out models.Snapshot
	var rejected []Rejection

	reject := func(entity, id string, err error) {
		rejected = append(rejected, Rejection{Entity: entity, ID: id, Reason: err.Error()})
	}

	for _, s := range raw.Students {
		if err := v.Student(s); err != nil {
			reject("student", s.ID, err)
			continue
		}
		out.Students = append(out.Students, s)
	}
	for _, t := range raw.Teachers {
		if err := v.Teacher(t); err != nil {
			reject("teacher", t.ID, err)
			continue
		}
		out.Teachers = append(out.Teachers, t)
	}
	for _, c := range raw.Classes {
		if err := v.ClassRoom(c); err != nil {
			reject("class", c.ID, err)
			continue
		}
		out.Classes = append(out.Classes, c)
	}
	seen := make(map[string]struct{}, len(raw.Records))
	for _, r := range raw.Records {
		r.PresentStudentIDs = DedupeIDs(r.PresentStudentIDs)
		rec, err := v.CanonicalRecord(r)
		if err != nil {
			reject("attendance", r.Key(), err)
			continue
		}
		if _, ok := seen[rec.Key()]; ok {
			reject("attendance", r.Key(), ValidationError{Entity: "attendance", ID: rec.Key(), Field: "Date", Message: "class already has a record on this date"})
			continue
		}
		seen[rec.Key()] = struct{}{}
		out.Records = append(out.Records, rec)
	}

	return out, rejected
}

// DedupeIDs drops repeated and empty ids, keeping first occurrences in
// order.
func DedupeIDs(ids []string) []string {
	if len(ids) == 0 {
		return ids
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
