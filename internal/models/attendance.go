package models

import "github.com/shopspring/decimal"

// AttendanceRecord is one class meeting on one date. There is at most one
// record per (Date, ClassID).
type AttendanceRecord struct {
	Date                  string            `json:"date" validate:"required,isodate"`
	ClassID               string            `json:"classId" validate:"required"`
	PresentStudentIDs     []string          `json:"presentStudentIds" validate:"unique,dive,required"`
	VisitorsCount         int               `json:"visitorsCount" validate:"min=0"`
	BiblesCount           int               `json:"biblesCount" validate:"min=0"`
	MagazinesCount        int               `json:"magazinesCount" validate:"min=0"`
	OfferingValue         decimal.Decimal   `json:"offeringValue"`
	Justifications        map[string]string `json:"justifications,omitempty"`
	RegisteredByTeacherID string            `json:"registeredByTeacherId,omitempty"`
}

// Key returns the composite identity of the record.
func (r AttendanceRecord) Key() string {
	return r.Date + "|" + r.ClassID
}

// IsPresent reports whether the student was marked present.
func (r AttendanceRecord) IsPresent(studentID string) bool {
	for _, id := range r.PresentStudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}
