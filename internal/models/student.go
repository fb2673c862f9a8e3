package models

// Student is a Sunday-school pupil enrolled in at most one class.
type Student struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	BirthDate string `json:"birthDate,omitempty" validate:"omitempty,isodate"`
	ClassID   string `json:"classId,omitempty"`
	Active    bool   `json:"active"`
}

// Teacher leads or assists classes and registers attendance.
type Teacher struct {
	ID     string `json:"id" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
	Phone  string `json:"phone,omitempty"`
	Active bool   `json:"active"`
}

// ClassRoom is an EBD class, usually grouped by age.
type ClassRoom struct {
	ID            string `json:"id" validate:"required"`
	Name          string `json:"name" validate:"required"`
	AgeRange      string `json:"ageRange,omitempty"`
	MainTeacherID string `json:"mainTeacherId,omitempty"`
}
