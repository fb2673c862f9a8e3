package models

import "github.com/shopspring/decimal"

// ClassReportRow is the attendance summary of one class (or of all classes)
// over a reporting window.
type ClassReportRow struct {
	ClassID           string          `json:"classId,omitempty"`
	ClassName         string          `json:"className"`
	EnrolledCount     int             `json:"enrolledCount"`
	Sessions          int             `json:"sessions"`
	PotentialPresence int             `json:"potentialPresence"`
	TotalPresent      int             `json:"totalPresent"`
	TotalAbsent       int             `json:"totalAbsent"`
	TotalVisitors     int             `json:"totalVisitors"`
	TotalPV           int             `json:"totalPV"`
	TotalBibles       int             `json:"totalBibles"`
	TotalMagazines    int             `json:"totalMagazines"`
	TotalOfferings    decimal.Decimal `json:"totalOfferings"`
	Percentage        float64         `json:"percentage"`
}

// StudentRankRow is one line of the student frequency ranking.
type StudentRankRow struct {
	Position     int     `json:"position"`
	StudentID    string  `json:"studentId"`
	StudentName  string  `json:"studentName"`
	ClassID      string  `json:"classId,omitempty"`
	ClassName    string  `json:"className,omitempty"`
	PresentCount int     `json:"presentCount"`
	TotalClasses int     `json:"totalClasses"`
	Percentage   float64 `json:"percentage"`
}

// TrendBucket is one point of a chart series. Visitors is only set for
// per-class (single day) series.
type TrendBucket struct {
	Label    string `json:"label"`
	Value    int    `json:"value"`
	Visitors *int   `json:"visitors,omitempty"`
}

// DashboardKPIs are the headline cards of the dashboard.
type DashboardKPIs struct {
	ActiveStudents int             `json:"activeStudents"`
	Classes        int             `json:"classes"`
	ActiveTeachers int             `json:"activeTeachers"`
	Sessions       int             `json:"sessions"`
	UniquePresence int             `json:"uniquePresence"`
	Visitors       int             `json:"visitors"`
	Offerings      decimal.Decimal `json:"offerings"`
	AttendanceRate float64         `json:"attendanceRate"`
}

// Birthday is an active student with a birthday in the requested month.
type Birthday struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	ClassID   string `json:"classId,omitempty"`
	Day       int    `json:"day"`
	Turning   int    `json:"turning"`
}

// AbsenceStreak is the current run of consecutive absences of a student,
// counted back from the class's most recent session.
type AbsenceStreak struct {
	StudentID           string `json:"studentId"`
	StudentName         string `json:"studentName"`
	ClassID             string `json:"classId,omitempty"`
	ConsecutiveAbsences int    `json:"consecutiveAbsences"`
	Flagged             bool   `json:"flagged"`
}

// DeactivationIntent asks the store to change a student's active flag.
type DeactivationIntent struct {
	StudentID           string `json:"studentId"`
	NewActiveState      bool   `json:"newActiveState"`
	ConsecutiveAbsences int    `json:"consecutiveAbsences"`
}

// ChurchSettings carries the per-church options the report and registry
// code needs. It is always passed explicitly.
type ChurchSettings struct {
	ChurchName            string `json:"churchName"`
	LowFrequencyThreshold int    `json:"lowFrequencyThreshold"`
}

// Snapshot is the full set of collections a report is computed from.
type Snapshot struct {
	Students []Student          `json:"students"`
	Classes  []ClassRoom        `json:"classes"`
	Teachers []Teacher          `json:"teachers"`
	Records  []AttendanceRecord `json:"attendance"`
}
