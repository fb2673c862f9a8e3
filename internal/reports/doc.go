// Package reports turns attendance snapshots into class summaries, student
// rankings, chart series and the low-frequency deactivation decision.
//
// Every function here is a pure computation over the collections it is
// given. Nothing is cached between calls and nothing is written; callers
// load the collections, call in, and persist whatever comes back.
//
// Two presence counts exist on purpose. Class reports and the class ranking
// sum the raw length of each record's present list. Dashboard cards and
// trend charts count distinct (date, student) pairs instead, so a student
// listed by two overlapping records is counted once there.
package reports
