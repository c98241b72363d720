package spacedrep

import (
	"math"
	"time"
)

const (
	// InitialEase is the ease factor of a newly scheduled item.
	InitialEase = 2.5

	// MinEase is the floor the ease factor never drops below.
	MinEase = 1.3

	easeStepUp   = 0.1
	easeStepDown = 0.2
)

// Record holds the review schedule of a single quiz item.
type Record struct {
	ID           string    `json:"id"`
	IntervalDays int       `json:"interval_days"`
	EaseFactor   float64   `json:"ease_factor"`
	NextReview   time.Time `json:"next_review"`
	Repetitions  int       `json:"repetitions"`
}

// Init returns the record for an item that has never been reviewed:
// due tomorrow with the default ease.
func Init(id string, today time.Time) Record {
	return Record{
		ID:           id,
		IntervalDays: 1,
		EaseFactor:   InitialEase,
		NextReview:   Day(today).AddDate(0, 0, 1),
		Repetitions:  0,
	}
}

// Update applies one review outcome and returns the new record. rec is not
// modified.
func Update(rec Record, correct bool, today time.Time) Record {
	if correct {
		rec.Repetitions++
		rec.EaseFactor += easeStepUp
		rec.IntervalDays = int(math.Floor(float64(rec.IntervalDays) * rec.EaseFactor))
	} else {
		rec.IntervalDays = 1
		rec.Repetitions = 0
		rec.EaseFactor = math.Max(MinEase, rec.EaseFactor-easeStepDown)
	}
	if rec.IntervalDays < 1 {
		rec.IntervalDays = 1
	}
	rec.NextReview = Day(today).AddDate(0, 0, rec.IntervalDays)
	return rec
}

// IsDue reports whether the record is due on or before the given day.
func (r Record) IsDue(today time.Time) bool {
	return !Day(today).Before(r.NextReview)
}

// DaysUntil returns the number of calendar days until the next review, or
// 0 if already due.
func (r Record) DaysUntil(today time.Time) int {
	if r.IsDue(today) {
		return 0
	}
	d := Day(today)
	n := 0
	for d.Before(r.NextReview) {
		d = d.AddDate(0, 0, 1)
		n++
	}
	return n
}

// Day truncates t to local midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
