package domain

import "time"

// TripEstimate is the assembled duration estimate for a single truck trip.
// DrivingHours excludes breaks; TotalHours includes them.
type TripEstimate struct {
	Origin           Location
	Destination      Location
	Stop             *Location
	DistanceMeters   int
	DrivingHours     float64
	Breaks           BreakSchedule
	TotalHours       float64
	DepartAt         time.Time
	ArriveAt         time.Time
	ArrivesAfterDark bool
}

// Status of a single row in a batch estimate.
type BatchStatus string

const (
	BatchStatusCompleted BatchStatus = "completed"
	BatchStatusError     BatchStatus = "error"
)

// BatchItem is the outcome of estimating one CSV row.
type BatchItem struct {
	ID          string
	RowIndex    int
	Origin      string
	Destination string
	Status      BatchStatus
	Result      *TripEstimate
	ErrorMsg    string
}
