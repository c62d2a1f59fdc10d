package services

import (
	"fmt"
	"math"
)

// truckMinutesPerKm models heavy vehicles at an average of 60 km/h.
const truckMinutesPerKm = 1.0

// TruckDrivingHours converts a road distance to truck driving time in hours,
// excluding breaks.
func TruckDrivingHours(distanceMeters int) (float64, error) {
	if distanceMeters < 0 {
		return 0, fmt.Errorf("truck driving hours: distance must be non-negative, got %d", distanceMeters)
	}

	distanceKm := float64(distanceMeters) / 1000
	return distanceKm * truckMinutesPerKm / 60, nil
}

// FormatHoursMinutes renders fractional hours as "<h> h <m> min".
func FormatHoursMinutes(hours float64) string {
	if hours < 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		hours = 0
	}

	totalMinutes := int(math.Round(hours * 60))
	return fmt.Sprintf("%d h %d min", totalMinutes/60, totalMinutes%60)
}
