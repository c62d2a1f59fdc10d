package services

import (
	"errors"
	"fmt"
	"math"
	"route-safety-service/internal/domain"
	"strconv"
	"strings"
)

// Tachograph limits, in hours.
const (
	MaxContinuousDriveHours = 4.5
	MaxDailyDriveHours      = 9.0

	// MaxDrivingHours bounds the simulation; realistic trips are far below it.
	MaxDrivingHours = 1000.0

	simulationStepHours = 0.1
	limitEpsilonHours   = 0.01
)

const noBreakDescription = "no break required"

var ErrInvalidDrivingHours = errors.New("driving hours must be a finite number between 0 and 1000")

// ComputeBreakSchedule simulates tachograph driving limits over the given
// driving time and returns the mandatory short breaks and daily rests.
//
// Driving is advanced in fixed 0.1h steps. After each step a short break is
// taken once continuous driving reaches 4.5h, unless daily driving reached 9h
// on the same step: then only the daily rest is recorded. A daily rest resets
// both counters; a short break resets only the continuous one.
//
// Negative, NaN, infinite, or implausibly large input is rejected with
// ErrInvalidDrivingHours.
func ComputeBreakSchedule(totalDrivingHours float64) (domain.BreakSchedule, error) {
	if math.IsNaN(totalDrivingHours) || math.IsInf(totalDrivingHours, 0) ||
		totalDrivingHours < 0 || totalDrivingHours > MaxDrivingHours {
		return domain.BreakSchedule{}, fmt.Errorf("compute break schedule: %v: %w", totalDrivingHours, ErrInvalidDrivingHours)
	}

	remainingDrive := totalDrivingHours
	continuousDrive := 0.0
	dailyDrive := 0.0

	shortBreaks := 0
	dailyRests := 0

	for remainingDrive > 0 {
		driveTime := math.Min(simulationStepHours, remainingDrive)
		remainingDrive -= driveTime
		continuousDrive += driveTime
		dailyDrive += driveTime

		dailyLimitReached := dailyDrive >= MaxDailyDriveHours-limitEpsilonHours

		if continuousDrive >= MaxContinuousDriveHours-limitEpsilonHours && !dailyLimitReached {
			shortBreaks++
			continuousDrive = 0
		}

		if dailyLimitReached {
			dailyRests++
			dailyDrive = 0
			continuousDrive = 0
		}
	}

	return domain.BreakSchedule{
		ShortBreakCount:   shortBreaks,
		DailyRestCount:    dailyRests,
		TotalBreakMinutes: shortBreaks*domain.ShortBreakMinutes + dailyRests*domain.DailyRestMinutes,
		Description:       describeBreaks(shortBreaks, dailyRests),
	}, nil
}

// describeBreaks renders the user-facing summary. The format is shown to
// drivers verbatim and must stay stable.
func describeBreaks(shortBreaks, dailyRests int) string {
	parts := make([]string, 0, 2)
	if shortBreaks > 0 {
		parts = append(parts, strconv.Itoa(shortBreaks)+" x 45-minute break")
	}
	if dailyRests > 0 {
		parts = append(parts, strconv.Itoa(dailyRests)+" x 11-hour rest")
	}

	if len(parts) == 0 {
		return noBreakDescription
	}
	return strings.Join(parts, " + ") + " (tachograph rules)"
}
