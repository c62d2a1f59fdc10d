package handlers

import (
	"errors"
	"net/http"
	"route-safety-service/internal/api/dto"
	"route-safety-service/internal/domain"
	"route-safety-service/internal/services"

	"github.com/rs/zerolog/log"
)

// Breaks computes the tachograph break schedule for a number of driving hours.
func Breaks(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.BreaksRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	schedule, err := services.ComputeBreakSchedule(*req.DrivingHours)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDrivingHours) {
			writeError(w, r, http.StatusBadRequest, services.ErrInvalidDrivingHours.Error())
			return
		}
		log.Error().Err(err).Msg("compute break schedule failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toBreakScheduleResponse(schedule))
}

func toBreakScheduleResponse(b domain.BreakSchedule) dto.BreakScheduleResponse {
	return dto.BreakScheduleResponse{
		ShortBreakCount:   b.ShortBreakCount,
		DailyRestCount:    b.DailyRestCount,
		TotalStops:        b.TotalStops(),
		TotalBreakMinutes: b.TotalBreakMinutes,
		Description:       b.Description,
	}
}
