package handlers

import (
	"context"
	"errors"
	"net/http"
	"route-safety-service/internal/api/dto"
	"route-safety-service/internal/domain"
	"route-safety-service/internal/ports"
	"route-safety-service/internal/services"
	"time"

	"github.com/rs/zerolog/log"
)

type EstimateHandler struct {
	Catalog  ports.LocationCatalog
	Provider ports.DistanceProvider
}

// Estimate resolves a single trip and returns its duration including mandatory breaks.
func (h *EstimateHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.EstimateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	svcReq := services.EstimateTripRequest{
		OriginCity:        req.Origin.City,
		OriginCounty:      req.Origin.County,
		OriginCoords:      toCoordinates(req.Origin.Coords),
		DestinationCity:   req.Destination.City,
		DestinationCounty: req.Destination.County,
		DestinationCoords: toCoordinates(req.Destination.Coords),
	}
	if req.Stop != nil {
		svcReq.StopName = req.Stop.Name
		svcReq.StopCoords = toCoordinates(req.Stop.Coords)
	}
	if req.DepartAt != nil {
		svcReq.DepartAt = *req.DepartAt
	}

	est, err := services.EstimateTrip(r.Context(), svcReq, h.Catalog, h.Provider)
	if err != nil {
		writeServiceError(w, r, "estimate trip", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toEstimateResponse(est))
}

// writeServiceError maps service sentinels to client errors and hides everything else.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, services.ErrLocationNotFound),
		errors.Is(err, services.ErrInvalidDrivingHours),
		errors.Is(err, services.ErrEmptyBatch):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn().Err(err).Str("op", op).Msg("upstream timeout")
		writeError(w, r, http.StatusGatewayTimeout, "upstream timeout")
	default:
		log.Error().Err(err).Str("op", op).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func toCoordinates(c *dto.CoordsRequest) *domain.Coordinates {
	if c == nil || c.Lat == nil || c.Lng == nil {
		return nil
	}
	return &domain.Coordinates{Lat: *c.Lat, Lon: *c.Lng}
}

func toLocationResponse(l domain.Location) dto.LocationResponse {
	res := dto.LocationResponse{City: l.City, County: l.County}
	if l.Coords != nil {
		res.Lat = l.Coords.Lat
		res.Lng = l.Coords.Lon
	}
	return res
}

func toEstimateResponse(e *domain.TripEstimate) dto.EstimateResponse {
	res := dto.EstimateResponse{
		Origin:            toLocationResponse(e.Origin),
		Destination:       toLocationResponse(e.Destination),
		DistanceMeters:    e.DistanceMeters,
		DrivingHours:      e.DrivingHours,
		Breaks:            toBreakScheduleResponse(e.Breaks),
		TotalHours:        e.TotalHours,
		EstimatedDuration: services.FormatHoursMinutes(e.TotalHours),
		DepartAt:          e.DepartAt.UTC().Truncate(time.Second),
		ArriveAt:          e.ArriveAt.UTC().Truncate(time.Second),
		ArrivesAfterDark:  e.ArrivesAfterDark,
	}
	if e.Stop != nil {
		stop := toLocationResponse(*e.Stop)
		res.Stop = &stop
	}
	return res
}
