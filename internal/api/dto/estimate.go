package dto

import "time"

type CoordsRequest struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

// LocationRequest names a place by city (and optional county) or by raw coordinates.
type LocationRequest struct {
	City   string         `json:"city" validate:"required_without=Coords,max=100"`
	County string         `json:"county" validate:"max=100"`
	Coords *CoordsRequest `json:"coords"`
}

type StopRequest struct {
	Name   string         `json:"name" validate:"required_without=Coords,max=100"`
	Coords *CoordsRequest `json:"coords"`
}

type EstimateRequest struct {
	Origin      LocationRequest `json:"origin"`
	Destination LocationRequest `json:"destination"`
	Stop        *StopRequest    `json:"stop"`
	DepartAt    *time.Time      `json:"depart_at"`
}

type LocationResponse struct {
	City   string  `json:"city"`
	County string  `json:"county,omitempty"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

type EstimateResponse struct {
	Origin            LocationResponse      `json:"origin"`
	Destination       LocationResponse      `json:"destination"`
	Stop              *LocationResponse     `json:"stop,omitempty"`
	DistanceMeters    int                   `json:"distance_meters"`
	DrivingHours      float64               `json:"driving_hours"`
	Breaks            BreakScheduleResponse `json:"breaks"`
	TotalHours        float64               `json:"total_hours"`
	EstimatedDuration string                `json:"estimated_duration"`
	DepartAt          time.Time             `json:"depart_at"`
	ArriveAt          time.Time             `json:"arrive_at"`
	ArrivesAfterDark  bool                  `json:"arrives_after_dark"`
}
