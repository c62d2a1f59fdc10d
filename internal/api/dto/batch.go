package dto

import "time"

// BatchRequest carries CSV rows of "originCity,originCounty,destinationCity,destinationCounty".
type BatchRequest struct {
	CSV      string     `json:"csv" validate:"required,max=1048576"`
	DepartAt *time.Time `json:"depart_at"`
}

type BatchItemResponse struct {
	ID          string            `json:"id"`
	RowIndex    int               `json:"row_index"`
	Origin      string            `json:"origin"`
	Destination string            `json:"destination"`
	Status      string            `json:"status"`
	Result      *EstimateResponse `json:"result,omitempty"`
	Error       string            `json:"error,omitempty"`
}

type BatchResponse struct {
	Completed int                 `json:"completed"`
	Failed    int                 `json:"failed"`
	Items     []BatchItemResponse `json:"items"`
}
