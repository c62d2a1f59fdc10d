package handlers

import (
	"io"
	"mime"
	"net/http"
	"route-safety-service/internal/api/dto"
	"route-safety-service/internal/domain"
	"route-safety-service/internal/ports"
	"route-safety-service/internal/services"
	"strings"
	"time"
)

type BatchHandler struct {
	Catalog     ports.LocationCatalog
	Provider    ports.DistanceProvider
	Concurrency int
}

// Estimate accepts either a raw text/csv body (departure from the depart_at
// query parameter) or a JSON {"csv", "depart_at"} object.
func (h *BatchHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var (
		body   io.Reader
		depart time.Time
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/csv" || mediaType == "text/plain" {
		defer r.Body.Close()
		body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		if q := strings.TrimSpace(r.URL.Query().Get("depart_at")); q != "" {
			t, err := time.Parse(time.RFC3339, q)
			if err != nil {
				writeError(w, r, http.StatusBadRequest, "depart_at must be RFC 3339")
				return
			}
			depart = t
		}
	} else {
		var req dto.BatchRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		body = strings.NewReader(req.CSV)
		if req.DepartAt != nil {
			depart = *req.DepartAt
		}
	}

	rows, err := services.ParseBatchCSV(body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	items, err := services.EstimateBatch(r.Context(), rows, services.BatchOptions{
		DepartAt:    depart,
		Concurrency: h.Concurrency,
	}, h.Catalog, h.Provider)
	if err != nil {
		writeServiceError(w, r, "estimate batch", err)
		return
	}

	res := dto.BatchResponse{Items: make([]dto.BatchItemResponse, 0, len(items))}
	for _, it := range items {
		item := dto.BatchItemResponse{
			ID:          it.ID,
			RowIndex:    it.RowIndex,
			Origin:      it.Origin,
			Destination: it.Destination,
			Status:      string(it.Status),
			Error:       it.ErrorMsg,
		}
		if it.Status == domain.BatchStatusCompleted && it.Result != nil {
			est := toEstimateResponse(it.Result)
			item.Result = &est
			res.Completed++
		} else {
			res.Failed++
		}
		res.Items = append(res.Items, item)
	}

	writeJSON(w, r, http.StatusOK, res)
}
