package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"route-safety-service/internal/domain"
	"route-safety-service/internal/ports"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultBatchConcurrency = 4

var ErrEmptyBatch = errors.New("no valid rows found")

// BatchRow is one trip request read from a batch upload.
type BatchRow struct {
	OriginCity        string
	OriginCounty      string
	DestinationCity   string
	DestinationCounty string
}

type BatchOptions struct {
	DepartAt    time.Time
	Concurrency int
}

// ParseBatchCSV reads rows of "originCity,originCounty,destinationCity,destinationCounty".
// Counties may be empty. Blank lines and rows missing either city are skipped.
func ParseBatchCSV(r io.Reader) ([]BatchRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows := make([]BatchRow, 0, 16)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse batch csv: %w", err)
		}

		field := func(i int) string {
			if i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		row := BatchRow{
			OriginCity:        field(0),
			OriginCounty:      field(1),
			DestinationCity:   field(2),
			DestinationCounty: field(3),
		}
		if row.OriginCity == "" || row.DestinationCity == "" {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("parse batch csv: %w", ErrEmptyBatch)
	}

	return rows, nil
}

// EstimateBatch estimates every row with bounded parallelism. A failing row is
// recorded on its BatchItem and does not stop the others; only context
// cancellation aborts the batch. Items are returned in row order.
func EstimateBatch(
	ctx context.Context,
	rows []BatchRow,
	opts BatchOptions,
	catalog ports.LocationCatalog,
	provider ports.DistanceProvider,
) ([]domain.BatchItem, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("estimate batch: %w", ErrEmptyBatch)
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = defaultBatchConcurrency
	}

	items := make([]domain.BatchItem, len(rows))
	provider = prefetchDistances(ctx, rows, catalog, provider)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, row := range rows {
		i, row := i, row
		items[i] = domain.BatchItem{
			ID:          uuid.NewString(),
			RowIndex:    i,
			Origin:      domain.Location{City: row.OriginCity, County: row.OriginCounty}.Label(),
			Destination: domain.Location{City: row.DestinationCity, County: row.DestinationCounty}.Label(),
		}

		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			est, err := EstimateTrip(gCtx, EstimateTripRequest{
				OriginCity:        row.OriginCity,
				OriginCounty:      row.OriginCounty,
				DestinationCity:   row.DestinationCity,
				DestinationCounty: row.DestinationCounty,
				DepartAt:          opts.DepartAt,
			}, catalog, provider)

			// Each goroutine owns items[i]; no locking needed.
			if err != nil {
				if ctxErr := gCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warn().Int("row", i).Err(err).Msg("batch row failed")
				items[i].Status = domain.BatchStatusError
				items[i].ErrorMsg = err.Error()
				return nil
			}

			items[i].Status = domain.BatchStatusCompleted
			items[i].Result = est
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("estimate batch: %w", err)
	}

	return items, nil
}

// prefetchDistances resolves every row and, when the provider answers matrix
// lookups, fetches each origin's destinations in one call. Rows that fail to
// resolve or fetch fall through to the per-row lookup, which reports the error.
func prefetchDistances(
	ctx context.Context,
	rows []BatchRow,
	catalog ports.LocationCatalog,
	provider ports.DistanceProvider,
) ports.DistanceProvider {
	mp, ok := provider.(ports.DistanceMatrixProvider)
	if !ok || catalog == nil {
		return provider
	}

	var origins []string
	byOrigin := make(map[string][]string)
	for _, row := range rows {
		from, err := resolveLocation(catalog, row.OriginCity, row.OriginCounty, nil)
		if err != nil {
			continue
		}
		to, err := resolveLocation(catalog, row.DestinationCity, row.DestinationCounty, nil)
		if err != nil {
			continue
		}

		o := from.Coords.String()
		if _, seen := byOrigin[o]; !seen {
			origins = append(origins, o)
		}
		byOrigin[o] = append(byOrigin[o], to.Coords.String())
	}

	known := make(map[string]ports.DistanceResult)
	for _, o := range origins {
		res, err := mp.GetDistances(ctx, o, byOrigin[o])
		if err != nil {
			log.Debug().Err(err).Str("origin", o).Msg("batch prefetch failed")
			continue
		}
		for d, r := range res {
			known[o+"|"+d] = r
		}
	}

	if len(known) == 0 {
		return provider
	}
	return &prefetchedProvider{next: provider, known: known}
}

// prefetchedProvider answers from a read-only table before delegating.
type prefetchedProvider struct {
	next  ports.DistanceProvider
	known map[string]ports.DistanceResult
}

func (p *prefetchedProvider) GetDistance(ctx context.Context, origin, destination string) (ports.DistanceResult, error) {
	if r, ok := p.known[origin+"|"+destination]; ok {
		return r, nil
	}
	return p.next.GetDistance(ctx, origin, destination)
}
