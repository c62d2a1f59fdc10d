package services

import (
	"context"
	"errors"
	"fmt"
	"route-safety-service/internal/domain"
	"route-safety-service/internal/platform/obs"
	"route-safety-service/internal/ports"
	"strings"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

var ErrLocationNotFound = errors.New("location not found")

type EstimateTripRequest struct {
	OriginCity        string
	OriginCounty      string
	OriginCoords      *domain.Coordinates
	DestinationCity   string
	DestinationCounty string
	DestinationCoords *domain.Coordinates
	StopName          string
	StopCoords        *domain.Coordinates
	DepartAt          time.Time
}

// EstimateTrip resolves both ends of a trip, fetches the road distance, and
// assembles the trip estimate with its mandatory break schedule.
//
// Explicit coordinates take precedence over catalog lookup. With a stop, the
// distance is the sum of the origin->stop and stop->destination legs.
func EstimateTrip(
	ctx context.Context,
	req EstimateTripRequest,
	catalog ports.LocationCatalog,
	provider ports.DistanceProvider,
) (_ *domain.TripEstimate, err error) {
	defer obs.Time(ctx, "services.EstimateTrip")(&err)

	origin, err := resolveLocation(catalog, req.OriginCity, req.OriginCounty, req.OriginCoords)
	if err != nil {
		return nil, fmt.Errorf("estimate trip: origin: %w", err)
	}

	destination, err := resolveLocation(catalog, req.DestinationCity, req.DestinationCounty, req.DestinationCoords)
	if err != nil {
		return nil, fmt.Errorf("estimate trip: destination: %w", err)
	}

	var stop *domain.Location
	if req.StopCoords != nil || strings.TrimSpace(req.StopName) != "" {
		s, err := resolveLocation(catalog, req.StopName, "", req.StopCoords)
		if err != nil {
			return nil, fmt.Errorf("estimate trip: stop: %w", err)
		}
		stop = &s
	}

	legs := []domain.Location{origin}
	if stop != nil {
		legs = append(legs, *stop)
	}
	legs = append(legs, destination)

	distanceMeters := 0
	for i := 0; i < len(legs)-1; i++ {
		from, to := legs[i].Coords.String(), legs[i+1].Coords.String()

		r, err := provider.GetDistance(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("estimate trip: get distance %q -> %q: %w", legs[i].Label(), legs[i+1].Label(), err)
		}
		distanceMeters += r.DistanceMeters
	}

	drivingHours, err := TruckDrivingHours(distanceMeters)
	if err != nil {
		return nil, fmt.Errorf("estimate trip: %w", err)
	}

	breaks, err := ComputeBreakSchedule(drivingHours)
	if err != nil {
		return nil, fmt.Errorf("estimate trip: %w", err)
	}

	totalHours := drivingHours + float64(breaks.TotalBreakMinutes)/60

	// Departures in the past are treated as leaving now.
	departAt := req.DepartAt
	if now := time.Now(); departAt.IsZero() || departAt.Before(now) {
		departAt = now
	}
	arriveAt := departAt.Add(time.Duration(totalHours * float64(time.Hour)))

	return &domain.TripEstimate{
		Origin:           origin,
		Destination:      destination,
		Stop:             stop,
		DistanceMeters:   distanceMeters,
		DrivingHours:     drivingHours,
		Breaks:           breaks,
		TotalHours:       totalHours,
		DepartAt:         departAt,
		ArriveAt:         arriveAt,
		ArrivesAfterDark: isDark(*destination.Coords, arriveAt),
	}, nil
}

func resolveLocation(
	catalog ports.LocationCatalog,
	city string,
	county string,
	coords *domain.Coordinates,
) (domain.Location, error) {
	city = strings.TrimSpace(city)
	county = strings.TrimSpace(county)

	if coords != nil {
		if err := coords.Validate(); err != nil {
			return domain.Location{}, fmt.Errorf("resolve location %q: %w", city, err)
		}
		c := *coords
		if city == "" {
			city = c.String()
		}
		return domain.Location{City: city, County: county, Coords: &c, Matched: true}, nil
	}

	if city == "" {
		return domain.Location{}, fmt.Errorf("resolve location: city must be non-empty: %w", ErrLocationNotFound)
	}
	if catalog == nil {
		return domain.Location{}, fmt.Errorf("resolve location %q: no catalog and no coordinates: %w", city, ErrLocationNotFound)
	}

	loc := catalog.FindLocation(city, county)
	if !loc.Matched {
		return domain.Location{}, fmt.Errorf("resolve location %q: %w", city, ErrLocationNotFound)
	}
	if loc.Coords == nil {
		return domain.Location{}, fmt.Errorf("resolve location %q: no coordinates on record: %w", loc.Label(), ErrLocationNotFound)
	}

	return loc, nil
}

// isDark reports whether t falls outside the sunrise-sunset window at c.
// Sun times are taken for the UTC calendar day of t.
func isDark(c domain.Coordinates, t time.Time) bool {
	t = t.UTC()
	rise, set := sunrise.SunriseSunset(c.Lat, c.Lon, t.Year(), t.Month(), t.Day())
	if rise.IsZero() || set.IsZero() {
		return false
	}
	return t.Before(rise) || t.After(set)
}
