// Package location provides service.LocationSource implementations.
package location

import (
	"context"

	"patrol/internal/domain/service"
	"patrol/internal/errors"
)

// ErrUnavailable is returned when no device position can be resolved.
var ErrUnavailable = errors.New("device position unavailable")

type unavailableSource struct{}

// NewUnavailableSource returns a source that never resolves a position. The
// server runs with this one: positions arrive inside scan and telemetry
// requests, so a scan without coordinates degrades to a no-location scan
// instead of blocking on acquisition.
func NewUnavailableSource() service.LocationSource {
	return &unavailableSource{}
}

func (s *unavailableSource) Current(ctx context.Context) (*service.Coordinates, error) {
	return nil, ErrUnavailable
}

type staticSource struct {
	coords service.Coordinates
}

// NewStaticSource returns a source pinned to fixed coordinates. The patrol
// agent seeds it from flags; tests use it as a deterministic device.
func NewStaticSource(latitude, longitude float64) service.LocationSource {
	return &staticSource{coords: service.Coordinates{Latitude: latitude, Longitude: longitude}}
}

func (s *staticSource) Current(ctx context.Context) (*service.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	coords := s.coords

	return &coords, nil
}
