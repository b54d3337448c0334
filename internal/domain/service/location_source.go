package service

import "context"

// Coordinates is a device-reported position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationSource resolves the current device position. Acquisition may be slow or
// denied; callers bound it with a context deadline and treat failure as "no location"
// rather than an error in the scan pipeline.
type LocationSource interface {
	// Current returns the device position, or an error when the position is
	// unavailable, denied, or the context deadline expires first.
	Current(ctx context.Context) (*Coordinates, error)
}
