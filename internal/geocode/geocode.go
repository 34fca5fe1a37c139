// Package geocode resolves free-text place names to coordinates.
package geocode

import (
	"context"
	"errors"
)

// Errors surfaced to the user verbatim. The chat router prints the text of
// these directly, anything else gets the generic failure message.
var (
	ErrNoResults     = errors.New("Я не знайшов таке місце. Спробуйте ще раз")
	ErrPlaceTooShort = errors.New("Назва місця занадто коротка. Вкажіть принаймні два символи")
)

// Location is a resolved place.
type Location struct {
	Latitude  float64
	Longitude float64
	City      string
	State     string
	Country   string
	Formatted string
}

// Geocoder resolves a place name to a location.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (*Location, error)
}

// Recorder receives call outcomes, typically a resilience registry.
type Recorder interface {
	RecordSuccess(name string)
	RecordFailure(name string, err error)
}

// WithRecorder wraps a geocoder so every call outcome is reported under
// the given provider name. User-input errors are not provider failures.
func WithRecorder(g Geocoder, name string, rec Recorder) Geocoder {
	return &recordedGeocoder{inner: g, name: name, recorder: rec}
}

type recordedGeocoder struct {
	inner    Geocoder
	name     string
	recorder Recorder
}

func (r *recordedGeocoder) Geocode(ctx context.Context, place string) (*Location, error) {
	loc, err := r.inner.Geocode(ctx, place)
	switch {
	case err == nil, errors.Is(err, ErrNoResults), errors.Is(err, ErrPlaceTooShort):
		r.recorder.RecordSuccess(r.name)
	default:
		r.recorder.RecordFailure(r.name, err)
	}
	return loc, err
}
