package location

import (
	"context"

	"go-clockin/internal/domain"
)

// StaticSource serves a fixed fix, for hosts without a positioning device.
type StaticSource struct {
	pos *domain.GeoPosition
}

// NewStaticSource with a nil position always reports no fix.
func NewStaticSource(pos *domain.GeoPosition) *StaticSource {
	return &StaticSource{pos: pos}
}

func (s *StaticSource) LastKnown(ctx context.Context) (*domain.GeoPosition, error) {
	if s.pos == nil {
		return nil, nil
	}
	p := *s.pos
	return &p, nil
}
