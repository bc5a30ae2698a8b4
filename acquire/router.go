// Package acquire routes package and nearby requests to the remote service or
// directly to the generative backend, with a one-shot remote→direct fallback.
// Nothing in this package returns an error to its callers.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"wanderplan/models"
)

// ErrNotConfigured means a path has no usable configuration.
var ErrNotConfigured = errors.New("acquisition path not configured")

// Mode selects the primary acquisition path.
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeDirect Mode = "direct"
)

// ParseMode accepts "remote" or "direct" in any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeRemote:
		return ModeRemote, nil
	case ModeDirect, "":
		return ModeDirect, nil
	}
	return "", fmt.Errorf("unknown acquisition mode %q", s)
}

// Source is one acquisition path. Both *gemini.Client and *RemoteClient
// satisfy it.
type Source interface {
	GeneratePackage(ctx context.Context, city string) (*models.TravelPackage, error)
	DiscoverNearby(ctx context.Context, lat, lng float64, city string) ([]models.Place, error)
}

// Router picks a path per call. A nil Source marks that path as unusable.
type Router struct {
	mode   Mode
	remote Source
	direct Source
	log    *zap.Logger
}

// NewRouter builds a router. remote is ignored in ModeDirect.
func NewRouter(mode Mode, remote, direct Source, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{mode: mode, remote: remote, direct: direct, log: log}
}

// Mode reports the configured mode.
func (r *Router) Mode() Mode {
	return r.mode
}

// GeneratePackage returns a package or nil when every path failed.
func (r *Router) GeneratePackage(ctx context.Context, city string) *models.TravelPackage {
	pkg, err := route(r, "trip", func(s Source) (*models.TravelPackage, error) {
		return s.GeneratePackage(ctx, city)
	})
	if err != nil {
		r.log.Warn("package acquisition failed", zap.String("city", city), zap.Error(err))
		return nil
	}
	return pkg
}

// DiscoverNearby returns up to three places, or an empty slice when every
// path failed.
func (r *Router) DiscoverNearby(ctx context.Context, lat, lng float64, city string) []models.Place {
	places, err := route(r, "nearby", func(s Source) ([]models.Place, error) {
		return s.DiscoverNearby(ctx, lat, lng, city)
	})
	if err != nil {
		r.log.Warn("nearby acquisition failed",
			zap.String("city", city), zap.Float64("lat", lat), zap.Float64("lng", lng), zap.Error(err))
		return []models.Place{}
	}
	if places == nil {
		places = []models.Place{}
	}
	return places
}

// route tries remote once (in remote mode) and then direct once.
func route[T any](r *Router, op string, call func(Source) (T, error)) (T, error) {
	var zero T
	if r.mode == ModeRemote && r.remote != nil {
		v, err := call(r.remote)
		if err == nil {
			return v, nil
		}
		r.log.Info("remote path failed, falling back to direct", zap.String("op", op), zap.Error(err))
	}
	if r.direct == nil {
		return zero, ErrNotConfigured
	}
	return call(r.direct)
}
