// Package gemini builds schema-constrained generation requests for travel
// packages and nearby places and validates what comes back.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"wanderplan/models"
)

// ErrAcquisition covers every way a generation call can fail: transport,
// timeout, empty output, malformed JSON, schema mismatch.
var ErrAcquisition = errors.New("acquisition failed")

// Generator sends one prompt with a response schema and returns the raw JSON
// text of the answer.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

// Client is the structured generation client.
type Client struct {
	gen     Generator
	timeout time.Duration
	log     *zap.Logger
}

// NewClient wraps a generator. A zero timeout leaves deadlines to the caller.
func NewClient(gen Generator, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{gen: gen, timeout: timeout, log: log}
}

// GeneratePackage asks the backend for a full travel package for city.
func (c *Client) GeneratePackage(ctx context.Context, city string) (*models.TravelPackage, error) {
	text, err := c.generate(ctx, packagePrompt(city), PackageSchema())
	if err != nil {
		return nil, err
	}
	pkg, err := models.DecodePackage([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAcquisition, err)
	}
	c.log.Debug("package generated",
		zap.String("city", pkg.City),
		zap.Int("places", len(pkg.Places)),
		zap.Int("days", len(pkg.Itinerary)))
	return pkg, nil
}

// DiscoverNearby asks for up to MaxDiscovered places around lat/lng.
func (c *Client) DiscoverNearby(ctx context.Context, lat, lng float64, city string) ([]models.Place, error) {
	text, err := c.generate(ctx, nearbyPrompt(lat, lng, city), NearbySchema())
	if err != nil {
		return nil, err
	}
	places, err := models.DecodePlaces([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAcquisition, err)
	}
	if len(places) > MaxDiscovered {
		places = places[:MaxDiscovered]
	}
	return places, nil
}

func (c *Client) generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	if c == nil || c.gen == nil {
		return "", fmt.Errorf("%w: no generator configured", ErrAcquisition)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := c.gen.GenerateJSON(ctx, prompt, schema)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAcquisition, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response text", ErrAcquisition)
	}
	return text, nil
}
