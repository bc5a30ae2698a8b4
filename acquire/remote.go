package acquire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wanderplan/gemini"
	"wanderplan/models"
)

// RemoteClient calls the same-purpose HTTP endpoints served by `wanderplan serve`.
type RemoteClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemoteClient returns a client for baseURL (e.g. http://localhost:3000/api).
func NewRemoteClient(baseURL string, timeout time.Duration) *RemoteClient {
	return &RemoteClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GeneratePackage posts {city} to /trip.
func (r *RemoteClient) GeneratePackage(ctx context.Context, city string) (*models.TravelPackage, error) {
	body, err := r.post(ctx, "/trip", models.TripRequest{City: city})
	if err != nil {
		return nil, err
	}
	pkg, err := models.DecodePackage(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gemini.ErrAcquisition, err)
	}
	return pkg, nil
}

// DiscoverNearby posts {lat, lng, city} to /nearby.
func (r *RemoteClient) DiscoverNearby(ctx context.Context, lat, lng float64, city string) ([]models.Place, error) {
	body, err := r.post(ctx, "/nearby", models.NearbyRequest{Lat: &lat, Lng: &lng, City: city})
	if err != nil {
		return nil, err
	}
	places, err := models.DecodePlaces(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gemini.ErrAcquisition, err)
	}
	if len(places) > gemini.MaxDiscovered {
		places = places[:gemini.MaxDiscovered]
	}
	return places, nil
}

func (r *RemoteClient) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gemini.ErrAcquisition, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gemini.ErrAcquisition, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", gemini.ErrAcquisition, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", gemini.ErrAcquisition, path, resp.Status)
	}
	return body, nil
}

// Health calls GET /health and reports whether the server answered 200.
func (r *RemoteClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health returned %s", resp.Status)
	}
	return nil
}
