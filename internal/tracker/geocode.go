package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Geocoder resolves coordinates to addresses through Nominatim. The
// usage policy requires an identifying User-Agent on every request.
type Geocoder struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewGeocoder constructs a Geocoder.
func NewGeocoder(userAgent string) *Geocoder {
	return &Geocoder{
		baseURL:   "https://nominatim.openstreetmap.org",
		userAgent: userAgent,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// Reverse returns the raw Nominatim payload for the given coordinates.
func (g *Geocoder) Reverse(ctx context.Context, lat, lon string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", lat)
	query.Set("lon", lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reverse geocode: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
