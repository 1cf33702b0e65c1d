package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nerrad567/gray-logic-daylight/internal/solar"
)

// DefaultTimeout bounds a single online lookup.
const DefaultTimeout = 5 * time.Second

// Coordinates is a point on the globe in degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks the coordinate ranges.
func (c Coordinates) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: (%g, %g)", ErrInvalidCoordinates, c.Latitude, c.Longitude)
	}
	return nil
}

// Provider looks up the current coordinates.
type Provider interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// Static always returns the configured coordinates.
type Static Coordinates

// Locate implements Provider.
func (s Static) Locate(context.Context) (Coordinates, error) {
	c := Coordinates(s)
	if err := c.Validate(); err != nil {
		return Coordinates{}, err
	}
	return c, nil
}

// HTTPProvider queries an ip-api compatible JSON endpoint
// ({"status":"success","lat":..,"lon":..}).
type HTTPProvider struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewHTTPProvider creates a provider for url. A non-positive timeout uses DefaultTimeout.
func NewHTTPProvider(url string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPProvider{
		url:     url,
		timeout: timeout,
		client:  &http.Client{},
	}
}

type lookupResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// Locate performs the lookup within the provider timeout.
//
// Returns:
//   - Coordinates: the located point
//   - error: ErrRequestTimeout when the wait expires, ErrLookupFailed for bad answers
func (p *HTTPProvider) Locate(ctx context.Context) (Coordinates, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Coordinates{}, fmt.Errorf("%w after %s", ErrRequestTimeout, p.timeout)
		}
		return Coordinates{}, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	const maxResponseSize = 64 << 10
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Coordinates{}, fmt.Errorf("%w after %s", ErrRequestTimeout, p.timeout)
		}
		return Coordinates{}, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("%w: HTTP %d", ErrLookupFailed, resp.StatusCode)
	}

	var lr lookupResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return Coordinates{}, fmt.Errorf("%w: decoding response: %w", ErrLookupFailed, err)
	}
	if lr.Status != "" && lr.Status != "success" {
		return Coordinates{}, fmt.Errorf("%w: %s %s", ErrLookupFailed, lr.Status, lr.Message)
	}
	if lr.Lat == nil || lr.Lon == nil {
		return Coordinates{}, fmt.Errorf("%w: response has no coordinates", ErrLookupFailed)
	}

	c := Coordinates{Latitude: *lr.Lat, Longitude: *lr.Lon}
	if err := c.Validate(); err != nil {
		return Coordinates{}, err
	}
	return c, nil
}

// Logger is the subset of logging used by Resolve.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Resolve returns p's coordinates, or (0, 0) when the lookup fails.
// The second return reports whether the lookup succeeded.
func Resolve(ctx context.Context, p Provider, logger Logger) (Coordinates, bool) {
	c, err := p.Locate(ctx)
	if err != nil {
		logger.Warn("geolocation failed, using fallback",
			"error", err,
			"latitude", 0.0,
			"longitude", 0.0,
		)
		return Coordinates{}, false
	}
	logger.Info("geolocation resolved", "latitude", c.Latitude, "longitude", c.Longitude)
	return c, true
}

// LocalTime returns t on the clock the solar instants are computed for:
// the zone of *override when set, otherwise the host's zone.
func LocalTime(override *float64, t time.Time) time.Time {
	if override != nil {
		return t.In(solar.Zone(*override))
	}
	return t.In(time.Local)
}

// OffsetOr returns *override when set, otherwise the host's UTC offset at t.
func OffsetOr(override *float64, t time.Time) float64 {
	if override != nil {
		return *override
	}
	return solar.LocalOffsetHours(t.In(time.Local))
}
