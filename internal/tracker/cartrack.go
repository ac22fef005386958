package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const cartrackProvider = "cartrack"

// CartrackConfig carries fleetweb credentials.
type CartrackConfig struct {
	URL      string
	Account  string
	Username string
	Password string
}

// CartrackClient speaks the fleetweb JSON-RPC dialect. All calls ride on
// a session cookie obtained from ct_login and cached in the SessionStore.
type CartrackClient struct {
	cfg      CartrackConfig
	http     *http.Client
	sessions *SessionStore
	logger   *slog.Logger
}

// NewCartrackClient constructs a CartrackClient.
func NewCartrackClient(cfg CartrackConfig, sessions *SessionStore, logger *slog.Logger) *CartrackClient {
	return &CartrackClient{
		cfg:      cfg,
		http:     &http.Client{Timeout: 30 * time.Second},
		sessions: sessions,
		logger:   logger,
	}
}

type rpcRequest struct {
	Version string `json:"version,omitempty"`
	JSONRPC string `json:"jsonrpc,omitempty"`
	Method  string `json:"method"`
	ID      int    `json:"id"`
	Params  any    `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *CartrackClient) endpoint() string {
	return strings.TrimRight(c.cfg.URL, "/") + "/jsonrpc/index.php"
}

// Login authenticates against fleetweb and stores the session cookie.
func (c *CartrackClient) Login(ctx context.Context) (string, error) {
	payload := rpcRequest{
		Version: "2.0",
		Method:  "ct_login",
		ID:      10,
		Params: map[string]any{
			"x":           "x",
			"account":     c.cfg.Account,
			"username":    c.cfg.Username,
			"password":    c.cfg.Password,
			"locale":      "en-ZA",
			"otp":         "",
			"browserName": "",
			"version":     "3.4.7",
			"environment": "live",
			"thirdParty":  false,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("cartrack login: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	cookies := resp.Header.Values("Set-Cookie")
	if len(cookies) == 0 {
		return "", fmt.Errorf("cartrack login: no session cookie returned")
	}
	parts := make([]string, 0, len(cookies))
	for _, cookie := range cookies {
		if idx := strings.Index(cookie, ";"); idx >= 0 {
			cookie = cookie[:idx]
		}
		parts = append(parts, cookie)
	}
	session := strings.Join(parts, "; ")

	if err := c.sessions.Set(ctx, cartrackProvider, session); err != nil {
		return "", err
	}
	c.logger.Info("cartrack session established")
	return session, nil
}

// Renew discards any cached session and authenticates again.
func (c *CartrackClient) Renew(ctx context.Context) error {
	if err := c.sessions.Drop(ctx, cartrackProvider); err != nil {
		return err
	}
	_, err := c.Login(ctx)
	return err
}

// call performs one JSON-RPC request, logging in first when no session is
// cached and retrying once after re-login when the session has gone stale.
func (c *CartrackClient) call(ctx context.Context, method string, params any, result any) error {
	session, err := c.sessions.Get(ctx, cartrackProvider)
	if err != nil {
		if err != errNoSession {
			return err
		}
		if session, err = c.Login(ctx); err != nil {
			return err
		}
	}

	rpcErr, err := c.invoke(ctx, session, method, params, result)
	if err != nil {
		return err
	}
	if rpcErr != nil {
		// Stale sessions come back as an RPC error; retry on a fresh one.
		if session, err = c.Login(ctx); err != nil {
			return err
		}
		rpcErr, err = c.invoke(ctx, session, method, params, result)
		if err != nil {
			return err
		}
		if rpcErr != nil {
			return fmt.Errorf("cartrack %s: %s (code %d)", method, rpcErr.Message, rpcErr.Code)
		}
	}
	return nil
}

func (c *CartrackClient) invoke(ctx context.Context, session, method string, params any, result any) (*rpcError, error) {
	body, err := json.Marshal(rpcRequest{Version: "2.0", Method: method, ID: 10, Params: params})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", session)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cartrack %s: %w", method, err)
	}
	defer resp.Body.Close()

	var parsed rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("cartrack %s: decode response: %w", method, err)
	}
	if parsed.Error != nil {
		return parsed.Error, nil
	}
	if result != nil {
		if err := json.Unmarshal(parsed.Result, result); err != nil {
			return nil, fmt.Errorf("cartrack %s: decode result: %w", method, err)
		}
	}
	return nil, nil
}

// Vehicle is one tracked truck.
type Vehicle struct {
	VehicleID    string `json:"vehicle_id"`
	Registration string `json:"registration"`
	Description  string `json:"description"`
}

type vehicleListResult struct {
	Vehicles []Vehicle `json:"ct_fleet_get_vehiclelist"`
}

// Vehicles returns the tracked fleet.
func (c *CartrackClient) Vehicles(ctx context.Context) ([]Vehicle, error) {
	var result vehicleListResult
	if err := c.call(ctx, "ct_fleet_get_vehiclelist_v3", map[string]any{}, &result); err != nil {
		return nil, err
	}
	return result.Vehicles, nil
}

type positionsResult struct {
	Positions json.RawMessage `json:"ct_fleet_get_vehicle_positions"`
}

// Positions returns raw position records for the given vehicles. The
// upstream payload shape shifts between agent versions, so it passes
// through untyped.
func (c *CartrackClient) Positions(ctx context.Context, vehicleIDs []string) (json.RawMessage, error) {
	var result positionsResult
	params := map[string]any{"vehicleIds": vehicleIDs}
	if err := c.call(ctx, "ct_fleet_get_vehicle_positions", params, &result); err != nil {
		return nil, err
	}
	return result.Positions, nil
}

// FleetPositions resolves the vehicle list and then every position.
func (c *CartrackClient) FleetPositions(ctx context.Context) (json.RawMessage, error) {
	vehicles, err := c.Vehicles(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		ids = append(ids, v.VehicleID)
	}
	return c.Positions(ctx, ids)
}

// Timeline returns the event timeline for one vehicle on one calendar day.
func (c *CartrackClient) Timeline(ctx context.Context, vehicleID, date string) (json.RawMessage, error) {
	var result json.RawMessage
	params := map[string]any{
		"vehicle_id": vehicleID,
		"start_date": date + " 00:00:00",
		"end_date":   date + " 23:59:59",
	}
	if err := c.call(ctx, "ct_fleet_get_timeline_events", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

type geofenceResult struct {
	Geofences json.RawMessage `json:"ct_fleet_get_geofence"`
}

// Geofences returns the configured geofence polygons.
func (c *CartrackClient) Geofences(ctx context.Context) (json.RawMessage, error) {
	var result geofenceResult
	if err := c.call(ctx, "ct_fleet_get_geofence_v2", map[string]any{}, &result); err != nil {
		return nil, err
	}
	return result.Geofences, nil
}

// Snapshot bundles positions and geofences for the live map.
type Snapshot struct {
	Positions json.RawMessage `json:"positions"`
	Geofences json.RawMessage `json:"geofences"`
}

// MapSnapshot fetches positions and geofences concurrently.
func (c *CartrackClient) MapSnapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		positions, err := c.FleetPositions(ctx)
		if err != nil {
			return err
		}
		snap.Positions = positions
		return nil
	})
	g.Go(func() error {
		geofences, err := c.Geofences(ctx)
		if err != nil {
			return err
		}
		snap.Geofences = geofences
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
