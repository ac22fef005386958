package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const containerProvider = "ucontainers"

// ContainerTrackConfig carries uContainers credentials.
type ContainerTrackConfig struct {
	URL      string
	Token    string
	Username string
	Password string
}

// ContainerTrackClient speaks the uContainers form/JSON hybrid API.
type ContainerTrackClient struct {
	cfg      ContainerTrackConfig
	http     *http.Client
	sessions *SessionStore
	logger   *slog.Logger
}

// NewContainerTrackClient constructs a ContainerTrackClient.
func NewContainerTrackClient(cfg ContainerTrackConfig, sessions *SessionStore, logger *slog.Logger) *ContainerTrackClient {
	return &ContainerTrackClient{
		cfg:      cfg,
		http:     &http.Client{Timeout: 30 * time.Second},
		sessions: sessions,
		logger:   logger,
	}
}

// Login authenticates with form credentials and stores the session cookie.
func (c *ContainerTrackClient) Login(ctx context.Context) (string, error) {
	if c.cfg.Username == "" || c.cfg.Password == "" {
		return "", fmt.Errorf("ucontainers login: credentials not configured")
	}

	form := url.Values{}
	form.Set("username", c.cfg.Username)
	form.Set("password", c.cfg.Password)

	endpoint := strings.TrimRight(c.cfg.URL, "/") + "/api/auth.php"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ucontainers login: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	cookies := resp.Header.Values("Set-Cookie")
	if len(cookies) == 0 {
		return "", fmt.Errorf("ucontainers login: no session cookie returned")
	}
	cookie := cookies[0]
	if idx := strings.Index(cookie, ";"); idx >= 0 {
		cookie = cookie[:idx]
	}

	if err := c.sessions.Set(ctx, containerProvider, cookie); err != nil {
		return "", err
	}
	c.logger.Info("ucontainers session established")
	return cookie, nil
}

// Renew discards the stored session and logs in again.
func (c *ContainerTrackClient) Renew(ctx context.Context) error {
	if err := c.sessions.Drop(ctx, containerProvider); err != nil {
		return err
	}
	_, err := c.Login(ctx)
	return err
}

// Containers returns the raw tracking payload for every registered
// container. A stale session triggers one re-login before giving up.
func (c *ContainerTrackClient) Containers(ctx context.Context) (json.RawMessage, error) {
	session, err := c.sessions.Get(ctx, containerProvider)
	if err != nil {
		if err != errNoSession {
			return nil, err
		}
		if session, err = c.Login(ctx); err != nil {
			return nil, err
		}
	}

	data, status, err := c.fetch(ctx, session)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		if session, err = c.Login(ctx); err != nil {
			return nil, err
		}
		data, status, err = c.fetch(ctx, session)
		if err != nil {
			return nil, err
		}
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("ucontainers track: unexpected status %d", status)
	}
	return data, nil
}

func (c *ContainerTrackClient) fetch(ctx context.Context, session string) (json.RawMessage, int, error) {
	payload, err := json.Marshal(map[string]string{
		"token":    c.cfg.Token,
		"api_name": "get_containers",
	})
	if err != nil {
		return nil, 0, err
	}

	endpoint := strings.TrimRight(c.cfg.URL, "/") + "/api/track_api.php"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", session)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("ucontainers track: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}
