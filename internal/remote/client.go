package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/mapleship/regions-backend/internal/config"
	"github.com/mapleship/regions-backend/internal/domain"
)

// Client talks to the authoritative region store over its REST contract:
//
//	GET    /regions        -> {success, data}
//	POST   /regions        -> {success}        (body = full region map)
//	PUT    /regions/{id}   -> {success, data}  (body = one region)
//	DELETE /regions/{id}   -> {success}
//
// Every call is bounded by a client-side deadline. A timeout surfaces as an
// ordinary transport error; callers treat any error here as the store being
// unreachable.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	probeTimeout time.Duration
}

func NewClient(cfg config.Remote) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		probeTimeout: cfg.ProbeTimeout,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type regionMapResponse struct {
	Success bool             `json:"success"`
	Data    domain.RegionMap `json:"data"`
	Message string           `json:"message,omitempty"`
}

type regionResponse struct {
	Success bool           `json:"success"`
	Data    *domain.Region `json:"data"`
	Message string         `json:"message,omitempty"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Ping probes reachability with a short deadline, independent of the regular
// request timeout.
func (c *Client) Ping(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	var out regionMapResponse
	if err := c.doJSON(probeCtx, http.MethodGet, "/regions", nil, &out); err != nil {
		return err
	}
	if !out.Success {
		return errors.New("region store reported failure on probe")
	}
	return nil
}

// FetchRegions retrieves the full region map.
func (c *Client) FetchRegions(ctx context.Context) (domain.RegionMap, error) {
	var out regionMapResponse
	if err := c.doJSON(ctx, http.MethodGet, "/regions", nil, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, errors.Errorf("region store rejected fetch: %s", out.Message)
	}
	return out.Data, nil
}

// SaveRegions replaces the full region map.
func (c *Client) SaveRegions(ctx context.Context, regions domain.RegionMap) error {
	var out statusResponse
	if err := c.doJSON(ctx, http.MethodPost, "/regions", regions, &out); err != nil {
		return err
	}
	if !out.Success {
		return errors.Errorf("region store rejected save: %s", out.Message)
	}
	return nil
}

// PutRegion replaces a single region document.
func (c *Client) PutRegion(ctx context.Context, id string, region *domain.Region) (*domain.Region, error) {
	var out regionResponse
	if err := c.doJSON(ctx, http.MethodPut, "/regions/"+id, region, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, errors.Errorf("region store rejected put of region %s: %s", id, out.Message)
	}
	return out.Data, nil
}

// DeleteRegion removes a single region document.
func (c *Client) DeleteRegion(ctx context.Context, id string) error {
	var out statusResponse
	if err := c.doJSON(ctx, http.MethodDelete, "/regions/"+id, nil, &out); err != nil {
		return err
	}
	if !out.Success {
		return errors.Errorf("region store rejected delete of region %s: %s", id, out.Message)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method string, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "build region store request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "region store request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read region store response")
	}

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("region store returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return errors.Wrap(err, "decode region store response")
		}
	}
	return nil
}
