package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// FetchConfig reads the stored provider keys. Absent fields decode as "".
func (c *Client) FetchConfig(ctx context.Context) (Config, error) {
	body, err := c.do(ctx, "fetch config", http.MethodGet, "/config", nil)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if len(bytes.TrimSpace(body)) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(body, &cfg); err != nil {
		return Config{}, &TransportError{Op: "fetch config", Err: errors.Wrap(err, "decode response")}
	}
	return cfg, nil
}

// SaveConfig replaces the stored provider keys. The response body is ignored.
func (c *Client) SaveConfig(ctx context.Context, cfg Config) error {
	_, err := c.do(ctx, "save config", http.MethodPost, "/config", cfg)
	return err
}

// Summarize submits a video link and returns the markdown summary.
func (c *Client) Summarize(ctx context.Context, req SummarizeRequest) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", &TransportError{Op: "summarize", Err: errors.Wrap(err, "rate limit")}
		}
	}
	body, err := c.do(ctx, "summarize", http.MethodPost, "/summarize", req)
	if err != nil {
		return "", err
	}
	var parsed struct {
		Summary *string `json:"summary"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &TransportError{Op: "summarize", Err: errors.Wrap(err, "decode response")}
	}
	if parsed.Summary == nil {
		return "", ErrEmptySummary
	}
	return *parsed.Summary, nil
}

// ErrEmptySummary is returned when a 2xx summarize response has no summary field.
var ErrEmptySummary = errors.New("summarize response had no summary")

func (c *Client) do(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: encode payload", op)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: build request", op)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.WithFields(logrus.Fields{"op": op, "request_id": requestID})
	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		svcErr := &ServiceError{Op: op, StatusCode: resp.StatusCode, Detail: parseDetail(raw)}
		log.WithFields(logrus.Fields{
			"status":   resp.StatusCode,
			"detail":   svcErr.Detail,
			"duration": time.Since(started),
		}).Warn("backend returned an error")
		return nil, svcErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: errors.Wrap(err, "read response")}
	}
	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(started),
		"bytes":    len(body),
	}).Debug("request completed")
	return body, nil
}
