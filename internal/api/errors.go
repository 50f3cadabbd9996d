package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ServiceError reports a non-2xx response. Detail carries the backend's
// explanation when the body had one.
type ServiceError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// TransportError reports a failure to reach the backend or to read its reply.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return e.Op + " failed"
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the transport gave up waiting.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var timeout interface{ Timeout() bool }
	if errors.As(e.Err, &timeout) {
		return timeout.Timeout()
	}
	return false
}

// IsTimeout reports whether err came from an expired deadline.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	var transport *TransportError
	if errors.As(err, &transport) {
		return transport.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// ServiceDetail returns the backend-provided detail carried by err, if any.
func ServiceDetail(err error) (string, bool) {
	var svc *ServiceError
	if errors.As(err, &svc) && strings.TrimSpace(svc.Detail) != "" {
		return svc.Detail, true
	}
	return "", false
}

// parseDetail extracts the "detail" field FastAPI attaches to error bodies.
// It is either a string or a list of validation issues with a "msg" each.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}
	var issues []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &issues); err == nil {
		for _, issue := range issues {
			if msg := strings.TrimSpace(issue.Msg); msg != "" {
				return msg
			}
		}
	}
	return ""
}
