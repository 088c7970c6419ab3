// package services defines interface Service for interacting with HTTP APIs
//
// Yandex Music (source), YouTube Music (target, via proxy)
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/desertthunder/ymx/internal/shared"
)

// Service defines what every music service client shares.
type Service interface {
	// Authenticate configures credentials for subsequent requests.
	// Returns an error if required credentials are missing.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// Name returns the name of the service (e.g., "Yandex Music", "YouTube Music")
	Name() string
}

// decodeResponse checks the status code and decodes a JSON body into result.
//
// detail extracts a service specific message from an error body.
func decodeResponse(service string, resp *http.Response, result any, detail func([]byte) string) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if msg := detail(body); msg != "" {
			return fmt.Errorf("%w: %s error (status %d): %s", statusError(resp.StatusCode), service, resp.StatusCode, msg)
		}
		return fmt.Errorf("%w: %s error: status %d", statusError(resp.StatusCode), service, resp.StatusCode)
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %v", shared.ErrAPIRequest, service, err)
	}
	return nil
}

func statusError(code int) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return shared.ErrAuthFailed
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return shared.ErrServiceUnavailable
	default:
		return shared.ErrAPIRequest
	}
}

// transportError classifies a failed round trip.
func transportError(service string, err error) error {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return fmt.Errorf("%w: %s unreachable: %v", shared.ErrServiceUnavailable, service, err)
	}
	return fmt.Errorf("%w: %s request failed: %v", shared.ErrAPIRequest, service, err)
}
