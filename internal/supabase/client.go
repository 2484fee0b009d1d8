// Package supabase implements the backend gateways against a Supabase project:
// PostgREST tables, GoTrue password sign-in and Storage uploads.
package supabase

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"clinic_crm_backend/internal/repositories"

	"github.com/go-resty/resty/v2"
)

// Client is the shared HTTP client for one Supabase project.
type Client struct {
	http    *resty.Client
	baseURL string
}

// NewClient builds a client authenticated with the project's API key.
// No retries are configured: a failed call is reported to the caller as-is.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("apikey", apiKey).
		SetAuthToken(apiKey).
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient, baseURL: baseURL}
}

// apiError is the error body shape shared by PostgREST, GoTrue and Storage.
type apiError struct {
	Code             string `json:"code"`
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e *apiError) text() string {
	for _, s := range []string{e.Message, e.Msg, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// checkResponse turns transport failures and non-2xx answers into repository sentinels.
func checkResponse(resp *resty.Response, err error, action string) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %v", repositories.ErrDatabaseError, action, err)
	}
	if resp.IsSuccess() {
		return nil
	}
	detail := strings.TrimSpace(resp.String())
	if apiErr, ok := resp.Error().(*apiError); ok && apiErr.text() != "" {
		detail = apiErr.text()
	}
	switch resp.StatusCode() {
	case http.StatusConflict:
		return fmt.Errorf("%w: %s: %s", repositories.ErrDuplicateKey, action, detail)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s: %s", repositories.ErrNotFound, action, detail)
	}
	return fmt.Errorf("%w: %s: status %d: %s", repositories.ErrDatabaseError, action, resp.StatusCode(), detail)
}
